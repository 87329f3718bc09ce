// Package visitor remembers who registered from this browser and builds
// the greeting shown at the top of the page.
package visitor

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Greetings shown by the banner.
const (
	GenericWelcome   = "Welcome to our Childcare Center!"
	returningWelcome = "Welcome back, %s's parents!"
)

// Store is a small key-value store scoped to one visitor.
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string, ttl time.Duration)
}

// CookieStore implements Store on top of the cookies of a single request
// and its response. Values are URL-encoded so any name survives the
// cookie value grammar.
type CookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
	now    func() time.Time
}

// NewCookieStore reads from r and writes Set-Cookie headers to w.
// secure controls the Secure attribute of cookies it sets.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{r: r, w: w, secure: secure, now: time.Now}
}

// Get returns the decoded cookie value; empty cookies count as absent.
func (s *CookieStore) Get(name string) (string, bool) {
	c, err := s.r.Cookie(name)
	if err != nil {
		return "", false
	}

	v, err := url.QueryUnescape(c.Value)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

// Set issues a path=/ cookie readable by page scripts (not HttpOnly).
func (s *CookieStore) Set(name, value string, ttl time.Duration) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  s.now().Add(ttl).UTC(),
		Secure:   s.secure,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})
}

// Greeting is the personalised message for a known child name.
func Greeting(name string) string {
	return fmt.Sprintf(returningWelcome, name)
}

// Banner is what the welcome banner shows for the visitor behind store.
type Banner struct {
	Message   string `json:"message"`
	Returning bool   `json:"returning"`
	Name      string `json:"name,omitempty"`
}

// NewBanner looks up key in store and picks the matching greeting.
func NewBanner(store Store, key string) Banner {
	name, ok := store.Get(key)
	if !ok {
		return Banner{Message: GenericWelcome}
	}
	return Banner{Message: Greeting(name), Returning: true, Name: name}
}
