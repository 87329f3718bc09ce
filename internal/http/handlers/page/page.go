// Package page renders the single HTML page and serves its static assets.
// Both are embedded in the binary.
package page

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	costhandler "github.com/kinderhort/childcare-registration/internal/http/handlers/cost"
	"github.com/kinderhort/childcare-registration/internal/utils/response"
	"github.com/kinderhort/childcare-registration/internal/validation"
	"github.com/kinderhort/childcare-registration/internal/visitor"
)

//go:embed templates/index.html
var templates embed.FS

//go:embed static
var static embed.FS

var index = template.Must(template.ParseFS(templates, "templates/index.html"))

// Data is what templates/index.html renders.
type Data struct {
	Banner visitor.Banner
	Today  string

	ChildAge  string
	Quote     *costhandler.Quote
	CostError string

	// Messages lets the page script show exactly the server's wording.
	Messages struct {
		Name     string
		Age      string
		Date     string
		PastDate string
	}
}

// Options are the settings Index needs.
type Options struct {
	CookieName   string
	CookieSecure bool
	// Today returns the current date as YYYY-MM-DD in the center's time zone.
	Today func() string
}

// Index handles GET /. A child_age query parameter renders the cost result server side.
func Index(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := Data{
			Banner: visitor.NewBanner(visitor.NewCookieStore(w, r, opts.CookieSecure), opts.CookieName),
		}
		if opts.Today != nil {
			d.Today = opts.Today()
		}
		d.Messages.Name = validation.MsgName
		d.Messages.Age = validation.MsgAge
		d.Messages.Date = validation.MsgDate
		d.Messages.PastDate = validation.MsgPastDate

		if r.URL.Query().Has("child_age") {
			d.ChildAge = r.URL.Query().Get("child_age")
			if q, err := costhandler.QuoteFor(d.ChildAge); err != nil {
				d.CostError = err.Error()
			} else {
				d.Quote = &q
			}
		}

		var buf bytes.Buffer
		if err := index.Execute(&buf, d); err != nil {
			slog.Error("render index", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Error("Internal server error"))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		buf.WriteTo(w)
	}
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
