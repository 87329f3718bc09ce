// Package welcome serves the returning-visitor banner.
package welcome

import (
	"net/http"

	"github.com/kinderhort/childcare-registration/internal/utils/response"
	"github.com/kinderhort/childcare-registration/internal/visitor"
)

// Get handles GET /api/welcome. cookieName is the visitor cookie to look for.
func Get(cookieName string, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banner := visitor.NewBanner(visitor.NewCookieStore(w, r, secure), cookieName)
		w.Header().Set("Cache-Control", "no-store")
		response.WriteJSON(w, http.StatusOK, banner)
	}
}
