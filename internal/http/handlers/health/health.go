// Package health serves the liveness probe.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kinderhort/childcare-registration/internal/utils/response"
)

// Pinger is satisfied by storage.Storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Get handles GET /healthz: 200 {"status":"ok"} when storage answers a ping, 503 otherwise.
func Get(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable, response.Error("storage unavailable"))
			return
		}
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	}
}
