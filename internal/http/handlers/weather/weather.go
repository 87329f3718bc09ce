// Package weather serves the latest weather panel kept by the refresher.
// Handlers never call the provider themselves.
package weather

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kinderhort/childcare-registration/internal/utils/response"
	"github.com/kinderhort/childcare-registration/internal/weather"
)

// latest falls back to the unavailable panel when nothing is stored yet
// or the store cannot be read.
func latest(ctx context.Context, store weather.Store) weather.Panel {
	p, ok, err := store.Latest(ctx)
	if err != nil {
		slog.Warn("weather store read failed", slog.String("error", err.Error()))
		return weather.Unavailable()
	}
	if !ok {
		return weather.Unavailable()
	}
	return p
}

// GetJSON handles GET /api/weather.
func GetJSON(store weather.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, latest(r.Context(), store))
	}
}

// GetSVG handles GET /weather.svg.
func GetSVG(store weather.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(latest(r.Context(), store).SVG())
	}
}
