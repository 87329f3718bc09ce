// Package router builds the route table and the middleware chain around it.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kinderhort/childcare-registration/internal/config"
	"github.com/kinderhort/childcare-registration/internal/http/handlers/cost"
	"github.com/kinderhort/childcare-registration/internal/http/handlers/health"
	"github.com/kinderhort/childcare-registration/internal/http/handlers/page"
	"github.com/kinderhort/childcare-registration/internal/http/handlers/registration"
	"github.com/kinderhort/childcare-registration/internal/http/handlers/weather"
	"github.com/kinderhort/childcare-registration/internal/http/handlers/welcome"
	"github.com/kinderhort/childcare-registration/internal/http/middleware"
	"github.com/kinderhort/childcare-registration/internal/metrics"
	"github.com/kinderhort/childcare-registration/internal/storage"
	"github.com/kinderhort/childcare-registration/internal/types"
	"github.com/kinderhort/childcare-registration/internal/validation"
	wstore "github.com/kinderhort/childcare-registration/internal/weather"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 1 << 20

// Deps is everything the handlers need.
type Deps struct {
	Config    *config.Config
	Storage   storage.Storage
	Validator *validation.Validator
	Weather   wstore.Store
	Metrics   *metrics.Metrics
	// MetricsHandler serves /metrics; nil leaves the route out.
	MetricsHandler http.Handler
	Log            *slog.Logger
	Now            func() time.Time
}

// New returns the fully wrapped handler.
//
// Route table:
//
//	GET  /                         page
//	GET  /static/                  page assets
//	POST /backend                  register a child
//	GET  /api/registrations        list registrations
//	GET  /api/registrations/{id}   one registration
//	GET  /api/cost                 daily cost for ?age=N
//	GET  /api/welcome              returning-visitor banner
//	GET  /api/weather              weather panel (JSON)
//	GET  /weather.svg              weather panel (SVG)
//	GET  /healthz                  storage ping
//	GET  /metrics                  Prometheus
func New(d Deps) http.Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	cfg := d.Config
	loc := cfg.Location()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", page.Index(page.Options{
		CookieName:   cfg.Cookie.Name,
		CookieSecure: cfg.Cookie.Secure,
		Today:        func() string { return now().In(loc).Format(types.DateLayout) },
	}))
	mux.Handle("GET /static/", page.Static())

	mux.HandleFunc("POST /backend", registration.New(d.Storage, d.Validator, registration.Options{
		Cookie:   cfg.Cookie,
		Contact:  cfg.Contact,
		Location: loc,
		Now:      now,
		Metrics:  d.Metrics,
	}))
	mux.HandleFunc("GET /api/registrations", registration.GetList(d.Storage))
	mux.HandleFunc("GET /api/registrations/{id}", registration.GetByID(d.Storage))

	mux.HandleFunc("GET /api/cost", cost.Get())
	mux.HandleFunc("GET /api/welcome", welcome.Get(cfg.Cookie.Name, cfg.Cookie.Secure))
	mux.HandleFunc("GET /api/weather", weather.GetJSON(d.Weather))
	mux.HandleFunc("GET /weather.svg", weather.GetSVG(d.Weather))
	mux.HandleFunc("GET /healthz", health.Get(d.Storage))

	if d.MetricsHandler != nil {
		mux.Handle("GET /metrics", d.MetricsHandler)
	}

	return middleware.Chain(mux,
		middleware.Recoverer(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Metrics(d.Metrics),
		middleware.MaxBodyBytes(MaxBodyBytes),
	)
}
