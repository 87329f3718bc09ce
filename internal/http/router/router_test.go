package router_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kinderhort/childcare-registration/internal/config"
	"github.com/kinderhort/childcare-registration/internal/http/router"
	"github.com/kinderhort/childcare-registration/internal/metrics"
	"github.com/kinderhort/childcare-registration/internal/storage"
	"github.com/kinderhort/childcare-registration/internal/storage/sqlite"
	"github.com/kinderhort/childcare-registration/internal/types"
	"github.com/kinderhort/childcare-registration/internal/validation"
	"github.com/kinderhort/childcare-registration/internal/weather"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Env:      "dev",
		Timezone: "Europe/Zurich",
		Cookie:   config.Cookie{Name: "child_name", TTL: time.Hour},
		Contact:  config.Contact{Phone: "+41 12 345 67 89", Email: "info@kinderhort.ch"},
	}
	loc := cfg.Location()
	now := func() time.Time { return time.Date(2026, time.October, 17, 9, 0, 0, 0, loc) }

	db, err := sqlite.New(filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	h := router.New(router.Deps{
		Config:         cfg,
		Storage:        storage.Observe(db, m),
		Validator:      validation.New(now, loc),
		Weather:        weather.NewMemoryStore(),
		Metrics:        m,
		MetricsHandler: metrics.Handler(reg),
		Log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:            now,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRegistrationRoundTrip(t *testing.T) {
	srv := newServer(t)

	resp, err := http.PostForm(srv.URL+"/backend", url.Values{
		"name": {"Alice"}, "age": {"5"}, "appointment_date": {"2026-10-18"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, err = http.Get(srv.URL + "/api/registrations")
	require.NoError(t, err)
	defer resp.Body.Close()

	var regs []types.Registration
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&regs))
	require.Len(t, regs, 1)
	assert.Equal(t, "Alice", regs[0].Name)
	assert.Equal(t, "2026-10-18", regs[0].AppointmentDate)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `childcare_registrations_total{result="success"} 1`)
	assert.Contains(t, string(raw), `childcare_db_query_duration_seconds_count{op="create_registration",status="ok"} 1`)
}

func TestInvalidRegistrationStoresNothing(t *testing.T) {
	srv := newServer(t)

	resp, err := http.PostForm(srv.URL+"/backend", url.Values{
		"name": {"Al"}, "age": {"5"}, "appointment_date": {"2026-10-18"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/registrations")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestRoutes(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/?child_age=3", http.StatusOK},
		{http.MethodGet, "/static/app.js", http.StatusOK},
		{http.MethodGet, "/backend", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/cost?age=4", http.StatusOK},
		{http.MethodGet, "/api/cost?age=x", http.StatusBadRequest},
		{http.MethodGet, "/api/welcome", http.StatusOK},
		{http.MethodGet, "/api/weather", http.StatusOK},
		{http.MethodGet, "/weather.svg", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/registrations/99", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(""))
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
