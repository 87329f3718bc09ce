package registration_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kinderhort/childcare-registration/internal/config"
	"github.com/kinderhort/childcare-registration/internal/http/handlers/registration"
	"github.com/kinderhort/childcare-registration/internal/storage"
	"github.com/kinderhort/childcare-registration/internal/types"
	"github.com/kinderhort/childcare-registration/internal/utils/response"
	"github.com/kinderhort/childcare-registration/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	rows []types.Registration

	createFn func(ctx context.Context, reg types.Registration) (int64, error)
	getFn    func(ctx context.Context, id int64) (types.Registration, error)
	listFn   func(ctx context.Context) ([]types.Registration, error)
}

func (f *fakeStorage) CreateRegistration(ctx context.Context, reg types.Registration) (int64, error) {
	if f.createFn != nil {
		return f.createFn(ctx, reg)
	}
	reg.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, reg)
	return reg.ID, nil
}

func (f *fakeStorage) GetRegistrationByID(ctx context.Context, id int64) (types.Registration, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return types.Registration{}, fmt.Errorf("GetRegistrationByID %d: %w", id, storage.ErrNotFound)
}

func (f *fakeStorage) GetRegistrations(ctx context.Context) ([]types.Registration, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return append([]types.Registration{}, f.rows...), nil
}

func (f *fakeStorage) Ping(context.Context) error { return nil }
func (f *fakeStorage) Close() error               { return nil }

var (
	zurich, _ = time.LoadLocation("Europe/Zurich")
	fixedNow  = time.Date(2026, time.October, 17, 15, 30, 0, 0, zurich)
)

func options() registration.Options {
	return registration.Options{
		Cookie:   config.Cookie{Name: "child_name", TTL: time.Hour},
		Contact:  config.Contact{Phone: "+41 12 345 67 89", Email: "info@kinderhort.ch"},
		Location: zurich,
		Now:      func() time.Time { return fixedNow },
	}
}

func handler(store storage.Storage) http.HandlerFunc {
	v := validation.New(func() time.Time { return fixedNow }, zurich)
	return registration.New(store, v, options())
}

func postForm(values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/backend", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func form(name, age, date string) url.Values {
	return url.Values{"name": {name}, "age": {age}, "appointment_date": {date}}
}

func TestNew_ShortNameIsRejectedAndNotStored(t *testing.T) {
	store := &fakeStorage{}
	rec := httptest.NewRecorder()

	handler(store).ServeHTTP(rec, postForm(form("Al", "5", "2026-10-18")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.rows)
	assert.Empty(t, rec.Result().Cookies())

	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, []string{validation.MsgName}, body.Errors)
}

func TestNew_ReportsAllErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	handler(&fakeStorage{}).ServeHTTP(rec, postForm(form("", "13", "2026-10-01")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","errors":[
		"Name must be between 3 and 50 characters",
		"Age must be between 0 and 12 years",
		"Appointment date cannot be in the past"]}`, rec.Body.String())
}

func TestNew_Success(t *testing.T) {
	store := &fakeStorage{}
	rec := httptest.NewRecorder()

	handler(store).ServeHTTP(rec, postForm(form("  Alice ", "5", "2026-10-18")))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, store.rows, 1)
	assert.Equal(t, "Alice", store.rows[0].Name)
	assert.Equal(t, 5, store.rows[0].Age)
	assert.Equal(t, "2026-10-18", store.rows[0].AppointmentDate)
	assert.True(t, store.rows[0].RegistrationDate.Equal(fixedNow))

	var body registration.Success
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "Registration successful! Welcome, Alice's parents!", body.Message)
	assert.Equal(t, "Your child Alice, who is 5 years old, has been registered for 18 October 2026. "+
		"For changes please call us at +41 12 345 67 89 or send an email to info@kinderhort.ch", body.Confirmation)
	assert.Equal(t, registration.User{
		ID: 1, Name: "Alice", Age: 5, AppointmentDate: "2026-10-18", IsReturning: false, CookieSet: true,
	}, body.User)
}

func TestNew_SetsVisitorCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	handler(&fakeStorage{}).ServeHTTP(rec, postForm(form("Zoë Müller", "2", "2026-10-17")))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]

	assert.Equal(t, "child_name", c.Name)
	assert.Equal(t, url.QueryEscape("Zoë Müller"), c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.False(t, c.HttpOnly)
	assert.False(t, c.Secure)
}

func TestNew_ReturningVisitor(t *testing.T) {
	rec := httptest.NewRecorder()
	req := postForm(form("Bruno", "9", "2026-11-02"), &http.Cookie{Name: "child_name", Value: "Alice"})

	handler(&fakeStorage{}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body registration.Success
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.User.IsReturning)
	assert.Equal(t, "Welcome back, Bruno's parents!", body.Message)
}

func TestNew_EscapesName(t *testing.T) {
	store := &fakeStorage{}
	rec := httptest.NewRecorder()

	handler(store).ServeHTTP(rec, postForm(form("<i>Tom</i>", "4", "2026-10-20")))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "&lt;i&gt;Tom&lt;/i&gt;", store.rows[0].Name)
	assert.NotContains(t, rec.Body.String(), "<i>")
}

func TestNew_DatabaseErrorHidesCause(t *testing.T) {
	store := &fakeStorage{
		createFn: func(context.Context, types.Registration) (int64, error) {
			return 0, errors.New("CreateRegistration: exec: disk I/O error")
		},
	}
	rec := httptest.NewRecorder()

	handler(store).ServeHTTP(rec, postForm(form("Alice", "5", "2026-10-18")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"Database error occurred"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestNew_Multipart(t *testing.T) {
	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Carla"))
	require.NoError(t, mw.WriteField("age", "11"))
	require.NoError(t, mw.WriteField("appointment_date", "2026-12-01"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/backend", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	store := &fakeStorage{}
	rec := httptest.NewRecorder()
	handler(store).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, store.rows, 1)
	assert.Equal(t, 11, store.rows[0].Age)
}

func TestNew_OversizedBody(t *testing.T) {
	big := strings.Repeat("a", 2<<20)
	req := httptest.NewRequest(http.MethodPost, "/backend", strings.NewReader("name="+big))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 1<<20)

	store := &fakeStorage{}
	handler(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, store.rows)
}

func TestGetByID(t *testing.T) {
	store := &fakeStorage{rows: []types.Registration{
		{ID: 1, Name: "Alice", Age: 5, AppointmentDate: "2026-10-18"},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/registrations/{id}", registration.GetByID(store))

	tests := []struct {
		path   string
		status int
	}{
		{"/api/registrations/1", http.StatusOK},
		{"/api/registrations/2", http.StatusNotFound},
		{"/api/registrations/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGetByID_DatabaseError(t *testing.T) {
	store := &fakeStorage{getFn: func(context.Context, int64) (types.Registration, error) {
		return types.Registration{}, errors.New("connection refused")
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/registrations/{id}", registration.GetByID(store))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/registrations/7", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetList(t *testing.T) {
	rec := httptest.NewRecorder()
	registration.GetList(&fakeStorage{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/registrations", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	store := &fakeStorage{listFn: func(context.Context) ([]types.Registration, error) {
		return nil, errors.New("boom")
	}}
	rec = httptest.NewRecorder()
	registration.GetList(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/registrations", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
