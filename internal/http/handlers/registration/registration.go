// Package registration contains the HTTP handlers for childcare registrations.
//
// Handlers are factories: they receive their dependencies once at startup
// and return the http.HandlerFunc the router calls on every request.
//
//	router.HandleFunc("POST /backend", registration.New(storage, validator, opts))
package registration

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kinderhort/childcare-registration/internal/config"
	"github.com/kinderhort/childcare-registration/internal/metrics"
	"github.com/kinderhort/childcare-registration/internal/storage"
	"github.com/kinderhort/childcare-registration/internal/types"
	"github.com/kinderhort/childcare-registration/internal/utils/response"
	"github.com/kinderhort/childcare-registration/internal/validation"
	"github.com/kinderhort/childcare-registration/internal/visitor"
)

// Messages of the registration endpoint.
const (
	MsgDatabase    = "Database error occurred"
	MsgInvalidForm = "Invalid form submission"
	msgSuccess     = "Registration successful! Welcome, %s's parents!"
	msgConfirm     = "Your child %s, who is %d years old, has been registered for %s. For changes please call us at %s or send an email to %s"

	// confirmDateLayout is the long British date, e.g. "18 October 2026".
	confirmDateLayout = "2 January 2006"

	maxMemory = 1 << 20
)

// Options are the non-storage dependencies of New.
type Options struct {
	Cookie   config.Cookie
	Contact  config.Contact
	Location *time.Location
	// Now defaults to time.Now.
	Now     func() time.Time
	Metrics *metrics.Metrics
}

// User is the "user" object of the success envelope.
type User struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Age             int    `json:"age"`
	AppointmentDate string `json:"appointment_date"`
	IsReturning     bool   `json:"isReturning"`
	CookieSet       bool   `json:"cookieSet"`
}

// Success is the 200 body of POST /backend.
type Success struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Confirmation string `json:"confirmation"`
	User         User   `json:"user"`
}

// New handles POST /backend.
//
// Form fields: name, age, appointment_date (urlencoded or multipart).
//
//	200  success envelope, child_name cookie set
//	400  {"status":"error","errors":[...]}, nothing stored
//	500  {"status":"error","error":"Database error occurred"}
func New(store storage.Storage, v *validation.Validator, opts Options) http.HandlerFunc {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(r); err != nil {
			status := http.StatusBadRequest
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				status = http.StatusRequestEntityTooLarge
			}
			slog.Warn("unreadable registration form", slog.String("error", err.Error()))
			opts.Metrics.RegistrationResult(metrics.ResultInvalid)
			response.WriteJSON(w, status, response.Error(MsgInvalidForm))
			return
		}

		form := validation.Trim(types.RegistrationForm{
			Name:            r.PostFormValue("name"),
			Age:             r.PostFormValue("age"),
			AppointmentDate: r.PostFormValue("appointment_date"),
		})

		if errs := v.Validate(form); len(errs) > 0 {
			slog.Info("registration rejected", slog.Any("errors", errs))
			opts.Metrics.RegistrationResult(metrics.ResultInvalid)
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationErrors(errs))
			return
		}

		reg, err := v.Sanitize(form)
		if err != nil {
			// Validate accepted the form, so this is a bug, not bad input.
			slog.Error("sanitize after validate", slog.String("error", err.Error()))
			opts.Metrics.RegistrationResult(metrics.ResultError)
			response.WriteJSON(w, http.StatusInternalServerError, response.Error(MsgDatabase))
			return
		}
		reg.RegistrationDate = now().UTC()

		id, err := store.CreateRegistration(r.Context(), reg)
		if err != nil {
			slog.Error("error creating registration", slog.String("error", err.Error()))
			opts.Metrics.RegistrationResult(metrics.ResultError)
			response.WriteJSON(w, http.StatusInternalServerError, response.Error(MsgDatabase))
			return
		}
		reg.ID = id

		cookies := visitor.NewCookieStore(w, r, opts.Cookie.Secure)
		_, returning := cookies.Get(opts.Cookie.Name)
		cookies.Set(opts.Cookie.Name, form.Name, opts.Cookie.TTL)

		message := fmt.Sprintf(msgSuccess, reg.Name)
		if returning {
			message = visitor.Greeting(reg.Name)
		}

		slog.Info("registration created",
			slog.Int64("id", id),
			slog.Bool("returning", returning),
		)
		opts.Metrics.RegistrationResult(metrics.ResultSuccess)

		response.WriteJSON(w, http.StatusOK, Success{
			Status:       response.StatusSuccess,
			Message:      message,
			Confirmation: Confirmation(reg, opts.Contact, loc),
			User: User{
				ID:              reg.ID,
				Name:            reg.Name,
				Age:             reg.Age,
				AppointmentDate: reg.AppointmentDate,
				IsReturning:     returning,
				CookieSet:       true,
			},
		})
	}
}

// Confirmation is the sentence shown under the form after a successful registration.
func Confirmation(reg types.Registration, contact config.Contact, loc *time.Location) string {
	date := reg.AppointmentDate
	if d, err := time.ParseInLocation(types.DateLayout, reg.AppointmentDate, loc); err == nil {
		date = d.Format(confirmDateLayout)
	}
	return fmt.Sprintf(msgConfirm, reg.Name, reg.Age, date, contact.Phone, contact.Email)
}

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// GetByID handles GET /api/registrations/{id}.
//
//	400  id is not an integer
//	404  no such registration
//	500  database error
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		reg, err := store.GetRegistrationByID(r.Context(), intID)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(storage.ErrNotFound))
			return
		}
		if err != nil {
			slog.Error("error getting registration",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Error(MsgDatabase))
			return
		}

		response.WriteJSON(w, http.StatusOK, reg)
	}
}

// GetList handles GET /api/registrations. An empty table yields [].
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regs, err := store.GetRegistrations(r.Context())
		if err != nil {
			slog.Error("error getting registrations", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Error(MsgDatabase))
			return
		}

		response.WriteJSON(w, http.StatusOK, regs)
	}
}
