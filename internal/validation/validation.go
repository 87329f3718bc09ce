// Package validation checks registration form input and turns it into a
// clean types.Registration.
//
// The rules are declared as go-playground/validator struct tags on an
// internal struct; every failing field is mapped to one fixed,
// human-readable message. Invalid input always yields a message list,
// never a panic or an error value.
package validation

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kinderhort/childcare-registration/internal/types"
)

// Messages returned by Validate. The page script shows the same strings.
const (
	MsgName      = "Name must be between 3 and 50 characters"
	MsgAge       = "Age must be between 0 and 12 years"
	MsgDate      = "Please provide a valid appointment date"
	MsgPastDate  = "Appointment date cannot be in the past"
	tagCalendar  = "calendar_date"
	tagNotInPast = "not_past"
)

// dateLayouts are tried in order. The first is what <input type="date"> sends.
var dateLayouts = []string{
	types.DateLayout,
	"02.01.2006",
	"2006/01/02",
}

// fields mirrors types.RegistrationForm after trimming and numeric parsing.
// Age is a pointer so "not a number" (nil) is distinguishable from 0.
type fields struct {
	Name            string `validate:"min=3,max=50"`
	Age             *int   `validate:"required,min=0,max=12"`
	AppointmentDate string `validate:"required,calendar_date,not_past"`
}

// Validator holds the clock and time zone that define "today".
type Validator struct {
	now      func() time.Time
	loc      *time.Location
	validate *validator.Validate
}

// New builds a Validator. A nil now uses time.Now; a nil loc uses time.Local.
func New(now func() time.Time, loc *time.Location) *Validator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}

	v := &Validator{now: now, loc: loc, validate: validator.New()}

	mustRegister(v.validate, tagCalendar, func(fl validator.FieldLevel) bool {
		_, ok := v.ParseDate(fl.Field().String())
		return ok
	})
	mustRegister(v.validate, tagNotInPast, func(fl validator.FieldLevel) bool {
		d, ok := v.ParseDate(fl.Field().String())
		return ok && !d.Before(v.startOfToday())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Trim returns a copy of form with surrounding whitespace removed from every value.
func Trim(form types.RegistrationForm) types.RegistrationForm {
	return types.RegistrationForm{
		Name:            strings.TrimSpace(form.Name),
		Age:             strings.TrimSpace(form.Age),
		AppointmentDate: strings.TrimSpace(form.AppointmentDate),
	}
}

// Validate returns the list of problems with form. An empty list means valid.
func (v *Validator) Validate(form types.RegistrationForm) []string {
	form = Trim(form)

	in := fields{
		Name:            form.Name,
		AppointmentDate: form.AppointmentDate,
	}
	if age, err := strconv.Atoi(form.Age); err == nil {
		in.Age = &age
	}

	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError only happens for non-struct input.
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

func message(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		return MsgName
	case "Age":
		return MsgAge
	case "AppointmentDate":
		if fe.Tag() == tagNotInPast {
			return MsgPastDate
		}
		return MsgDate
	default:
		return fmt.Sprintf("field %s is invalid", fe.Field())
	}
}

// Sanitize converts an already validated form into the values that get
// stored: name HTML-escaped, age as int, date as YYYY-MM-DD.
func (v *Validator) Sanitize(form types.RegistrationForm) (types.Registration, error) {
	form = Trim(form)

	age, err := strconv.Atoi(form.Age)
	if err != nil {
		return types.Registration{}, fmt.Errorf("sanitize age: %w", err)
	}

	date, ok := v.ParseDate(form.AppointmentDate)
	if !ok {
		return types.Registration{}, fmt.Errorf("sanitize appointment date: %q is not a date", form.AppointmentDate)
	}

	return types.Registration{
		Name:            html.EscapeString(form.Name),
		Age:             age,
		AppointmentDate: date.Format(types.DateLayout),
	}, nil
}

// ParseDate reads s as a calendar date in the validator's zone and
// returns midnight of that day. RFC 3339 timestamps are converted to the
// zone first, then truncated.
func (v *Validator) ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, v.loc); err == nil {
			return t, true
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.In(v.loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, v.loc), true
	}

	return time.Time{}, false
}

func (v *Validator) startOfToday() time.Time {
	n := v.now().In(v.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, v.loc)
}
