// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, storage and validation can all import types without
// depending on each other.
package types

import "time"

// DateLayout is the canonical ISO form appointment dates are stored in.
const DateLayout = "2006-01-02"

// RegistrationForm is the raw, untrusted form submission.
// Age stays a string here: "is it a number at all" is part of validation.
type RegistrationForm struct {
	Name            string
	Age             string
	AppointmentDate string
}

// Registration is one stored childcare enrollment (a row of the children table).
type Registration struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	AppointmentDate  string    `json:"appointment_date"`
	RegistrationDate time.Time `json:"registration_date"`
}
