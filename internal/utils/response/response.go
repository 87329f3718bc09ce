// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Error responses always carry "status": "error" and either a single
// "error" string or an "errors" list (form validation). Success bodies
// are handler specific.
package response

import (
	"encoding/json"
	"net/http"
)

// Response is the standard error envelope:
//
//	{ "status": "error", "error": "Database error occurred" }
//	{ "status": "error", "errors": ["Name must be between 3 and 50 characters"] }
type Response struct {
	Status string   `json:"status"`
	Error  string   `json:"error,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

const (
	StatusOK      = "ok"
	StatusSuccess = "success"
	StatusError   = "error"
)

// WriteJSON sets the content type, writes status and encodes data.
// Header() → WriteHeader() → body, in that order.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Error is a fixed message meant for the user. The cause, if any, belongs in the log.
func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// GeneralError exposes err's text. Use it only where the text is safe to show.
func GeneralError(err error) Response {
	return Error(err.Error())
}

// ValidationErrors lists every failed form rule, in field order.
func ValidationErrors(msgs []string) Response {
	return Response{Status: StatusError, Errors: msgs}
}
