// Package storage defines the Storage interface: the contract any
// database backend must satisfy to hold registrations.
//
// Handlers depend only on this interface, so the sqlite and postgres
// backends are interchangeable and tests can pass a fake.
package storage

import (
	"context"
	"errors"

	"github.com/kinderhort/childcare-registration/internal/types"
)

// ErrNotFound is returned when a registration id does not exist.
var ErrNotFound = errors.New("registration not found")

// Storage is the database contract. Registrations are only ever
// inserted and read back; nothing updates or deletes them.
type Storage interface {
	// CreateRegistration inserts one row into the children table and
	// returns its generated id.
	CreateRegistration(ctx context.Context, reg types.Registration) (int64, error)

	// GetRegistrationByID returns ErrNotFound (wrapped) for unknown ids.
	GetRegistrationByID(ctx context.Context, id int64) (types.Registration, error)

	// GetRegistrations returns every row, oldest first; an empty slice
	// (not nil) when there are none.
	GetRegistrations(ctx context.Context) ([]types.Registration, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
