// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite keeps the whole children table in a single file next to the
// binary, which is all a single childcare center needs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kinderhort/childcare-registration/internal/storage"
	"github.com/kinderhort/childcare-registration/internal/types"

	// Blank import: registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// *sql.DB is a connection pool and safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path and creates the children table
// if it does not exist yet.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Schema:
	//   appointment_date   ISO YYYY-MM-DD text
	//   registration_date  server-assigned, declared DATETIME so the
	//                      driver scans it back into time.Time
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS children (
			id                INTEGER  PRIMARY KEY AUTOINCREMENT,
			name              TEXT     NOT NULL,
			age               INTEGER  NOT NULL,
			appointment_date  TEXT     NOT NULL,
			registration_date DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateRegistration inserts a new row using a prepared statement, so
// user input is only ever bound as data.
func (s *SQLite) CreateRegistration(ctx context.Context, reg types.Registration) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO children (name, age, appointment_date, registration_date) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateRegistration: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, reg.Name, reg.Age, reg.AppointmentDate, reg.RegistrationDate.UTC())
	if err != nil {
		return 0, fmt.Errorf("CreateRegistration: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateRegistration: last insert id: %w", err)
	}

	return lastID, nil
}

func (s *SQLite) GetRegistrationByID(ctx context.Context, id int64) (types.Registration, error) {
	var reg types.Registration

	err := s.Db.QueryRowContext(ctx,
		"SELECT id, name, age, appointment_date, registration_date FROM children WHERE id = ? LIMIT 1", id,
	).Scan(&reg.ID, &reg.Name, &reg.Age, &reg.AppointmentDate, &reg.RegistrationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Registration{}, fmt.Errorf("registration %d: %w", id, storage.ErrNotFound)
		}
		return types.Registration{}, fmt.Errorf("GetRegistrationByID: scan: %w", err)
	}

	return reg, nil
}

func (s *SQLite) GetRegistrations(ctx context.Context) ([]types.Registration, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT id, name, age, appointment_date, registration_date FROM children ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetRegistrations: query: %w", err)
	}
	defer rows.Close()

	regs := make([]types.Registration, 0)
	for rows.Next() {
		var reg types.Registration
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.Age, &reg.AppointmentDate, &reg.RegistrationDate); err != nil {
			return nil, fmt.Errorf("GetRegistrations: scan row: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetRegistrations: rows iteration: %w", err)
	}

	return regs, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}
