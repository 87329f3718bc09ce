// Package postgres is the PostgreSQL implementation of storage.Storage,
// for centers that already run a database server.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinderhort/childcare-registration/internal/storage"
	"github.com/kinderhort/childcare-registration/internal/types"
)

type Postgres struct {
	pool *pgxpool.Pool
}

// New connects, pings and makes sure the children table exists.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse dsn: %w", err)
	}
	cfg.MaxConns = 5

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	if err := pool.Ping(cctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.createTable(cctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) createTable(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS children (
			id                BIGSERIAL   PRIMARY KEY,
			name              TEXT        NOT NULL,
			age               INTEGER     NOT NULL,
			appointment_date  DATE        NOT NULL,
			registration_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("postgres.New: create table: %w", err)
	}
	return nil
}

func (p *Postgres) CreateRegistration(ctx context.Context, reg types.Registration) (int64, error) {
	date, err := time.Parse(types.DateLayout, reg.AppointmentDate)
	if err != nil {
		return 0, fmt.Errorf("CreateRegistration: appointment date: %w", err)
	}

	var id int64
	err = p.pool.QueryRow(ctx,
		`INSERT INTO children (name, age, appointment_date, registration_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		reg.Name, reg.Age, date, reg.RegistrationDate.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateRegistration: %w", err)
	}
	return id, nil
}

const selectColumns = `SELECT id, name, age, to_char(appointment_date, 'YYYY-MM-DD'), registration_date FROM children`

func (p *Postgres) GetRegistrationByID(ctx context.Context, id int64) (types.Registration, error) {
	reg, err := scanRegistration(p.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Registration{}, fmt.Errorf("registration %d: %w", id, storage.ErrNotFound)
		}
		return types.Registration{}, fmt.Errorf("GetRegistrationByID: %w", err)
	}
	return reg, nil
}

func (p *Postgres) GetRegistrations(ctx context.Context) ([]types.Registration, error) {
	rows, err := p.pool.Query(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("GetRegistrations: query: %w", err)
	}
	defer rows.Close()

	regs := make([]types.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("GetRegistrations: scan row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetRegistrations: rows iteration: %w", err)
	}
	return regs, nil
}

func scanRegistration(row pgx.Row) (types.Registration, error) {
	var reg types.Registration
	err := row.Scan(&reg.ID, &reg.Name, &reg.Age, &reg.AppointmentDate, &reg.RegistrationDate)
	return reg, err
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
