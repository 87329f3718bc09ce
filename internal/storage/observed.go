package storage

import (
	"context"

	"github.com/kinderhort/childcare-registration/internal/types"
)

// Observer times a storage call under a logical operation name.
type Observer interface {
	ObserveDB(op string, fn func() error) error
}

type observed struct {
	next Storage
	obs  Observer
}

// Observe wraps s so every call is reported to obs. A nil obs returns s unchanged.
func Observe(s Storage, obs Observer) Storage {
	if obs == nil {
		return s
	}
	return &observed{next: s, obs: obs}
}

func (o *observed) CreateRegistration(ctx context.Context, reg types.Registration) (id int64, err error) {
	err = o.obs.ObserveDB("create_registration", func() error {
		id, err = o.next.CreateRegistration(ctx, reg)
		return err
	})
	return id, err
}

func (o *observed) GetRegistrationByID(ctx context.Context, id int64) (reg types.Registration, err error) {
	err = o.obs.ObserveDB("get_registration", func() error {
		reg, err = o.next.GetRegistrationByID(ctx, id)
		return err
	})
	return reg, err
}

func (o *observed) GetRegistrations(ctx context.Context) (regs []types.Registration, err error) {
	err = o.obs.ObserveDB("list_registrations", func() error {
		regs, err = o.next.GetRegistrations(ctx)
		return err
	})
	return regs, err
}

func (o *observed) Ping(ctx context.Context) error {
	return o.obs.ObserveDB("ping", func() error { return o.next.Ping(ctx) })
}

func (o *observed) Close() error {
	return o.next.Close()
}
