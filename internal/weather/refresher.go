package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// FetchObserver is told about every fetch outcome (metrics hook).
type FetchObserver interface {
	WeatherFetched(ok bool)
}

// Refresher fetches on start and then on a fixed interval. There is no
// backoff and no retry: a failed fetch just stores the unavailable panel
// until the next tick.
type Refresher struct {
	fetcher  Fetcher
	store    Store
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
	observer FetchObserver
	now      func() time.Time
}

// NewRefresher wires a refresher. observer may be nil.
func NewRefresher(f Fetcher, s Store, interval, timeout time.Duration, log *slog.Logger, observer FetchObserver) *Refresher {
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{
		fetcher:  f,
		store:    s,
		interval: interval,
		timeout:  timeout,
		log:      log,
		observer: observer,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Refresh(ctx)
		case <-ctx.Done():
			r.log.Info("weather refresher stopped")
			return
		}
	}
}

// Refresh runs one fetch-and-store cycle and returns the stored panel.
// A panicking fetcher is contained here and reported as a failed fetch.
func (r *Refresher) Refresh(ctx context.Context) (panel Panel) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("weather fetch panicked", slog.String("panic", fmt.Sprint(rec)))
			panel = r.publish(ctx, r.unavailable(), false)
		}
	}()

	fctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	reading, err := r.fetcher.Current(fctx)
	if err != nil {
		r.log.Warn("weather fetch failed", slog.String("error", err.Error()))
		return r.publish(ctx, r.unavailable(), false)
	}

	r.log.Debug("weather fetched",
		slog.String("city", reading.City),
		slog.Float64("temp", reading.Temp),
	)
	return r.publish(ctx, NewPanel(reading, nil), true)
}

func (r *Refresher) unavailable() Panel {
	p := Unavailable()
	p.UpdatedAt = r.now().UTC()
	return p
}

func (r *Refresher) publish(ctx context.Context, p Panel, ok bool) Panel {
	if r.observer != nil {
		r.observer.WeatherFetched(ok)
	}
	if err := r.store.Save(ctx, p); err != nil {
		r.log.Error("weather panel not stored", slog.String("error", err.Error()))
	}
	return p
}
