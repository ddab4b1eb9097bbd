package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Warmer refreshes the catalog cache on a cron schedule so visitors rarely
// pay for a cold list.
type Warmer struct {
	svc     *Service
	cron    *cron.Cron
	timeout time.Duration
	log     *slog.Logger
}

// NewWarmer schedules svc.Warm. The schedule uses the standard five-field
// cron syntax or descriptors such as "@every 5m".
func NewWarmer(svc *Service, schedule string, timeout time.Duration) (*Warmer, error) {
	w := &Warmer{
		svc:     svc,
		cron:    cron.New(),
		timeout: timeout,
		log:     svc.log,
	}
	if w.timeout <= 0 {
		w.timeout = 30 * time.Second
	}
	if _, err := w.cron.AddFunc(schedule, w.run); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Warmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.svc.Warm(ctx); err != nil {
		w.log.WarnContext(ctx, "catalog warm-up failed", slog.String("error", err.Error()))
	}
}

// Start kicks off a first warm-up in the background and starts the
// schedule. A failing warm-up is logged, not fatal; the API may still be
// booting.
func (w *Warmer) Start(context.Context) error {
	go w.run()
	w.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running warm-up or ctx.
func (w *Warmer) Stop(ctx context.Context) error {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
