package health

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/storefront/pkg/logger"
)

const (
	StatusUp   = "up"
	StatusDown = "down"
)

// ErrTimeout is reported for a dependency that did not answer in time.
var ErrTimeout = errors.New("health: check timed out")

// Check probes a single dependency.
type Check func(ctx context.Context) error

// Checks names the dependencies probed by the readiness endpoint.
type Checks map[string]Check

// Result is the outcome of one probe.
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates every probe. Status is down when any probe failed.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]Result `json:"checks,omitempty"`
}

// Healthy reports whether every probe passed.
func (r Report) Healthy() bool {
	return r.Status == StatusUp
}

type settings struct {
	timeout time.Duration
	log     *slog.Logger
}

// Option tunes the readiness probe.
type Option func(*settings)

// WithTimeout bounds the whole readiness run. Default: 3 seconds.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger logs failing probes.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{timeout: 3 * time.Second, log: logger.NewNope()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Run probes every check concurrently and waits for all of them.
func Run(ctx context.Context, checks Checks, opts ...Option) Report {
	s := newSettings(opts)
	return run(ctx, checks, s)
}

func run(ctx context.Context, checks Checks, s settings) Report {
	report := Report{Status: StatusUp}
	if len(checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(checks))
	)
	// Probe errors are recorded per check, so the group itself never fails.
	var g errgroup.Group
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		check := checks[name]
		g.Go(func() error {
			res := Result{Status: StatusUp}
			if err := check(ctx); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = ErrTimeout
				}
				res = Result{Status: StatusDown, Error: err.Error()}
				s.log.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Status == StatusDown {
			report.Status = StatusDown
			break
		}
	}
	report.Checks = results
	return report
}
