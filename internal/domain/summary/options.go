package summary

import (
	"context"
	"log/slog"
	"time"

	"github.com/matiasleandrokruk/coffee-api/internal/infra/logging"
)

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the wall-clock SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Publisher receives outcome events. eventbus.Bus satisfies it.
type Publisher interface {
	Publish(topic string, payload any)
}

type deps struct {
	sleep SleepFunc
	log   *slog.Logger
	pub   Publisher
	now   func() time.Time
}

func newDeps(opts []Option) deps {
	d := deps{sleep: Sleep, log: logging.Discard(), now: time.Now}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Option injects a collaborator into a Prober or Orchestrator.
type Option func(*deps)

// WithSleep replaces the inter-attempt delay. Tests pass a no-op to avoid real waits.
func WithSleep(fn SleepFunc) Option {
	return func(d *deps) {
		if fn != nil {
			d.sleep = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.log = l
		}
	}
}

// WithPublisher publishes an Outcome after each summary.
func WithPublisher(p Publisher) Option {
	return func(d *deps) { d.pub = p }
}

// WithClock overrides time.Now for outcome timing.
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		if now != nil {
			d.now = now
		}
	}
}
