// Package monitor watches backend availability on a cron schedule. Each tick
// probes once; transitions are logged and published on the event bus.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/logging"
)

// TopicBackendStatusChanged carries a StatusChange whenever availability flips.
const TopicBackendStatusChanged = "backend.status_changed"

// StatusChange is published on TopicBackendStatusChanged.
type StatusChange struct {
	Available bool
	Previous  *bool // nil on the first observation
	At        time.Time
}

// Monitor runs scheduled probes. The zero value is not usable; use New.
type Monitor struct {
	prober summary.Availability
	pub    summary.Publisher
	log    *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	last *bool
}

// New creates a Monitor. pub and log may be nil.
func New(prober summary.Availability, pub summary.Publisher, log *slog.Logger) *Monitor {
	if log == nil {
		log = logging.Discard()
	}
	return &Monitor{prober: prober, pub: pub, log: log, now: time.Now}
}

// Check probes once and reports whether availability changed since the last check.
func (m *Monitor) Check(ctx context.Context) (available, changed bool) {
	available = m.prober.Probe(ctx, 1)

	m.mu.Lock()
	prev := m.last
	changed = prev == nil || *prev != available
	m.last = &available
	m.mu.Unlock()

	if !changed {
		return available, false
	}

	if available {
		m.log.InfoContext(ctx, "Backend is available")
	} else {
		m.log.WarnContext(ctx, "Backend is unavailable")
	}
	if m.pub != nil {
		m.pub.Publish(TopicBackendStatusChanged, StatusChange{Available: available, Previous: prev, At: m.now()})
	}
	return available, true
}

// Last returns the most recent observation, ok=false before the first check.
func (m *Monitor) Last() (available, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return false, false
	}
	return *m.last, true
}

// Run schedules Check with spec (standard cron syntax or descriptors such as
// "@every 30s") and blocks until ctx is done. An invalid spec is returned
// immediately.
func (m *Monitor) Run(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { m.Check(ctx) }); err != nil {
		return fmt.Errorf("monitor: schedule %q: %w", spec, err)
	}

	m.log.InfoContext(ctx, "Backend monitor started", "schedule", spec)
	m.Check(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	m.log.InfoContext(ctx, "Backend monitor stopped")
	return nil
}
