package summary

import (
	"context"
	"time"

	"github.com/matiasleandrokruk/coffee-api/internal/infra/llm"
)

// ProbeOptions bounds a liveness probe.
type ProbeOptions struct {
	Timeout    time.Duration // per attempt
	RetryDelay time.Duration // between attempts
}

// DefaultProbeOptions returns the 5s timeout / 1s delay policy.
func DefaultProbeOptions() ProbeOptions {
	return ProbeOptions{Timeout: 5 * time.Second, RetryDelay: time.Second}
}

// Availability answers whether the generation backend is reachable right now.
type Availability interface {
	Probe(ctx context.Context, maxAttempts int) bool
}

// Prober checks backend liveness. It holds no state between calls.
type Prober struct {
	checker llm.HealthChecker
	opts    ProbeOptions
	deps    deps
}

// NewProber creates a Prober over checker.
func NewProber(checker llm.HealthChecker, opts ProbeOptions, options ...Option) *Prober {
	return &Prober{checker: checker, opts: opts, deps: newDeps(options)}
}

// Probe returns true as soon as one liveness call succeeds within the per-attempt
// timeout. Failed attempts are retried after RetryDelay until maxAttempts
// (minimum 1) are used up.
func (p *Prober) Probe(ctx context.Context, maxAttempts int) bool {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := p.check(ctx)
		if err == nil {
			return true
		}
		p.deps.log.DebugContext(ctx, "Backend probe failed",
			"attempt", attempt,
			"maxAttempts", maxAttempts,
			"kind", llm.KindOf(err),
			"error", err)

		if attempt == maxAttempts {
			break
		}
		if err := p.deps.sleep(ctx, p.opts.RetryDelay); err != nil {
			return false
		}
	}
	return false
}

func (p *Prober) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()
	return p.checker.HealthCheck(ctx)
}
