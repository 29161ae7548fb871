// Package summary turns harvest records into natural-language summaries using a
// local generation backend, degrading to a deterministic fallback sentence when
// the backend is unavailable, slow or failing.
//
// Flow per call:
//
//	probe (1 attempt) ── down ──▶ fallback(ollama_unavailable)
//	     │ up
//	     ▼
//	generate(attempt n) ── ok ──────────▶ success
//	     │ timeout, n < MaxRetries ──▶ sleep, attempt n+1
//	     │ timeout, n == MaxRetries ─▶ fallback(timeout_after_retries)
//	     └ any other error ─────────▶ fallback(<error kind>)
package summary

import (
	"context"
	"strings"
	"time"

	"github.com/matiasleandrokruk/coffee-api/internal/infra/llm"
)

// Options is the generation policy injected at construction.
type Options struct {
	Model          string
	BackendURL     string
	Temperature    float64
	MaxRetries     int           // generate attempts, minimum 1
	RequestTimeout time.Duration // per generate attempt
	RetryDelay     time.Duration // after a timed-out attempt
}

// DefaultOptions returns the 2 attempts / 120s / 1s / 0.5 policy for model.
func DefaultOptions(model, backendURL string) Options {
	return Options{
		Model:          model,
		BackendURL:     backendURL,
		Temperature:    0.5,
		MaxRetries:     2,
		RequestTimeout: 120 * time.Second,
		RetryDelay:     time.Second,
	}
}

// Orchestrator produces a Result for every record. It keeps no mutable state
// and is safe for concurrent use.
type Orchestrator struct {
	gen    llm.Generator
	prober Availability
	opts   Options
	deps   deps
}

// NewOrchestrator wires the generator and availability gate with opts.
func NewOrchestrator(gen llm.Generator, prober Availability, opts Options, options ...Option) *Orchestrator {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &Orchestrator{gen: gen, prober: prober, opts: opts, deps: newDeps(options)}
}

// GenerateSummary never fails: every backend problem is turned into a fallback Result.
func (o *Orchestrator) GenerateSummary(ctx context.Context, rec HarvestRecord) Result {
	start := o.deps.now()
	res, attempts := o.run(ctx, rec)
	o.publish(res, attempts, start)
	return res
}

// Health probes the backend once and reports the targeted backend.
func (o *Orchestrator) Health(ctx context.Context) HealthReport {
	status := "unavailable"
	if o.prober.Probe(ctx, 1) {
		status = "available"
	}
	return HealthReport{
		Status:       "ok",
		Service:      ServiceName,
		Ollama:       status,
		BackendURL:   o.opts.BackendURL,
		BackendModel: o.opts.Model,
	}
}

// Options returns the policy this orchestrator was built with.
func (o *Orchestrator) Options() Options { return o.opts }

func (o *Orchestrator) run(ctx context.Context, rec HarvestRecord) (Result, int) {
	log := o.deps.log

	if !o.prober.Probe(ctx, 1) {
		log.WarnContext(ctx, "Backend is unavailable so fallback will be used",
			"backendURL", o.opts.BackendURL)
		return fallbackResult(rec, ReasonUnavailable), 0
	}

	req := llm.GenerateRequest{
		Model:       o.opts.Model,
		Prompt:      BuildPrompt(rec),
		Temperature: o.opts.Temperature,
	}

	for attempt := 1; ; attempt++ {
		resp, err := o.attempt(ctx, req)
		if err == nil {
			return successResult(resp), attempt
		}

		kind := llm.KindOf(err)
		if kind != llm.KindTimeout {
			log.WarnContext(ctx, "Generate failed so fallback will be used",
				"attempt", attempt,
				"kind", kind,
				"error", err)
			return fallbackResult(rec, reasonFor(kind)), attempt
		}
		if attempt >= o.opts.MaxRetries {
			log.WarnContext(ctx, "Generate timed out on every attempt so fallback will be used",
				"attempts", attempt,
				"requestTimeout", o.opts.RequestTimeout.String())
			return fallbackResult(rec, ReasonTimeoutAfterRetries), attempt
		}

		log.InfoContext(ctx, "Generate timed out, retrying",
			"attempt", attempt,
			"maxRetries", o.opts.MaxRetries,
			"retryDelay", o.opts.RetryDelay.String())
		if sleepErr := o.deps.sleep(ctx, o.opts.RetryDelay); sleepErr != nil {
			return fallbackResult(rec, reasonFor(llm.KindOf(sleepErr))), attempt
		}
	}
}

func (o *Orchestrator) attempt(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.RequestTimeout)
	defer cancel()
	return o.gen.Generate(ctx, req)
}

func successResult(resp *llm.GenerateResponse) Result {
	text := resp.Text
	if !resp.HasText || strings.TrimSpace(text) == "" {
		text = PlaceholderNoText
	}
	return Result{
		Success:      true,
		Summary:      text,
		UsedFallback: false,
		Reason:       ReasonSuccess,
	}
}

func (o *Orchestrator) publish(res Result, attempts int, start time.Time) {
	if o.deps.pub == nil {
		return
	}
	end := o.deps.now()
	o.deps.pub.Publish(TopicSummaryCompleted, Outcome{
		Reason:       res.Reason,
		Model:        o.opts.Model,
		UsedFallback: res.UsedFallback,
		Attempts:     attempts,
		Duration:     end.Sub(start),
		FinishedAt:   end,
	})
}
