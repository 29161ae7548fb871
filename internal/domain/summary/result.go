package summary

import (
	"time"

	"github.com/matiasleandrokruk/coffee-api/internal/infra/llm"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "coffee-api"

// TopicSummaryCompleted carries an Outcome after every GenerateSummary call.
const TopicSummaryCompleted = "summary.completed"

// PlaceholderNoText replaces a generated summary the backend did not return.
const PlaceholderNoText = "Unable to generate summary"

// Reason classifies why a Result was produced. Besides the constants below,
// backend error kinds (llm.Kind values) appear verbatim.
type Reason string

const (
	ReasonSuccess             Reason = "success"
	ReasonUnavailable         Reason = "ollama_unavailable"
	ReasonTimeoutAfterRetries Reason = "timeout_after_retries"
)

func reasonFor(kind llm.Kind) Reason { return Reason(kind) }

// Result is the outcome of one GenerateSummary call.
type Result struct {
	Success      bool   `json:"success"`
	Summary      string `json:"summary"`
	UsedFallback bool   `json:"used_fallback"`
	Reason       Reason `json:"reason"`
}

func fallbackResult(rec HarvestRecord, reason Reason) Result {
	return Result{
		Success:      false,
		Summary:      FallbackSummary(rec),
		UsedFallback: true,
		Reason:       reason,
	}
}

// Outcome is published on TopicSummaryCompleted. It never carries record
// fields or summary text.
type Outcome struct {
	Reason       Reason
	Model        string
	UsedFallback bool
	Attempts     int // generate calls made; 0 when the probe failed
	Duration     time.Duration
	FinishedAt   time.Time
}

// HealthReport is the standalone backend availability report.
type HealthReport struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	Ollama       string `json:"ollama"`
	BackendURL   string `json:"backend_url"`
	BackendModel string `json:"backend_model"`
}
