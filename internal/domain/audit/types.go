package audit

import "time"

// Event is one persisted summary outcome. It holds no record fields and no
// generated text.
type Event struct {
	ID           string        `json:"id"`
	Reason       string        `json:"reason"`
	Model        string        `json:"model"`
	UsedFallback bool          `json:"used_fallback"`
	Attempts     int           `json:"attempts"`
	Duration     time.Duration `json:"-"`
	DurationMs   int64         `json:"duration_ms"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Stats aggregates every recorded event.
type Stats struct {
	Total         int64            `json:"total"`
	Fallbacks     int64            `json:"fallbacks"`
	ByReason      map[string]int64 `json:"by_reason"`
	AvgDurationMs float64          `json:"avg_duration_ms"`
	LastAt        *time.Time       `json:"last_at,omitempty"`
}

// FallbackRate is Fallbacks/Total, 0 when nothing was recorded.
func (s Stats) FallbackRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Fallbacks) / float64(s.Total)
}
