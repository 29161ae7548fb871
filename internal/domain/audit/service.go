// Package audit keeps an append-only log of summary outcomes in SQLite and
// answers aggregate queries over it.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/eventbus"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/logging"
)

// tsLayout is fixed-width so created_at sorts lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Service persists summary outcomes. All operations are append-only.
type Service struct {
	db  *sql.DB
	log *slog.Logger
}

// NewService creates a Service over a migrated database.
func NewService(db *sql.DB, log *slog.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{db: db, log: log}
}

// Record stores one outcome and returns the stored event.
func (s *Service) Record(ctx context.Context, out summary.Outcome) (*Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("audit: new id: %w", err)
	}
	createdAt := out.FinishedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	evt := &Event{
		ID:           id.String(),
		Reason:       string(out.Reason),
		Model:        out.Model,
		UsedFallback: out.UsedFallback,
		Attempts:     out.Attempts,
		Duration:     out.Duration,
		DurationMs:   out.Duration.Milliseconds(),
		CreatedAt:    createdAt.UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO summary_event (id, reason, model, used_fallback, attempts, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, evt.ID, evt.Reason, evt.Model, boolToInt(evt.UsedFallback), evt.Attempts, evt.DurationMs,
		evt.CreatedAt.Format(tsLayout))
	if err != nil {
		return nil, fmt.Errorf("audit: insert event: %w", err)
	}
	return evt, nil
}

// Recent returns up to limit events, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reason, model, used_fallback, attempts, duration_ms, created_at
		FROM summary_event
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		var (
			evt       Event
			fallback  int
			createdAt string
		)
		if err := rows.Scan(&evt.ID, &evt.Reason, &evt.Model, &fallback, &evt.Attempts, &evt.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		evt.UsedFallback = fallback == 1
		evt.Duration = time.Duration(evt.DurationMs) * time.Millisecond
		if evt.CreatedAt, err = time.Parse(tsLayout, createdAt); err != nil {
			return nil, fmt.Errorf("audit: parse created_at %q: %w", createdAt, err)
		}
		out = append(out, &evt)
	}
	return out, rows.Err()
}

// Stats aggregates all recorded events.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByReason: map[string]int64{}}

	var (
		avg  sql.NullFloat64
		last sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(used_fallback), 0), AVG(duration_ms), MAX(created_at)
		FROM summary_event
	`).Scan(&st.Total, &st.Fallbacks, &avg, &last)
	if err != nil {
		return Stats{}, fmt.Errorf("audit: aggregate: %w", err)
	}
	st.AvgDurationMs = avg.Float64
	if last.Valid {
		ts, err := time.Parse(tsLayout, last.String)
		if err != nil {
			return Stats{}, fmt.Errorf("audit: parse last_at %q: %w", last.String, err)
		}
		st.LastAt = &ts
	}

	rows, err := s.db.QueryContext(ctx, `SELECT reason, COUNT(*) FROM summary_event GROUP BY reason`)
	if err != nil {
		return Stats{}, fmt.Errorf("audit: count by reason: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			reason string
			n      int64
		)
		if err := rows.Scan(&reason, &n); err != nil {
			return Stats{}, fmt.Errorf("audit: scan reason: %w", err)
		}
		st.ByReason[reason] = n
	}
	return st, rows.Err()
}

// Start records every summary.TopicSummaryCompleted event until ctx is done
// or the bus is closed. Run it in its own goroutine: go svc.Start(ctx, bus).
// Write failures are logged and do not stop the loop.
func (s *Service) Start(ctx context.Context, bus eventbus.EventBus) {
	ch := bus.Subscribe(summary.TopicSummaryCompleted)
	for {
		select {
		case <-ctx.Done():
			return
		case evt, open := <-ch:
			if !open {
				return
			}
			out, ok := evt.Payload.(summary.Outcome)
			if !ok {
				continue
			}
			if _, err := s.Record(ctx, out); err != nil {
				s.log.ErrorContext(ctx, "Failed to record summary outcome", "error", err)
			}
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
