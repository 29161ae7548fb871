package handlers

import (
	"context"
	"net/http"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
)

// HealthReporter is satisfied by *summary.Orchestrator.
type HealthReporter interface {
	Health(ctx context.Context) summary.HealthReport
}

type HealthHandler struct {
	reporter HealthReporter
}

func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// Health always answers 200; backend state is in the "ollama" field.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reporter.Health(r.Context()))
}
