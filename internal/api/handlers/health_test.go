package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
)

type healthStub struct{ ollama string }

func (s healthStub) Health(context.Context) summary.HealthReport {
	return summary.HealthReport{
		Status: "ok", Service: summary.ServiceName, Ollama: s.ollama,
		BackendURL: "http://ollama:11434", BackendModel: "llama3.2:3b",
	}
}

func TestHealth_AlwaysOK(t *testing.T) {
	t.Parallel()

	for _, state := range []string{"available", "unavailable"} {
		rr := httptest.NewRecorder()
		NewHealthHandler(healthStub{ollama: state}).Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", state, rr.Code)
		}
		got := decodeBody[summary.HealthReport](t, rr)
		if got.Ollama != state || got.Service != "coffee-api" || got.BackendModel != "llama3.2:3b" {
			t.Errorf("%s: unexpected report %+v", state, got)
		}
	}
}
