// Package api wires the HTTP surface: GET /health, POST /summarize and,
// when the audit store is enabled, GET /stats.
package api

import (
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matiasleandrokruk/coffee-api/internal/api/handlers"
	apimiddleware "github.com/matiasleandrokruk/coffee-api/internal/api/middleware"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/logging"
)

// Summary is the core surface the router needs. *summary.Orchestrator satisfies it.
type Summary interface {
	handlers.Summarizer
	handlers.HealthReporter
}

// Deps are the collaborators NewRouter wires into handlers.
type Deps struct {
	Summary    Summary
	Model      string
	BackendURL string
	Stats      handlers.StatsReader // nil disables GET /stats
	Logger     *slog.Logger
}

// NewRouter creates the chi router with middleware and all routes.
func NewRouter(deps Deps) *chi.Mux {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(apimiddleware.RequestLogger(log))
	r.Use(apimiddleware.Recoverer(log))
	r.Use(tagRequestID)

	healthHandler := handlers.NewHealthHandler(deps.Summary)
	summarizeHandler := handlers.NewSummarizeHandler(deps.Summary, deps.Model, deps.BackendURL)

	r.Get("/health", healthHandler.Health)          // GET /health
	r.Post("/summarize", summarizeHandler.Summarize) // POST /summarize

	if deps.Stats != nil {
		r.Get("/stats", handlers.NewStatsHandler(deps.Stats).Stats) // GET /stats
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found","code":"NOT_FOUND"}`)) //nolint:errcheck
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"Method not allowed","code":"METHOD_NOT_ALLOWED"}`)) //nolint:errcheck
	})

	return r
}

// tagRequestID attaches the chi request id to the request's Sentry scope.
func tagRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.Scope().SetTag("request_id", middleware.GetReqID(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}
