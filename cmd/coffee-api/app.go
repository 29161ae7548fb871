package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/config"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/llm"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/logging"
	"github.com/matiasleandrokruk/coffee-api/internal/version"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	backend llm.Backend
	prober  *summary.Prober
}

// newApp loads configuration and builds the backend client and prober.
// Logs go to logOut.
func newApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	client := llm.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel,
		llm.WithPaths(cfg.OllamaStatusPath, cfg.OllamaGeneratePath))
	prober := summary.NewProber(client, summary.ProbeOptions{
		Timeout:    cfg.ProbeTimeout,
		RetryDelay: cfg.RetryDelay,
	}, summary.WithLogger(log))
	return &app{cfg: cfg, log: log, backend: client, prober: prober}, nil
}

// orchestrator builds the summary core. pub may be nil.
func (a *app) orchestrator(pub summary.Publisher) *summary.Orchestrator {
	opts := summary.Options{
		Model:          a.cfg.OllamaModel,
		BackendURL:     a.cfg.OllamaURL,
		Temperature:    a.cfg.Temperature,
		MaxRetries:     a.cfg.MaxRetries,
		RequestTimeout: a.cfg.RequestTimeout,
		RetryDelay:     a.cfg.RetryDelay,
	}
	options := []summary.Option{summary.WithLogger(a.log)}
	if pub != nil {
		options = append(options, summary.WithPublisher(pub))
	}
	return summary.NewOrchestrator(a.backend, a.prober, opts, options...)
}

// initSentry enables error reporting when SENTRY_DSN is set. The returned
// func flushes pending events.
func (a *app) initSentry() (func(), error) {
	if a.cfg.SentryDSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         a.cfg.SentryDSN,
		Environment: a.cfg.SentryEnvironment,
		Release:     "coffee-api@" + version.Short(),
	})
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	a.log.Info("Sentry error reporting enabled", "environment", a.cfg.SentryEnvironment)
	return func() { sentry.Flush(2 * time.Second) }, nil
}
