package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/coffee-api/internal/api"
	"github.com/matiasleandrokruk/coffee-api/internal/domain/audit"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/eventbus"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/sqlite"
	"github.com/matiasleandrokruk/coffee-api/internal/monitor"
	"github.com/matiasleandrokruk/coffee-api/internal/server"
)

func newServeCmd(stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		Long: `Start the HTTP API:

  GET  /health     backend availability report
  POST /summarize  summarize one harvest record
  GET  /stats      outcome counts (only with AUDIT_DB_PATH)

HEALTH_PROBE_SCHEDULE (cron syntax, e.g. "@every 30s") enables a background
availability monitor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, stderr)
		},
	}
}

func runServe(ctx context.Context, stderr io.Writer) error {
	a, err := newApp(stderr)
	if err != nil {
		return err
	}
	flush, err := a.initSentry()
	if err != nil {
		return err
	}
	defer flush()

	bus := eventbus.New()
	defer bus.Close()

	deps := api.Deps{
		Model:      a.cfg.OllamaModel,
		BackendURL: a.cfg.OllamaURL,
		Logger:     a.log,
	}

	if a.cfg.AuditDBPath != "" {
		db, err := sqlite.NewDB(ctx, a.cfg.AuditDBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := sqlite.MigrateUp(ctx, db); err != nil {
			return err
		}
		auditSvc := audit.NewService(db, a.log)
		go auditSvc.Start(ctx, bus)
		deps.Stats = auditSvc
		a.log.Info("Audit store enabled", "path", a.cfg.AuditDBPath)
	}

	if a.cfg.HealthProbeSchedule != "" {
		mon := monitor.New(a.prober, bus, a.log)
		go func() {
			if err := mon.Run(ctx, a.cfg.HealthProbeSchedule); err != nil {
				a.log.Error("Backend monitor disabled", "error", err)
			}
		}()
	}

	orch := a.orchestrator(bus)
	deps.Summary = orch

	opts := orch.Options()
	srvCfg := server.DefaultConfig()
	srvCfg.Addr = a.cfg.Addr()
	srvCfg.WriteTimeout = max(srvCfg.WriteTimeout,
		server.WriteTimeoutFor(a.cfg.ProbeTimeout, opts.RequestTimeout, opts.RetryDelay, opts.MaxRetries))

	meta := a.backend.ModelInfo()
	a.log.Info("coffee-api configured",
		"provider", meta.Provider,
		"backendURL", meta.BaseURL,
		"model", meta.ID,
		"maxRetries", opts.MaxRetries,
		"requestTimeout", opts.RequestTimeout.String())

	if err := server.New(api.NewRouter(deps), srvCfg, a.log).Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
