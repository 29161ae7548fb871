package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/audit"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/config"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/logging"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/sqlite"
)

func newStatsCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		dbPath  string
		asJSON  bool
		recentN int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show summary outcome statistics from the audit database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dbPath = cfg.AuditDBPath
			}
			if dbPath == "" {
				return errors.New("no audit database: pass --db or set AUDIT_DB_PATH")
			}

			ctx := cmd.Context()
			db, err := sqlite.NewDB(ctx, dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := sqlite.MigrateUp(ctx, db); err != nil {
				return err
			}

			svc := audit.NewService(db, logging.New(stderr, "warn", "text"))
			st, err := svc.Stats(ctx)
			if err != nil {
				return err
			}
			var recent []*audit.Event
			if recentN > 0 {
				if recent, err = svc.Recent(ctx, recentN); err != nil {
					return err
				}
			}

			if asJSON {
				return printJSON(stdout, struct {
					audit.Stats
					FallbackRate float64        `json:"fallback_rate"`
					Recent       []*audit.Event `json:"recent,omitempty"`
				}{st, st.FallbackRate(), recent})
			}
			printStats(stdout, st, recent)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Audit database path (default $AUDIT_DB_PATH)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	cmd.Flags().IntVar(&recentN, "recent", 0, "Also list the N most recent outcomes")
	return cmd
}

func printStats(w io.Writer, st audit.Stats, recent []*audit.Event) {
	fmt.Fprintf(w, "Summaries: %s (fallback %.1f%%)\n", humanize.Comma(st.Total), st.FallbackRate()*100) //nolint:errcheck
	if st.Total == 0 {
		return
	}
	fmt.Fprintf(w, "Average duration: %.0f ms\n", st.AvgDurationMs) //nolint:errcheck
	if st.LastAt != nil {
		fmt.Fprintf(w, "Last: %s\n", humanize.Time(*st.LastAt)) //nolint:errcheck
	}

	reasons := make([]string, 0, len(st.ByReason))
	for r := range st.ByReason {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(w, "  %-22s %s\n", r, humanize.Comma(st.ByReason[r])) //nolint:errcheck
	}

	for _, evt := range recent {
		fmt.Fprintf(w, "%s  %-22s attempts=%d %s\n", //nolint:errcheck
			humanize.Time(evt.CreatedAt), evt.Reason, evt.Attempts, evt.Duration)
	}
}
