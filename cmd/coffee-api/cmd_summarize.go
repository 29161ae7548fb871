package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
)

func newSummarizeCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summarize [file|-]",
		Short: "Summarize one harvest record (JSON or YAML) and print the result",
		Long: `Summarize one harvest record read from a file, or from stdin when the argument
is "-" or omitted. The format is taken from --format, or from the file
extension (.yaml/.yml means YAML, anything else JSON).

Exits 1 when the record is invalid or misses farm_name, harvest_date or
quality_grade. A fallback summary still exits 0.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(path, stdin)
			if err != nil {
				return err
			}
			if resolveFormat(format, path) == "yaml" {
				if data, err = yamlToJSON(data); err != nil {
					return fmt.Errorf("parse YAML record: %w", err)
				}
			}

			rec, err := validateRecord(data)
			if err != nil {
				fmt.Fprintf(stderr, "coffee-api: %v\n", err) //nolint:errcheck
				return errExit
			}

			a, err := newApp(stderr)
			if err != nil {
				return err
			}
			res := a.orchestrator(nil).GenerateSummary(cmd.Context(), rec)
			res.Summary = strings.TrimSpace(res.Summary)
			return printJSON(stdout, res)
		},
	}
	cmd.Flags().StringVar(&format, "format", "auto", "Record format: auto, json or yaml")
	return cmd
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func resolveFormat(format, path string) string {
	if format != "auto" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// validateRecord applies the same checks as POST /summarize.
func validateRecord(data []byte) (summary.HarvestRecord, error) {
	rec, err := summary.ParseRecord(data)
	if errors.Is(err, summary.ErrInvalidJSON) {
		return rec, errors.New("record must be a non-empty JSON object")
	}
	if missing := summary.MissingRequired(data); len(missing) > 0 {
		return rec, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return rec, err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
