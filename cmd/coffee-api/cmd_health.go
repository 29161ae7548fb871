package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newHealthCmd(stdout, stderr io.Writer) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the Ollama backend once and print the health report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(stderr)
			if err != nil {
				return err
			}
			report := a.orchestrator(nil).Health(cmd.Context())
			if err := printJSON(stdout, report); err != nil {
				return err
			}
			if strict && report.Ollama != "available" {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit 1 when the backend is unavailable")
	return cmd
}
