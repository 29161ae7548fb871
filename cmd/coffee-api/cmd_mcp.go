package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/coffee-api/internal/mcpserver"
)

func newMCPCmd(stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the summarize_harvest and backend_health tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol, so logs always go to stderr.
			a, err := newApp(stderr)
			if err != nil {
				return err
			}
			return mcpserver.Run(cmd.Context(), a.orchestrator(nil), a.log)
		},
	}
}
