package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/coffee-api/internal/version"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintln(stdout, version.String()) //nolint:errcheck
			return nil
		},
	}
}
