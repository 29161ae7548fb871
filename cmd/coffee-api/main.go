// coffee-api summarizes coffee harvest records with a local Ollama model and
// falls back to a deterministic sentence when the model cannot answer.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// errExit signals a non-zero exit after the command already wrote its own
// message to stderr.
var errExit = errors.New("exit")

// run executes the CLI with the given args and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "coffee-api: %v\n", err) //nolint:errcheck // best-effort stderr
		}
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	serve := newServeCmd(stderr)
	root := &cobra.Command{
		Use:   "coffee-api",
		Short: "Coffee harvest summaries backed by a local Ollama model",
		Long: `coffee-api turns coffee harvest records into short Portuguese summaries using a
local Ollama model. When the model is down, slow or failing, a deterministic
one-line summary is returned instead.

Configuration comes from environment variables (and an optional .env file):
OLLAMA_URL, OLLAMA_MODEL, REQUEST_TIMEOUT, MAX_RETRIES, PORT, LOG_LEVEL, ...`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}
	root.AddCommand(
		serve,
		newMCPCmd(stderr),
		newSummarizeCmd(stdin, stdout, stderr),
		newHealthCmd(stdout, stderr),
		newStatsCmd(stdout, stderr),
		newVersionCmd(stdout),
	)
	return root
}
