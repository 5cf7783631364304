// Command gangsheet plans and renders gang sheets: many copies of one artwork
// tiled onto fixed-size print sheets.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gangsheet/internal/cli"
	errs "github.com/matzehuels/gangsheet/pkg/errors"
)

// Exit codes. Planning failures get their own code so scripts can tell a job
// that cannot be laid out from a broken invocation.
const (
	exitError     = 1
	exitUnplanned = 2
	exitInterrupt = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level must be set before the root pre-run loads config and
	// attaches the logger to the context.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// report prints err and returns the process exit code.
func report(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupt
	}
	switch code := errs.GetCode(err); code {
	case "":
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	case errs.ErrCodeArtifactTooLarge, errs.ErrCodeQuantityExceedsLimit, errs.ErrCodeInvalidSheetSpec:
		fmt.Fprintf(os.Stderr, "Error: %s [%s]\n", errs.UserMessage(err), code)
		return exitUnplanned
	default:
		fmt.Fprintf(os.Stderr, "Error: %s [%s]\n", errs.UserMessage(err), code)
		return exitError
	}
}
