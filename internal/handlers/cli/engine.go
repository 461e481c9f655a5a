package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aptosflow/engine/internal/trigproc"

	"github.com/urfave/cli/v3"
)

// startEngineCommand returns a CLI command that runs the full trigger engine:
// chain polling, webhook intake, and autonomous execution.
//
// Usage example:
//
//	aptosflow start
//
// The process runs indefinitely until it receives an interrupt (SIGINT or
// SIGTERM). In-flight executions are not guaranteed to complete on shutdown.
func startEngineCommand(tp trigproc.Service) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Starts the trigger engine: chain polling, webhook intake, and autonomous execution.",
		Usage:       "Initializes and runs the engine. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			if err := tp.Start(ctx); err != nil {
				return err
			}
			defer tp.Close()

			<-quit
			return nil
		},
	}
}
