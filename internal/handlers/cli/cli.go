package cli

import (
	"context"
	"os"

	"github.com/aptosflow/engine/internal/trigproc"
	"github.com/aptosflow/engine/internal/workflow"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the aptosflow CLI application.
//
// It registers all available commands, including:
//
//   - `start`: Runs the autonomous trigger engine until interrupted.
//   - `balance`: Prints the executor account's current balance.
//   - `parse`: Sends a natural-language prompt to the parsing service and
//     prints the structured workflow definition.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - tp: The trigproc service implementation used by the start command.
//   - br: The balance reader used by the balance command.
//   - pp: The prompt parser used by the parse command (nil disables it).
func Run(ctx context.Context, tp trigproc.Service, br trigproc.BalanceReader, pp workflow.PromptParser) error {
	commands := []*cli.Command{
		startEngineCommand(tp),
		executorBalanceCommand(br),
	}
	if pp != nil {
		commands = append(commands, parsePromptCommand(pp))
	}

	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "aptosflow",
		Description:           "Command-line interface for the AptosFlow autonomous trigger engine.",
		Usage:                 "aptosflow [command] [flags]",
		Commands:              commands,
	}

	return app.Run(ctx, os.Args)
}
