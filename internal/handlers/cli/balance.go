package cli

import (
	"context"
	"fmt"

	"github.com/aptosflow/engine/internal/trigproc"

	"github.com/urfave/cli/v3"
)

// octasPerAPT is the number of minor units in one whole APT.
const octasPerAPT = 100_000_000

// executorBalanceCommand returns a CLI command that prints the executor
// account's spendable balance, both in octas and whole APT.
//
// Usage example:
//
//	aptosflow balance
func executorBalanceCommand(br trigproc.BalanceReader) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Prints the executor account's current APT balance.",
		Usage:       "Reads the executor balance from the configured fullnode.",
		Action: func(ctx context.Context, c *cli.Command) error {
			balance, err := br.ExecutorBalance(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%d octas (%.8f APT)\n", balance, float64(balance)/octasPerAPT)
			return nil
		},
	}
}
