package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aptosflow/engine/internal/workflow"

	"github.com/urfave/cli/v3"
)

// parsePromptCommand returns a CLI command that sends a natural-language
// automation prompt to the external parsing service and prints the resulting
// structured workflow definition as JSON.
//
// Usage example:
//
//	aptosflow parse --prompt "when I receive 0.012345 APT, send 0.001 APT back"
func parsePromptCommand(pp workflow.PromptParser) *cli.Command {
	return &cli.Command{
		Name:        "parse",
		Description: "Parses a natural-language prompt into a structured workflow definition.",
		Usage:       "Sends the prompt to the configured parsing service and prints the result.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "prompt",
				Usage:    "Natural-language description of the automation workflow",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			parsed, err := pp.Parse(ctx, c.String("prompt"))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(parsed, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(out))
			return nil
		},
	}
}
