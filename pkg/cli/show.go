package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "show",
		Usage: "Show the assistant configuration and drift status",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setup(ctx)

			session, err := cfg.newSession()
			if err != nil {
				return err
			}
			if err := session.Load(ctx); err != nil {
				return goerr.Wrap(err, "failed to load assistant")
			}

			snapshot := session.Cache().Peek()
			w := c.Root().Writer
			fmt.Fprintf(w, "Assistant: %s (%s)\n", snapshot.Name, snapshot.ID)
			fmt.Fprintf(w, "Voice:     %s\n", session.VoiceID())
			fmt.Fprintf(w, "Greeting:  %s\n", session.FirstMessage())
			fmt.Fprintf(w, "\nInstructions:\n%s\n", session.SystemPrompt())

			report, err := session.Drift()
			if err != nil {
				return err
			}
			if report.NeedsUpdate {
				fmt.Fprintf(w, "\nUpdate available:\n")
				for _, reason := range report.Reasons {
					fmt.Fprintf(w, "  - %s\n", reason)
				}
				fmt.Fprintf(w, "\nRun 'myna remediate' to apply the latest template.\n")
			}

			return nil
		},
	}
}
