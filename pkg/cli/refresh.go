package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func refreshCommand() *cli.Command {
	var (
		cfg          config
		firstMessage string
		prompt       string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "pending-first-message",
			Usage:       "Unsaved greeting edit to carry into the session",
			Destination: &firstMessage,
			Hidden:      true,
		},
		&cli.StringFlag{
			Name:        "pending-prompt",
			Usage:       "Unsaved instruction edit to carry into the session",
			Destination: &prompt,
			Hidden:      true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "refresh",
		Usage: "Reload the assistant configuration, discarding local edits",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setup(ctx)

			session, err := cfg.newSession()
			if err != nil {
				return err
			}
			if err := session.Load(ctx); err != nil {
				return goerr.Wrap(err, "failed to load assistant")
			}

			if c.IsSet("pending-first-message") {
				session.SetFirstMessage(firstMessage)
			}
			if c.IsSet("pending-prompt") {
				session.SetSystemPrompt(prompt)
			}

			snapshot, err := session.RefreshWithConfirm(ctx, promptConfirmer{})
			if err != nil {
				return err
			}
			if snapshot == nil {
				fmt.Fprintf(c.Root().Writer, "Refresh cancelled.\n")
				return nil
			}

			fmt.Fprintf(c.Root().Writer, "Refreshed. Greeting: %q\n", snapshot.FirstMessage)
			return nil
		},
	}
}
