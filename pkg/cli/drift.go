package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func driftCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "drift",
		Usage: "Compare the assistant against the baseline template",
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

			report, err := session.Drift()
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if !report.NeedsUpdate {
				fmt.Fprintf(w, "Assistant matches the baseline template.\n")
				return nil
			}

			fmt.Fprintf(w, "Assistant has drifted from the baseline:\n")
			for _, reason := range report.Reasons {
				fmt.Fprintf(w, "  - %s\n", reason)
			}
			if report.Diff != "" {
				fmt.Fprintf(w, "\nAnalysis plan diff:\n%s\n", report.Diff)
			}
			return nil
		},
	}
}

func remediateCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "remediate",
		Usage: "Update the assistant to the baseline template",
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

			if _, err := session.Remediate(ctx); err != nil {
				return goerr.Wrap(err, "remediation failed")
			}

			fmt.Fprintf(c.Root().Writer, "Assistant is up to date with the baseline template.\n")
			return nil
		},
	}
}
