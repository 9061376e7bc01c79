package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "myna",
		Usage: "Voice agent configuration dashboard",
		Commands: []*cli.Command{
			showCommand(),
			saveCommand(),
			refreshCommand(),
			driftCommand(),
			remediateCommand(),
			kbCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
