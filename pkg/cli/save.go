package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/urfave/cli/v3"
)

func saveCommand() *cli.Command {
	var (
		cfg          config
		firstMessage string
		prompt       string
		voice        string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "first-message",
			Usage:       "New greeting spoken at call start",
			Destination: &firstMessage,
		},
		&cli.StringFlag{
			Name:        "prompt",
			Usage:       "New behavioral instructions",
			Destination: &prompt,
		},
		&cli.StringFlag{
			Name:        "voice",
			Usage:       "New voice identifier",
			Destination: &voice,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, ownerFlags(&cfg)...)

	return &cli.Command{
		Name:  "save",
		Usage: "Apply configuration changes to the assistant",
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

			if c.IsSet("first-message") {
				session.SetFirstMessage(firstMessage)
			}
			if c.IsSet("prompt") {
				session.SetSystemPrompt(prompt)
			}
			if voice != "" {
				if err := session.SetVoice(model.VoiceID(voice)); err != nil {
					return err
				}
			}

			confirmed, err := session.Save(ctx)
			if err != nil {
				var vErr *model.ValidationError
				if errors.As(err, &vErr) {
					return goerr.Wrap(err, "validation failed", goerr.V("field", vErr.Field))
				}
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Saved. Greeting is now: %q\n", confirmed.FirstMessage)
			return nil
		},
	}
}
