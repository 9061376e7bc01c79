package cli

import (
	"context"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
)

// promptConfirmer asks yes/no questions on the terminal. It implements
// assistant.Confirmer for the refresh gate.
type promptConfirmer struct{}

func (promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	rl, err := readline.New(prompt + " [y/N] ")
	if err != nil {
		return false, goerr.Wrap(err, "failed to open terminal prompt")
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		// Treat an interrupted prompt as a decline, not a failure
		if err == readline.ErrInterrupt {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to read confirmation")
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
