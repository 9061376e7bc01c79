package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/usecase/knowledge"
	"github.com/urfave/cli/v3"
)

func kbCommand() *cli.Command {
	return &cli.Command{
		Name:  "kb",
		Usage: "Manage the assistant's knowledge files",
		Commands: []*cli.Command{
			kbListCommand(),
			kbUploadCommand(),
			kbRemoveCommand(),
		},
	}
}

func kbListCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List attached knowledge files",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setup(ctx)

			uc, err := cfg.newKnowledge(ctx)
			if err != nil {
				return err
			}
			if err := uc.Load(ctx); err != nil {
				return err
			}

			w := c.Root().Writer
			if toolID := uc.ToolID(); toolID != "" {
				fmt.Fprintf(w, "Knowledge tool: %s\n", toolID)
			}
			files := uc.Files()
			if len(files) == 0 {
				fmt.Fprintf(w, "No knowledge files attached.\n")
				return nil
			}
			for _, f := range files {
				fmt.Fprintf(w, "%-36s  %8d  %s\n", f.ID, f.Size, f.Name)
			}
			return nil
		},
	}
}

func kbUploadCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload files and attach them to the assistant",
		ArgsUsage: "<file> [<file>...]",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setup(ctx)

			paths := c.Args().Slice()
			if len(paths) == 0 {
				return goerr.New("no files given")
			}

			spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			spin.Suffix = " uploading..."
			notifier := knowledge.NewProgressNotifier(50*time.Millisecond, func(progress map[string]int) {
				spin.Suffix = " uploading... " + formatProgress(progress)
			})
			defer notifier.Stop()

			uc, err := cfg.newKnowledge(ctx, knowledge.WithProgressNotifier(notifier))
			if err != nil {
				return err
			}
			if err := uc.Load(ctx); err != nil {
				return err
			}

			candidates := make([]*knowledge.Candidate, 0, len(paths))
			closers := make([]*os.File, 0, len(paths))
			defer func() {
				for _, f := range closers {
					f.Close()
				}
			}()

			for _, path := range paths {
				f, err := os.Open(path)
				if err != nil {
					return goerr.Wrap(err, "failed to open file", goerr.V("path", path))
				}
				closers = append(closers, f)

				info, err := f.Stat()
				if err != nil {
					return goerr.Wrap(err, "failed to stat file", goerr.V("path", path))
				}

				name := filepath.Base(path)
				candidates = append(candidates, &knowledge.Candidate{
					Name:        name,
					ContentType: model.MediaTypeForName(name),
					Size:        info.Size(),
					Body:        f,
				})
			}

			uc.Select(candidates...)

			spin.Start()
			result, uploadErr := uc.Upload(ctx)
			spin.Stop()

			w := c.Root().Writer
			for _, failed := range result.Failed {
				fmt.Fprintf(w, "FAILED %s: %s\n", failed.Name, failed.Err)
			}
			if uploadErr != nil {
				return uploadErr
			}

			fmt.Fprintf(w, "Attached files: %d\n", len(result.Set.Files))
			return nil
		},
	}
}

func kbRemoveCommand() *cli.Command {
	var (
		cfg    config
		fileID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file-id",
			Usage:       "ID of the knowledge file to remove",
			Destination: &fileID,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "remove",
		Usage: "Delete a knowledge file and detach it from the assistant",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setup(ctx)

			uc, err := cfg.newKnowledge(ctx)
			if err != nil {
				return err
			}
			if err := uc.Load(ctx); err != nil {
				return err
			}

			if err := uc.Remove(ctx, model.FileID(fileID)); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Removed %s\n", fileID)
			return nil
		},
	}
}

func formatProgress(progress map[string]int) string {
	names := make([]string, 0, len(progress))
	for name := range progress {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d%%", name, progress[name]))
	}
	return strings.Join(parts, ", ")
}
