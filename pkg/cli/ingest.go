package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/usecase/ingest"
	"github.com/urfave/cli/v3"
)

func ingestCommand() *cli.Command {
	var (
		cfg       config
		inputPath string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to the captured photo (JPEG, PNG or GIF)",
			Sources:     cli.EnvVars("OMOIDE_INPUT"),
			Destination: &inputPath,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Create a new memory from a photo",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			if inputPath == "" {
				return goerr.New("input file path is required")
			}

			f, err := os.Open(inputPath)
			if err != nil {
				return goerr.Wrap(err, "failed to open input file", goerr.V("path", inputPath))
			}
			defer f.Close()

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}

			uc := ingest.New(repo)
			id, err := uc.Ingest(ctx, f)
			if err != nil {
				return goerr.Wrap(err, "failed to ingest photo")
			}

			fmt.Fprintf(c.Root().Writer, "Memory created: %s\n", id)
			return nil
		},
	}
}
