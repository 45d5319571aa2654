package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/urfave/cli/v3"
)

func deleteCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a memory and all of its artifacts",
		ArgsUsage: "<memory-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			id := model.MemoryID(c.Args().First())
			if err := id.Validate(); err != nil {
				return goerr.Wrap(err, "memory ID is required", goerr.V("arg", c.Args().First()))
			}

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}

			if !repo.Has(id, model.KindThumbnail) {
				return goerr.Wrap(model.ErrArtifactNotFound, "no such memory", goerr.V("memory_id", id))
			}

			if err := repo.Delete(id); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Memory deleted: %s\n", id)
			return nil
		},
	}
}
