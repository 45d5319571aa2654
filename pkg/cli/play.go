package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/adapter"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/urfave/cli/v3"
)

func playCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "play",
		Usage:     "Play back a memory's voice note",
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
			if !repo.Has(id, model.KindAudio) {
				return goerr.Wrap(model.ErrArtifactNotFound, "memory has no voice note",
					goerr.V("memory_id", id))
			}

			player := adapter.NewFFplayPlayer()
			return player.Play(ctx, repo.Path(id, model.KindAudio))
		},
	}
}
