package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "show",
		Usage:     "Show one memory's artifacts and transcript",
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

			w := c.Root().Writer
			fmt.Fprintf(w, "Memory: %s\n", id)
			if ts, err := id.CreatedAt(); err == nil {
				fmt.Fprintf(w, "Created: %s\n", ts.Format("2006-01-02 15:04:05"))
			}
			for _, kind := range model.Kinds() {
				if repo.Has(id, kind) {
					fmt.Fprintf(w, "  %-10s %s\n", kind, repo.Path(id, kind))
				}
			}

			if repo.Has(id, model.KindTranscript) {
				text, err := repo.Read(id, model.KindTranscript)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "\n%s\n", text)
			}
			return nil
		},
	}
}
