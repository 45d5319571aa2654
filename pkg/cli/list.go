package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/usecase/index"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List all memories in creation order",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}

			idx := index.New(repo)
			if err := idx.Refresh(ctx); err != nil {
				return err
			}

			w := c.Root().Writer
			for i := 0; i < idx.Count(); i++ {
				id, err := idx.Get(i)
				if err != nil {
					return err
				}

				marks := ""
				if repo.Has(id, model.KindAudio) {
					marks += " [audio]"
				}
				if repo.Has(id, model.KindTranscript) {
					marks += " [transcript]"
				}

				created := ""
				if ts, err := id.CreatedAt(); err == nil {
					created = ts.Format("2006-01-02 15:04:05")
				}

				fmt.Fprintf(w, "%s  %s%s\n", id, created, marks)
			}
			fmt.Fprintf(w, "%d memories\n", idx.Count())
			return nil
		},
	}
}
