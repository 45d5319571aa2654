package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/omoide/pkg/usecase/backup"
	"github.com/urfave/cli/v3"
)

func backupCommand() *cli.Command {
	var (
		cfg    config
		bucket string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for the backup",
			Sources:     cli.EnvVars("OMOIDE_BACKUP_BUCKET"),
			Destination: &bucket,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "backup",
		Usage: "Copy all memories to a Cloud Storage bucket",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupContext(ctx)

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}

			storage, err := cfg.newStorage(ctx, bucket)
			if err != nil {
				return err
			}

			uc := backup.New(repo, storage)
			count, err := uc.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Backed up %d artifacts\n", count)
			return nil
		},
	}
}
