package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/usecase/transcribe"
	"github.com/urfave/cli/v3"
)

func transcribeCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, speechFlags(&cfg)...)

	return &cli.Command{
		Name:      "transcribe",
		Usage:     "Re-run transcription for a memory's voice note",
		ArgsUsage: "<memory-id>",
		Flags:     flags,
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

			speech, err := cfg.newSpeech(ctx)
			if err != nil {
				return err
			}

			uc := transcribe.New(repo, speech)
			if err := uc.Transcribe(ctx, id); err != nil {
				return err
			}

			text, err := repo.Read(id, model.KindTranscript)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Transcript: %s\n", text)
			return nil
		},
	}
}
