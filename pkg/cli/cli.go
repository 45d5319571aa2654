package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "omoide",
		Usage: "Photo and voice-note memory vault with transcription",
		Commands: []*cli.Command{
			ingestCommand(),
			listCommand(),
			showCommand(),
			recordCommand(),
			transcribeCommand(),
			playCommand(),
			backupCommand(),
			deleteCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
