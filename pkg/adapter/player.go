package adapter

import (
	"context"
	"os"
	"os/exec"

	"github.com/m-mizutani/goerr/v2"
)

// Player plays back a stored audio artifact
type Player interface {
	Play(ctx context.Context, audioPath string) error
}

type ffplayPlayer struct {
	binary string
}

// NewFFplayPlayer creates a playback backend using the ffplay CLI
func NewFFplayPlayer() Player {
	return &ffplayPlayer{binary: "ffplay"}
}

func (p *ffplayPlayer) Play(ctx context.Context, audioPath string) error {
	if _, err := os.Stat(audioPath); err != nil {
		return goerr.Wrap(err, "audio file is not readable", goerr.V("path", audioPath))
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-nodisp", "-autoexit", "-loglevel", "error", audioPath)
	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "playback failed", goerr.V("path", audioPath))
	}
	return nil
}
