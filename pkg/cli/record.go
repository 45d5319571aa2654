package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/adapter"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/usecase/recording"
	"github.com/m-mizutani/omoide/pkg/usecase/transcribe"
	"github.com/urfave/cli/v3"
)

func recordCommand() *cli.Command {
	var (
		cfg      config
		duration time.Duration
		noWait   bool
	)

	flags := []cli.Flag{
		&cli.DurationFlag{
			Name:        "duration",
			Aliases:     []string{"d"},
			Usage:       "Stop recording after this duration (default: on Ctrl-C)",
			Sources:     cli.EnvVars("OMOIDE_RECORD_DURATION"),
			Destination: &duration,
		},
		&cli.BoolFlag{
			Name:        "no-wait",
			Usage:       "Do not wait for transcription to finish",
			Sources:     cli.EnvVars("OMOIDE_RECORD_NO_WAIT"),
			Destination: &noWait,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, speechFlags(&cfg)...)

	return &cli.Command{
		Name:      "record",
		Usage:     "Record a voice note for a memory and transcribe it",
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
			if !repo.Has(id, model.KindThumbnail) {
				return goerr.Wrap(model.ErrArtifactNotFound, "no such memory", goerr.V("memory_id", id))
			}

			speech, err := cfg.newSpeech(ctx)
			if err != nil {
				return err
			}

			scratchDir, err := cfg.scratchDir()
			if err != nil {
				return err
			}

			coordinator := transcribe.New(repo, speech)
			session := recording.New(repo, adapter.NewFFmpegRecorder(), coordinator,
				recording.WithScratchDir(scratchDir))

			if err := session.BeginFor(ctx, id); err != nil {
				return err
			}
			if err := session.Start(ctx); err != nil {
				return err
			}

			w := c.Root().Writer
			if duration > 0 {
				fmt.Fprintf(w, "Recording for %s...\n", duration)
			} else {
				fmt.Fprintln(w, "Recording... press Ctrl-C to stop")
			}

			waitCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
			defer cancel()
			if duration > 0 {
				var cancelTimer context.CancelFunc
				waitCtx, cancelTimer = context.WithTimeout(waitCtx, duration)
				defer cancelTimer()
			}
			<-waitCtx.Done()

			done, err := session.Stop(ctx, true)
			if err != nil {
				session.Ack()
				return err
			}
			fmt.Fprintln(w, "Recording saved")

			if noWait || done == nil {
				return nil
			}

			fmt.Fprintln(w, "Transcribing...")
			if err := <-done; err != nil {
				return goerr.Wrap(err, "transcription did not complete")
			}

			text, err := repo.Read(id, model.KindTranscript)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Transcript: %s\n", text)
			return nil
		},
	}
}
