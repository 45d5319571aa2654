package transcribe

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/adapter"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/repository"
	"github.com/m-mizutani/omoide/pkg/utils/logging"
)

// Coordinator drives the speech-to-text backend for one memory's audio and
// persists only the final result. A backend failure leaves any previous
// transcript untouched and is never retried automatically.
type Coordinator struct {
	repo   repository.Repository
	speech adapter.SpeechToText
}

// New creates a new transcription Coordinator
func New(repo repository.Repository, speech adapter.SpeechToText) *Coordinator {
	return &Coordinator{
		repo:   repo,
		speech: speech,
	}
}

// Transcribe submits the memory's audio artifact to the backend, waits for
// its terminal result and writes the transcript artifact. Non-final
// hypotheses from the backend are ignored.
func (c *Coordinator) Transcribe(ctx context.Context, id model.MemoryID) error {
	if !c.repo.Has(id, model.KindAudio) {
		return goerr.Wrap(model.ErrArtifactNotFound, "memory has no audio to transcribe",
			goerr.V("memory_id", id))
	}

	results, err := c.speech.Transcribe(ctx, c.repo.Path(id, model.KindAudio))
	if err != nil {
		return goerr.Wrap(model.ErrTranscriptionFailed, "failed to submit audio",
			goerr.V("memory_id", id), goerr.V("cause", err.Error()))
	}

	logger := logging.From(ctx)

	var final string
	var hasFinal bool
	for res := range results {
		switch {
		case res.Err != nil:
			return goerr.Wrap(model.ErrTranscriptionFailed, "speech backend reported an error",
				goerr.V("memory_id", id), goerr.V("cause", res.Err.Error()))
		case !res.Final:
			logger.Debug("intermediate transcription", "memory_id", id, "text", res.Text)
		default:
			final = res.Text
			hasFinal = true
		}
	}

	if !hasFinal {
		return goerr.Wrap(model.ErrTranscriptionFailed, "speech backend ended without a final result",
			goerr.V("memory_id", id))
	}

	if err := c.repo.Write(id, model.KindTranscript, []byte(final)); err != nil {
		return err
	}

	logger.Info("transcript saved", "memory_id", id, "chars", len(final))
	return nil
}

// Go runs Transcribe in the background and reports the terminal result on
// the returned channel. Failures are logged here; callers may consume the
// channel or ignore it (fire-and-forget).
func (c *Coordinator) Go(ctx context.Context, id model.MemoryID) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		if err := c.Transcribe(ctx, id); err != nil {
			logging.From(ctx).Warn("transcription failed", "memory_id", id, "error", err)
			done <- err
			return
		}
		done <- nil
	}()
	return done
}
