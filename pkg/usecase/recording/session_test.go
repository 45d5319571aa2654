package recording_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/omoide/pkg/adapter"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/repository"
	"github.com/m-mizutani/omoide/pkg/usecase/recording"
	"github.com/m-mizutani/omoide/pkg/usecase/transcribe"
)

// Mock Recorder that "captures" fixed audio bytes into the scratch path
type mockRecorder struct {
	prepareErr error
	startErr   error
	stopErr    error
	audio      []byte

	scratch  string
	released int
}

func (m *mockRecorder) Prepare(ctx context.Context, scratchPath string) error {
	if m.prepareErr != nil {
		return m.prepareErr
	}
	m.scratch = scratchPath
	return nil
}

func (m *mockRecorder) Start(ctx context.Context) error {
	return m.startErr
}

func (m *mockRecorder) Stop(ctx context.Context) error {
	if m.stopErr != nil {
		return m.stopErr
	}
	return os.WriteFile(m.scratch, m.audio, 0o644)
}

func (m *mockRecorder) Release() {
	m.released++
}

type mockSpeech struct {
	results []adapter.SpeechResult
}

func (m *mockSpeech) Transcribe(ctx context.Context, audioPath string) (<-chan adapter.SpeechResult, error) {
	out := make(chan adapter.SpeechResult)
	go func() {
		defer close(out)
		for _, res := range m.results {
			out <- res
		}
	}()
	return out, nil
}

type env struct {
	repo    repository.Repository
	session *recording.Session
	rec     *mockRecorder
	id      model.MemoryID
}

func setup(t *testing.T, rec *mockRecorder, speech adapter.SpeechToText) *env {
	t.Helper()

	repo := gt.R1(repository.NewLocal(t.TempDir())).NoError(t)
	id := model.NewMemoryID()
	gt.NoError(t, repo.Write(id, model.KindImage, []byte("img")))
	gt.NoError(t, repo.Write(id, model.KindThumbnail, []byte("thumb")))

	coordinator := transcribe.New(repo, speech)
	session := recording.New(repo, rec, coordinator,
		recording.WithScratchDir(t.TempDir()))

	return &env{repo: repo, session: session, rec: rec, id: id}
}

func TestRecordAndTranscribe(t *testing.T) {
	rec := &mockRecorder{audio: []byte("captured audio")}
	speech := &mockSpeech{results: []adapter.SpeechResult{
		{Text: "hello"},
		{Text: "hello world", Final: true},
	}}
	e := setup(t, rec, speech)
	ctx := context.Background()

	gt.NoError(t, e.session.BeginFor(ctx, e.id))
	gt.Equal(t, e.session.State(), recording.StateArmed)

	gt.NoError(t, e.session.Start(ctx))
	gt.Equal(t, e.session.State(), recording.StateRecording)

	done, err := e.session.Stop(ctx, true)
	gt.NoError(t, err)

	// The session is idle immediately; transcription reports out-of-band
	gt.Equal(t, e.session.State(), recording.StateIdle)
	gt.NoError(t, <-done)

	audio := gt.R1(e.repo.Read(e.id, model.KindAudio)).NoError(t)
	gt.Equal(t, string(audio), "captured audio")

	transcript := gt.R1(e.repo.Read(e.id, model.KindTranscript)).NoError(t)
	gt.Equal(t, string(transcript), "hello world")

	gt.N(t, rec.released).Greater(0)
}

func TestBeginWhileBusy(t *testing.T) {
	rec := &mockRecorder{audio: []byte("a")}
	e := setup(t, rec, &mockSpeech{})
	ctx := context.Background()

	gt.NoError(t, e.session.BeginFor(ctx, e.id))

	err := e.session.BeginFor(ctx, model.NewMemoryID())
	gt.B(t, errors.Is(err, model.ErrDeviceBusy)).True()

	// Busy even against the same memory
	err = e.session.BeginFor(ctx, e.id)
	gt.B(t, errors.Is(err, model.ErrDeviceBusy)).True()
}

func TestBeginConfigFailure(t *testing.T) {
	rec := &mockRecorder{prepareErr: goerr.New("device held by another app")}
	e := setup(t, rec, &mockSpeech{})
	ctx := context.Background()

	err := e.session.BeginFor(ctx, e.id)
	gt.B(t, errors.Is(err, model.ErrDeviceConfig)).True()
	gt.Equal(t, e.session.State(), recording.StateFailed)
	gt.Error(t, e.session.Failure())

	// Still rejects new sessions until acknowledged
	err = e.session.BeginFor(ctx, model.NewMemoryID())
	gt.B(t, errors.Is(err, model.ErrDeviceBusy)).True()

	e.session.Ack()
	gt.Equal(t, e.session.State(), recording.StateIdle)

	rec.prepareErr = nil
	gt.NoError(t, e.session.BeginFor(ctx, e.id))
}

func TestAbortPreservesArtifacts(t *testing.T) {
	rec := &mockRecorder{audio: []byte("new take")}
	e := setup(t, rec, &mockSpeech{})
	ctx := context.Background()

	gt.NoError(t, e.repo.Write(e.id, model.KindAudio, []byte("old audio")))
	gt.NoError(t, e.repo.Write(e.id, model.KindTranscript, []byte("old transcript")))

	gt.NoError(t, e.session.BeginFor(ctx, e.id))
	gt.NoError(t, e.session.Start(ctx))

	done, err := e.session.Stop(ctx, false)
	gt.NoError(t, err)
	gt.V(t, done).Nil()
	gt.Equal(t, e.session.State(), recording.StateIdle)

	// Pre-attempt artifacts are byte-identical
	audio := gt.R1(e.repo.Read(e.id, model.KindAudio)).NoError(t)
	gt.Equal(t, string(audio), "old audio")
	transcript := gt.R1(e.repo.Read(e.id, model.KindTranscript)).NoError(t)
	gt.Equal(t, string(transcript), "old transcript")

	gt.N(t, rec.released).Greater(0)
}

func TestStopDeviceError(t *testing.T) {
	rec := &mockRecorder{stopErr: goerr.New("device vanished")}
	e := setup(t, rec, &mockSpeech{})
	ctx := context.Background()

	gt.NoError(t, e.repo.Write(e.id, model.KindAudio, []byte("old audio")))

	gt.NoError(t, e.session.BeginFor(ctx, e.id))
	gt.NoError(t, e.session.Start(ctx))

	_, err := e.session.Stop(ctx, true)
	gt.Error(t, err)
	gt.Equal(t, e.session.State(), recording.StateFailed)

	// Existing audio is untouched by the failed take
	audio := gt.R1(e.repo.Read(e.id, model.KindAudio)).NoError(t)
	gt.Equal(t, string(audio), "old audio")

	e.session.Ack()
	gt.Equal(t, e.session.State(), recording.StateIdle)
}

func TestStartWithoutBegin(t *testing.T) {
	e := setup(t, &mockRecorder{}, &mockSpeech{})
	gt.Error(t, e.session.Start(context.Background()))

	_, err := e.session.Stop(context.Background(), true)
	gt.Error(t, err)
}

func TestRecordingReplacesAudioAndDropsStaleTranscript(t *testing.T) {
	rec := &mockRecorder{audio: []byte("second take")}
	speech := &mockSpeech{results: []adapter.SpeechResult{
		{Text: "second transcript", Final: true},
	}}
	e := setup(t, rec, speech)
	ctx := context.Background()

	gt.NoError(t, e.repo.Write(e.id, model.KindAudio, []byte("first take")))
	gt.NoError(t, e.repo.Write(e.id, model.KindTranscript, []byte("first transcript")))

	gt.NoError(t, e.session.BeginFor(ctx, e.id))
	gt.NoError(t, e.session.Start(ctx))
	done, err := e.session.Stop(ctx, true)
	gt.NoError(t, err)
	gt.NoError(t, <-done)

	audio := gt.R1(e.repo.Read(e.id, model.KindAudio)).NoError(t)
	gt.Equal(t, string(audio), "second take")
	transcript := gt.R1(e.repo.Read(e.id, model.KindTranscript)).NoError(t)
	gt.Equal(t, string(transcript), "second transcript")
}
