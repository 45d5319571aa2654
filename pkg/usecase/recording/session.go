package recording

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/repository"
	"github.com/m-mizutani/omoide/pkg/usecase/transcribe"
	"github.com/m-mizutani/omoide/pkg/utils/logging"
)

// State is the lifecycle phase of the recording session
type State int

const (
	StateIdle State = iota
	StateArmed
	StateRecording
	StateStopping
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session governs the armed -> recording -> stopping -> transcribing
// lifecycle for one memory at a time. Only one memory may hold the session
// at once; a begin request while not idle is rejected, never queued.
//
// Recording goes to a scratch path first and is moved onto the memory's
// audio path only on a successful stop, so a failed or aborted take never
// touches the artifacts already on disk. Transcription is fired after the
// move completes and reports out-of-band.
type Session struct {
	mu sync.Mutex

	state    State
	memoryID model.MemoryID
	scratch  string
	failure  error

	repo        repository.Repository
	recorder    Recorder
	coordinator *transcribe.Coordinator
	scratchDir  string
}

// Recorder is the slice of the audio backend the session drives. It matches
// adapter.Recorder.
type Recorder interface {
	Prepare(ctx context.Context, scratchPath string) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Release()
}

// Option is a functional option for Session
type Option func(*Session)

// WithScratchDir sets the directory for in-flight scratch recordings
func WithScratchDir(dir string) Option {
	return func(s *Session) {
		s.scratchDir = dir
	}
}

// New creates a new recording Session in the idle state
func New(repo repository.Repository, recorder Recorder, coordinator *transcribe.Coordinator, opts ...Option) *Session {
	s := &Session{
		repo:        repo,
		recorder:    recorder,
		coordinator: coordinator,
		scratchDir:  os.TempDir(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// MemoryID returns the memory holding the session, if any
func (s *Session) MemoryID() model.MemoryID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryID
}

// Failure returns the reason the session is in the failed state
func (s *Session) Failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// BeginFor arms the session for one memory, acquiring the audio input
// device. While any memory holds the session, further begin requests fail
// with model.ErrDeviceBusy. A backend configuration failure moves the
// session to the failed state and must be acknowledged with Ack.
func (s *Session) BeginFor(ctx context.Context, id model.MemoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return goerr.Wrap(model.ErrDeviceBusy, "recording session is not idle",
			goerr.V("state", s.state.String()), goerr.V("holder", s.memoryID))
	}
	if err := id.Validate(); err != nil {
		return err
	}

	scratch := filepath.Join(s.scratchDir, "rec-"+uuid.New().String()+model.KindAudio.Suffix())
	if err := s.recorder.Prepare(ctx, scratch); err != nil {
		s.recorder.Release()
		s.state = StateFailed
		s.failure = goerr.Wrap(model.ErrDeviceConfig, "failed to prepare recording backend",
			goerr.V("memory_id", id), goerr.V("cause", err.Error()))
		return s.failure
	}

	s.state = StateArmed
	s.memoryID = id
	s.scratch = scratch

	logging.From(ctx).Debug("recording session armed", "memory_id", id)
	return nil
}

// Start begins capturing audio to the scratch path
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateArmed {
		return goerr.New("recording session is not armed", goerr.V("state", s.state.String()))
	}

	if err := s.recorder.Start(ctx); err != nil {
		s.recorder.Release()
		s.state = StateFailed
		s.failure = goerr.Wrap(model.ErrDeviceConfig, "failed to start recording",
			goerr.V("memory_id", s.memoryID), goerr.V("cause", err.Error()))
		return s.failure
	}

	s.state = StateRecording
	logging.From(ctx).Info("recording started", "memory_id", s.memoryID)
	return nil
}

// Stop halts the recording backend. With success=true the scratch recording
// becomes the memory's audio artifact and transcription is kicked off in
// the background; the returned channel reports its terminal result. With
// success=false the take is discarded and existing artifacts are untouched.
// The input device is released on every path.
func (s *Session) Stop(ctx context.Context, success bool) (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil, goerr.New("recording session is not recording", goerr.V("state", s.state.String()))
	}

	s.state = StateStopping
	stopErr := s.recorder.Stop(ctx)
	s.recorder.Release()

	id, scratch := s.memoryID, s.scratch

	if !success || stopErr != nil {
		_ = os.Remove(scratch)
		s.reset()
		if stopErr != nil && success {
			s.state = StateFailed
			s.failure = goerr.Wrap(model.ErrDeviceConfig, "recording backend failed on stop",
				goerr.V("memory_id", id), goerr.V("cause", stopErr.Error()))
			return nil, s.failure
		}
		logging.From(ctx).Info("recording discarded", "memory_id", id)
		return nil, nil
	}

	if err := s.repo.CommitAudio(id, scratch); err != nil {
		_ = os.Remove(scratch)
		s.reset()
		return nil, err
	}
	s.reset()

	logging.From(ctx).Info("recording saved", "memory_id", id)

	// The audio move above happens-before transcription starts. The session
	// does not wait for the result.
	done := s.coordinator.Go(context.WithoutCancel(ctx), id)
	return done, nil
}

// Ack acknowledges a failure and returns the session to idle
func (s *Session) Ack() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFailed {
		s.reset()
	}
}

// reset must be called with the lock held
func (s *Session) reset() {
	s.state = StateIdle
	s.memoryID = ""
	s.scratch = ""
	s.failure = nil
}
