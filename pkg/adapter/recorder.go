package adapter

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Recorder is the audio capture backend. The recorder owns the audio input
// device exclusively between a successful Prepare and Release; callers must
// call Release on every exit path.
type Recorder interface {
	// Prepare acquires the input device and configures the backend to write
	// to scratchPath
	Prepare(ctx context.Context, scratchPath string) error

	// Start begins capturing audio samples to the scratch path
	Start(ctx context.Context) error

	// Stop halts capture and finalizes the scratch file
	Stop(ctx context.Context) error

	// Release gives up the input device. Safe to call in any state.
	Release()
}

// ffmpegRecorder captures from the default input device via ffmpeg,
// encoding AAC 44.1kHz stereo into the scratch path.
type ffmpegRecorder struct {
	binary  string
	format  string
	input   string
	scratch string
	cmd     *exec.Cmd
	done    chan error
}

// RecorderOption is a functional option for NewFFmpegRecorder
type RecorderOption func(*ffmpegRecorder)

// WithRecorderBinary overrides the ffmpeg binary path
func WithRecorderBinary(binary string) RecorderOption {
	return func(r *ffmpegRecorder) {
		r.binary = binary
	}
}

// WithRecorderInput overrides the capture format and input device,
// e.g. ("pulse", "default") or ("avfoundation", ":0")
func WithRecorderInput(format, input string) RecorderOption {
	return func(r *ffmpegRecorder) {
		r.format = format
		r.input = input
	}
}

// NewFFmpegRecorder creates a recorder backed by the ffmpeg CLI
func NewFFmpegRecorder(opts ...RecorderOption) Recorder {
	r := &ffmpegRecorder{
		binary: "ffmpeg",
	}

	switch runtime.GOOS {
	case "darwin":
		r.format, r.input = "avfoundation", ":0"
	case "windows":
		r.format, r.input = "dshow", "audio=default"
	default:
		r.format, r.input = "pulse", "default"
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *ffmpegRecorder) Prepare(ctx context.Context, scratchPath string) error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return goerr.Wrap(err, "recorder binary not available", goerr.V("binary", r.binary))
	}
	if err := os.MkdirAll(filepath.Dir(scratchPath), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create scratch directory",
			goerr.V("path", scratchPath))
	}

	r.scratch = scratchPath
	return nil
}

func (r *ffmpegRecorder) Start(ctx context.Context) error {
	if r.scratch == "" {
		return goerr.New("recorder is not prepared")
	}
	if r.cmd != nil {
		return goerr.New("recorder is already running")
	}

	// AAC 44.1kHz stereo, matching the stored .m4a artifact format
	cmd := exec.Command(r.binary,
		"-y",
		"-f", r.format,
		"-i", r.input,
		"-ac", "2",
		"-ar", "44100",
		"-c:a", "aac",
		"-b:a", "192k",
		"-loglevel", "error",
		r.scratch,
	)

	if err := cmd.Start(); err != nil {
		return goerr.Wrap(err, "failed to start recording",
			goerr.V("binary", r.binary), goerr.V("scratch", r.scratch))
	}

	r.cmd = cmd
	r.done = make(chan error, 1)
	go func() {
		r.done <- cmd.Wait()
	}()

	return nil
}

func (r *ffmpegRecorder) Stop(ctx context.Context) error {
	if r.cmd == nil {
		return goerr.New("recorder is not running")
	}

	// SIGINT lets ffmpeg flush and finalize the container
	if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
		_ = r.cmd.Process.Kill()
	}

	select {
	case <-r.done:
	case <-time.After(10 * time.Second):
		_ = r.cmd.Process.Kill()
		<-r.done
	case <-ctx.Done():
		_ = r.cmd.Process.Kill()
		<-r.done
	}
	r.cmd = nil

	// ffmpeg exits non-zero on SIGINT; a usable scratch file is the
	// success signal here
	info, err := os.Stat(r.scratch)
	if err != nil || info.Size() == 0 {
		return goerr.New("recording produced no audio", goerr.V("scratch", r.scratch))
	}
	return nil
}

func (r *ffmpegRecorder) Release() {
	if r.cmd != nil && r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
		<-r.done
		r.cmd = nil
	}
	r.scratch = ""
}
