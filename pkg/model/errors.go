package model

import (
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidMemoryID = goerr.New("invalid memory ID")
	ErrInvalidKind     = goerr.New("invalid artifact kind")

	// ErrArtifactNotFound is returned when a requested artifact does not
	// exist for the memory
	ErrArtifactNotFound = goerr.New("artifact not found")

	// ErrDeviceBusy is returned when a recording session is requested while
	// another one is not yet back to idle
	ErrDeviceBusy = goerr.New("recording device is busy")

	// ErrDeviceConfig is returned when the recording backend cannot be
	// configured, e.g. the audio input device cannot be acquired
	ErrDeviceConfig = goerr.New("failed to configure recording device")

	// ErrTranscriptionFailed is returned when the speech-to-text backend
	// reports an error or ends without a final result
	ErrTranscriptionFailed = goerr.New("transcription failed")
)
