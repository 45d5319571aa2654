package adapter_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/omoide/pkg/adapter"
)

func TestGeminiTranscribe(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT is not set")
	}
	audioPath := os.Getenv("TEST_AUDIO_FILE")
	if audioPath == "" {
		t.Skip("TEST_AUDIO_FILE is not set")
	}

	ctx := context.Background()
	speech, err := adapter.NewGeminiSpeech(ctx, projectID, "us-central1")
	gt.NoError(t, err)

	results, err := speech.Transcribe(ctx, audioPath)
	gt.NoError(t, err)

	var final string
	for res := range results {
		gt.NoError(t, res.Err)
		if res.Final {
			final = res.Text
		}
	}

	if final == "" {
		t.Fatal("no final transcription result")
	}
	t.Log("transcription:", final)
}

func TestRecorderPrepareMissingBinary(t *testing.T) {
	recorder := adapter.NewFFmpegRecorder(adapter.WithRecorderBinary("definitely-not-a-binary"))
	err := recorder.Prepare(context.Background(), "/tmp/omoide-test-scratch.m4a")
	gt.Error(t, err)
}
