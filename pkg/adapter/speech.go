package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// SpeechResult is one event from a speech-to-text backend. The backend may
// emit zero or more non-final hypotheses before exactly one final result or
// one Err, after which the channel is closed.
type SpeechResult struct {
	Text  string
	Final bool
	Err   error
}

// SpeechToText is the speech recognition backend consumed by the
// transcription coordinator
type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath string) (<-chan SpeechResult, error)
}

const transcribePrompt = "Transcribe this audio recording. Output only the spoken words as plain text, with no commentary or formatting."

type geminiSpeech struct {
	client *genai.Client
	model  string
}

// GeminiSpeechOption is a functional option for NewGeminiSpeech
type GeminiSpeechOption func(*geminiSpeech)

// WithSpeechModel overrides the generative model used for transcription
func WithSpeechModel(model string) GeminiSpeechOption {
	return func(g *geminiSpeech) {
		g.model = model
	}
}

// NewGeminiSpeech creates a speech-to-text backend on Gemini via Vertex AI.
// Streaming chunks are surfaced as non-final hypotheses; the accumulated
// text at end of stream is the final result.
func NewGeminiSpeech(ctx context.Context, projectID, location string, opts ...GeminiSpeechOption) (SpeechToText, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &geminiSpeech{
		client: client,
		model:  "gemini-2.5-flash",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *geminiSpeech) Transcribe(ctx context.Context, audioPath string) (<-chan SpeechResult, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read audio file", goerr.V("path", audioPath))
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcribePrompt},
				{InlineData: &genai.Blob{
					MIMEType: audioMIMEType(audioPath),
					Data:     data,
				}},
			},
		},
	}

	results := make(chan SpeechResult)
	go func() {
		defer close(results)

		var text strings.Builder
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, nil) {
			if err != nil {
				results <- SpeechResult{Err: goerr.Wrap(err, "speech backend error")}
				return
			}

			chunk := responseText(resp)
			if chunk == "" {
				continue
			}
			text.WriteString(chunk)
			results <- SpeechResult{Text: text.String()}
		}

		final := strings.TrimSpace(text.String())
		if final == "" {
			results <- SpeechResult{Err: goerr.New("speech backend returned no text")}
			return
		}
		results <- SpeechResult{Text: final, Final: true}
	}()

	return results, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String()
}

func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
