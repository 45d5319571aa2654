package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/adapter"
	"github.com/m-mizutani/omoide/pkg/repository"
	"github.com/m-mizutani/omoide/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Vault
	vault    string
	logLevel string

	// Speech backend
	geminiProject  string
	geminiLocation string
	speechModel    string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vault",
			Aliases:     []string{"v"},
			Usage:       "Directory holding memory artifacts",
			Sources:     cli.EnvVars("OMOIDE_VAULT"),
			Destination: &cfg.vault,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("OMOIDE_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// speechFlags returns flags for the speech-to-text backend with destination config
func speechFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "speech-model",
			Usage:       "Generative model used for transcription",
			Sources:     cli.EnvVars("OMOIDE_SPEECH_MODEL"),
			Destination: &cfg.speechModel,
		},
	}
}

// setupContext attaches a logger configured from the flags
func (cfg *config) setupContext(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// vaultDir resolves the vault directory, defaulting to ~/.omoide
func (cfg *config) vaultDir() (string, error) {
	if cfg.vault != "" {
		return cfg.vault, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".omoide"), nil
}

// scratchDir is where in-flight recordings live. It is inside the vault so
// the final rename onto the audio path stays on one filesystem.
func (cfg *config) scratchDir() (string, error) {
	dir, err := cfg.vaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".scratch"), nil
}

// newRepository creates a new repository instance
func (cfg *config) newRepository() (repository.Repository, error) {
	dir, err := cfg.vaultDir()
	if err != nil {
		return nil, err
	}

	repo, err := repository.NewLocal(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newSpeech creates a new speech-to-text backend instance
func (cfg *config) newSpeech(ctx context.Context) (adapter.SpeechToText, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiSpeechOption
	if cfg.speechModel != "" {
		opts = append(opts, adapter.WithSpeechModel(cfg.speechModel))
	}
	return adapter.NewGeminiSpeech(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
