package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/omoide/pkg/utils/logging"
)

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("info", buf)
	gt.V(t, logger).NotNil()

	logger.Debug("hidden message")
	logger.Info("visible message")

	gt.S(t, buf.String()).NotContains("hidden message")
	gt.S(t, buf.String()).Contains("visible message")
}

func TestLevels(t *testing.T) {
	cases := []struct {
		level       string
		expectDebug bool
		expectWarn  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warning", false, true},
		{"error", false, false},
		{"DEBUG", true, true},
		{"bogus", false, true}, // falls back to info
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.New(tc.level, buf)

			logger.Debug("debug message")
			logger.Warn("warn message")

			out := buf.String()
			if tc.expectDebug {
				gt.S(t, out).Contains("debug message")
			} else {
				gt.S(t, out).NotContains("debug message")
			}
			if tc.expectWarn {
				gt.S(t, out).Contains("warn message")
			} else {
				gt.S(t, out).NotContains("warn message")
			}
		})
	}
}

func TestContextCarrier(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("debug", buf).With("component", "test")

	ctx := logging.With(context.Background(), logger)
	gt.Equal(t, logging.From(ctx), logger)

	logging.From(ctx).Info("carried message")
	gt.S(t, buf.String()).Contains("carried message")
	gt.S(t, buf.String()).Contains("component")
}

func TestFromWithoutLogger(t *testing.T) {
	gt.V(t, logging.From(context.Background())).NotNil()
}
