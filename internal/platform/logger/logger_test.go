package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/scoutiq/landscape-api/internal/config"
	"github.com/scoutiq/landscape-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case", logLevel: "Debug"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Same(t, log, slog.Default())
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	// Without a logger in the context, the default is returned.
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))

	custom := slog.Default().With("component", "test")
	ctx := logger.WithLogger(context.Background(), custom)
	assert.Same(t, custom, logger.FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	fallback := slog.Default().With("component", "fallback")

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))

	custom := slog.Default().With("component", "custom")
	ctx := logger.WithLogger(context.Background(), custom)
	assert.Same(t, custom, logger.FromContextOrDefault(ctx, fallback))

	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
}
