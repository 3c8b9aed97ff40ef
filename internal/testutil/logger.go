package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger whose output is discarded, keeping test output
// free of relay log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
