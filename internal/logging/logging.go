package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/briefwire/briefwire/internal/config"
)

// New constructs a slog.Logger writing structured records to w in the
// configured format and at the configured level.
func New(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	return slog.New(handler), nil
}
