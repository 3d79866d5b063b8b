package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the level and format of a logger.
type Options struct {
	Level string
	JSON  bool
}

// New creates a configured application logger.
// It writes to Stderr so that results printed on Stdout stay parseable.
// It standardizes common keys (e.g., "error" -> "err").
func New(opts Options) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, opts))
}

// NewHandler builds the handler used by New on an arbitrary writer.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	cfg := &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if opts.JSON {
		return slog.NewJSONHandler(w, cfg)
	}
	return slog.NewTextHandler(w, cfg)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
