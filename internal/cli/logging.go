package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LogLevels lists the accepted --log-level values.
var LogLevels = []string{"error", "warn", "info", "debug"}

// ParseLogLevel converts a --log-level value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "error":
		return slog.LevelError, nil
	case "warn":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of %v", s, LogLevels)
	}
}

// SetupLogger builds the text logger every command writes diagnostics to.
// Debug output carries source locations.
func SetupLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(handler), nil
}
