package log

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Format selects the slog handler used for output.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatText writes logfmt-style key=value lines.
	FormatText Format = "text"
)

// ParseFormat parses a format name. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText, "logfmt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("log: unknown format %q", s)
	}
}

func (f Format) handler(w io.Writer, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch f {
	case "", FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	case FormatText:
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("log: unknown format %q", string(f))
	}
}

// LevelTrace sits below slog.LevelDebug for very chatty output.
const LevelTrace = slog.LevelDebug - 4

// verbosityLevels maps the numeric --verbosity scale to slog levels:
// 0=silent 1=error 2=warn 3=info 4=debug 5=trace.
var verbosityLevels = [...]slog.Level{
	slog.LevelError + 4,
	slog.LevelError,
	slog.LevelWarn,
	slog.LevelInfo,
	slog.LevelDebug,
	LevelTrace,
}

// ParseLevel parses a level name (trace, debug, info, warn, error, silent)
// or a numeric verbosity between 0 and 5. The match is case-insensitive.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(verbosityLevels) {
			return 0, fmt.Errorf("log: verbosity %d out of range 0-%d", n, len(verbosityLevels)-1)
		}
		return verbosityLevels[n], nil
	}
	switch s {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "silent", "off":
		return verbosityLevels[0], nil
	default:
		return 0, fmt.Errorf("log: unknown level %q", s)
	}
}
