// Package logging builds the structured logger shared by all components.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the level, format and destination of log output.
type Options struct {
	Level  string // debug, info, warn, error; empty means info
	Format string // text or json; empty means text
	File   string // empty means stderr; os.DevNull discards
}

// New builds a logger from options. Unparseable options fall back to the
// defaults and the fallback is reported through the resulting logger.
// The closer releases the log file, if one was opened.
func New(options Options) (*slog.Logger, io.Closer) {
	return NewWithWriter(options, os.Stderr)
}

// NewWithWriter is New with an explicit default destination.
func NewWithWriter(options Options, stderr io.Writer) (*slog.Logger, io.Closer) {
	var warnings []string

	level, ok := parseLevel(options.Level)
	if !ok {
		warnings = append(warnings, "could not parse log level "+options.Level)
	}
	opts := slog.HandlerOptions{Level: level}

	var output io.Writer
	var closer io.Closer = nopCloser{}
	switch options.File {
	case "":
		output = stderr
	case os.DevNull:
		return slog.New(slog.DiscardHandler), closer
	default:
		f, err := os.OpenFile(options.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			output = stderr
			warnings = append(warnings, "could not open log file: "+err.Error())
		} else {
			output = f
			closer = f
		}
	}

	var handler slog.Handler
	switch strings.ToLower(options.Format) {
	case "", "text":
		handler = slog.NewTextHandler(output, &opts)
	case "json":
		handler = slog.NewJSONHandler(output, &opts)
	default:
		handler = slog.NewTextHandler(output, &opts)
		warnings = append(warnings, "could not parse log format "+options.Format)
	}

	logger := slog.New(handler)
	for _, w := range warnings {
		logger.Warn(w)
	}
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel converts a level name to an slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	l, _ := parseLevel(level)
	return l
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, true
	case "debug":
		return slog.LevelDebug, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
