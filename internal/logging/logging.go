// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where logs go.
type Options struct {
	Level string

	// File receives JSON logs. Used while the TUI owns the terminal.
	File string

	// Console, when set, writes human-readable logs there instead.
	Console io.Writer
}

// ParseLevel maps a config level name to a zerolog level. Empty means
// info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// New returns a logger and a close function for its output.
func New(opts Options) (zerolog.Logger, func() error, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), noop, err
	}

	var (
		out     io.Writer
		closeFn = noop
	)
	switch {
	case opts.Console != nil:
		out = zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.Kitchen}
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	default:
		return zerolog.Nop(), noop, nil
	}

	logger := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return logger, closeFn, nil
}

func noop() error { return nil }
