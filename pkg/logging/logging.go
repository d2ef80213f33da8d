// Package logging owns the zerolog logger shared by energy-ledger. Reports are
// written to stdout by the caller; log lines go to the writer chosen in Setup
// so the two streams never mix.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Config selects level, format and destination of log output.
type Config struct {
	// Debug lowers the level from info to debug.
	Debug bool
	// Human switches to zerolog's console format and adds humanized
	// companion fields (loaded_h, bytes_h, duration_h) to completion events.
	Human bool
	// Out receives log lines; nil means stderr.
	Out io.Writer
}

var (
	logger *zerolog.Logger
	pretty bool
)

func init() {
	Setup(Config{})
}

// Setup replaces the global logger according to cfg.
func Setup(cfg Config) {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	pretty = cfg.Human

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Human {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: cfg.Out != nil}
	}

	l := zerolog.New(out).With().Timestamp().Logger()
	logger = &l
}

// L returns the global logger.
func L() *zerolog.Logger {
	return logger
}

// WithComponent returns a child logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// SetLogger installs l as the global logger without touching the level.
func SetLogger(l zerolog.Logger) {
	logger = &l
}

// IsPrettyMode reports whether humanized fields are enabled.
func IsPrettyMode() bool {
	return pretty
}
