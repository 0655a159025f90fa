// Package shlog sets up the shell's diagnostic logger, built on an
// embedded zerolog.Logger. It is strictly for internal tracing
// (lexer/executor/job-table state changes); user-visible shell output
// never goes through it.
package shlog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console logger writing to stderr. debug enables
// Debug()/Trace() level output; otherwise only Info and above surface,
// matching how a --log flag commonly gates verbosity.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.TraceLevel
	}
	zerolog.SetGlobalLevel(level)

	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	return zerolog.New(w).With().Timestamp().Logger()
}
