// Package log provides the structured logger shared by the library and its
// command-line tools.
//
// The logger is zerolog-backed so the typed errors in pkg/errors, which
// implement zerolog.LogObjectMarshaler, render as structured fields rather
// than flattened strings.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
)

// Setup configures the global logger level. Accepted levels are the zerolog
// names: trace, debug, info, warn, error, fatal, panic.
func Setup(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(lvl)
	return nil
}

// SetOutput redirects the global logger, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Output(w)
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a child logger carrying the given component name.
func With(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}
