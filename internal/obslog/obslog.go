// Package obslog centralizes the zerolog configuration shared by the
// worker pool and the component cache: both log structured events
// (size changes, evictions, panics) without owning their own logger
// setup.
package obslog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Logger returns the shared console logger, configured once on first
// use.
func Logger() zerolog.Logger {
	once.Do(func() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			With().Timestamp().Logger()
	})
	return logger
}

// Named returns the shared logger tagged with a component name.
func Named(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}
