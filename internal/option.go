package internal

import (
	"io"

	"github.com/starford/ansuz/internal/state"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	store  state.Store
	out    io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore overrides the state store, bypassing the SQLite file. Used in
// tests to substitute an in-memory store.
func WithStore(st state.Store) Option {
	return func(a *application) {
		a.store = st
	}
}

// WithOutput redirects report output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}
