package internal

import (
	"io"

	"github.com/starford/kenaz-distill/internal/llm"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	out      io.Writer
	logOut   io.Writer
	provider llm.Provider
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where user-facing results are written.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithLogOutput sets where log records are written.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithProvider replaces the completion provider built from the LLM config.
func WithProvider(p llm.Provider) Option {
	return func(a *application) {
		a.provider = p
	}
}
