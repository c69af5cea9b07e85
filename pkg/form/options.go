package form

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-formkit/pkg/validation"
)

// Observer receives the form state after every mutation.
type Observer func(Snapshot)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to logger. Engines are silent by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers an observer at construction time. See
// Engine.Subscribe for the delivery contract.
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		if fn != nil {
			e.subscribe(fn)
		}
	}
}

// WithValidator shares a pattern cache between engines bound to the same
// schema, which saves recompiling patterns per request.
func WithValidator(cache *validation.Cache) Option {
	return func(e *Engine) {
		if cache != nil {
			e.validator = cache
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
