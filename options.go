package machinae

import (
	"io"
	"log/slog"
)

type config struct {
	logger *slog.Logger
	hooks  Hooks
}

// Option configures a Machine at construction. Options are not generic, so
// call sites never spell type arguments for them.
type Option func(*config)

func defaultConfig() config {
	return config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the structured logger the machine writes transition debug
// lines to. The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers lifecycle hooks on the machine. Combine several hook
// sets with JoinHooks before passing them in.
func WithHooks(hooks Hooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}
