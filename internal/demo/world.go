package demo

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rustgd/machinae/internal/logging"
)

// World is the per-frame context handed to every screen. The runner rebuilds
// it each frame with fresh timing; Out, Render and Logger are carried over.
type World struct {
	Frame uint64
	Delta time.Duration
	Total time.Duration

	// Out receives screen output. Defaults to os.Stdout.
	Out io.Writer
	// Render turns markdown into terminal output. Nil prints it raw.
	Render func(string) (string, error)
	// Logger receives screen debug logs. Nil discards them.
	Logger *slog.Logger
}

// Show renders markdown to the world's output.
func (w *World) Show(markdown string) {
	out := w.Out
	if out == nil {
		out = os.Stdout
	}
	if w.Render != nil {
		if s, err := w.Render(markdown); err == nil {
			fmt.Fprint(out, s)
			return
		}
	}
	fmt.Fprintln(out, markdown)
}

func (w *World) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return logging.NewNop()
}
