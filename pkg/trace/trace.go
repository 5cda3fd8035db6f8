// Package trace records machine lifecycle journals. A Recorder subscribes to
// machine hooks, stamps every event with a sequence number, a timestamp and a
// run identifier, and appends it to a Sink. Sinks live under pkg/adapters.
package trace

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by sinks once Close has run.
var ErrClosed = errors.New("trace: sink closed")

// Kind classifies a journal entry: the four lifecycle callbacks plus the four
// stack mutations.
type Kind string

const (
	KindStart  Kind = "start"
	KindPause  Kind = "pause"
	KindResume Kind = "resume"
	KindStop   Kind = "stop"
	KindPush   Kind = "push"
	KindPop    Kind = "pop"
	KindSwitch Kind = "switch"
	KindQuit   Kind = "quit"
)

// Entry is a single journal record. Lifecycle entries carry State; mutation
// entries carry From and To. The flat shape keeps one entry one JSON line.
type Entry struct {
	Seq   int64     `json:"seq"`
	At    time.Time `json:"at"`
	Run   string    `json:"run,omitempty"`
	Kind  Kind      `json:"kind"`
	State string    `json:"state,omitempty"`
	From  string    `json:"from,omitempty"`
	To    string    `json:"to,omitempty"`
	Depth int       `json:"depth"`
}

// Sink persists journal entries. Append is called synchronously on the
// machine's goroutine, so implementations should return quickly; Append after
// Close returns an error.
type Sink interface {
	Append(ctx context.Context, e Entry) error
	Close() error
}
