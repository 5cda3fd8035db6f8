package trace

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rustgd/machinae"
)

// Recorder turns machine hooks into stamped journal entries. Sequence numbers
// are monotonic per recorder; the run identifier defaults to a UUIDv7 so
// journals from different runs never collide in a shared sink.
//
// Sink failures never reach the machine: they are logged, counted and the
// entry is dropped.
type Recorder struct {
	sink    Sink
	run     string
	now     func() time.Time
	logger  *slog.Logger
	seq     atomic.Int64
	dropped atomic.Int64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock sets the time source entries are stamped with. Tests pin it for
// deterministic journals.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRun overrides the generated run identifier.
func WithRun(id string) RecorderOption {
	return func(r *Recorder) {
		r.run = id
	}
}

// WithLogger sets the logger sink failures are reported to. The default
// discards everything.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecorder returns a recorder appending to sink.
func NewRecorder(sink Sink, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		sink:   sink,
		run:    uuid.Must(uuid.NewV7()).String(),
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run returns the identifier stamped on every entry.
func (r *Recorder) Run() string {
	return r.run
}

// Dropped returns how many entries failed to reach the sink.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Hooks returns the machine hooks that feed this recorder. Combine them with
// other hook sets via machinae.JoinHooks.
func (r *Recorder) Hooks() machinae.Hooks {
	return machinae.Hooks{
		OnStart:      r.lifecycle(KindStart),
		OnPause:      r.lifecycle(KindPause),
		OnResume:     r.lifecycle(KindResume),
		OnStop:       r.lifecycle(KindStop),
		OnTransition: r.transition,
	}
}

func (r *Recorder) lifecycle(kind Kind) func(machinae.StateEvent) {
	return func(e machinae.StateEvent) {
		r.append(Entry{Kind: kind, State: e.State, Depth: e.Depth})
	}
}

func (r *Recorder) transition(e machinae.TransitionEvent) {
	r.append(Entry{Kind: Kind(e.Op.String()), From: e.From, To: e.To, Depth: e.Depth})
}

func (r *Recorder) append(e Entry) {
	e.Seq = r.seq.Add(1)
	e.At = r.now()
	e.Run = r.run
	if err := r.sink.Append(context.Background(), e); err != nil {
		r.dropped.Add(1)
		r.logger.Error("trace append failed", "err", err, "seq", e.Seq, "kind", string(e.Kind))
	}
}
