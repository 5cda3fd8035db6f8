package runner

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrQueueFull is returned by Send when the event queue is at capacity.
var ErrQueueFull = errors.New("runner: event queue full")

// Driver is the machine surface the loop drives. Update and FixedUpdate run
// every frame; Event delivers one queued event. A *machinae.Machine satisfies
// Driver for matching C and F.
type Driver[C, F any] interface {
	Start(ctx C) error
	Update(ctx C) error
	FixedUpdate(ctx C) error
	Event(ctx C, ev F) error
	Running() bool
}

// Frame describes one loop iteration. Delta is the clamped wall-clock step,
// Total the sum of all deltas so far, and FixedSteps the number of fixed
// updates the frame will execute.
type Frame struct {
	Number     uint64
	Delta      time.Duration
	Total      time.Duration
	FixedSteps int
}

// Loop schedules a Driver at a fixed timestep. Send is safe from any
// goroutine; Tick and Run must stay on a single goroutine, matching the
// machine's own threading contract.
type Loop[C, F any] struct {
	driver  Driver[C, F]
	makeCtx func(Frame) C
	cfg     config

	mu      sync.Mutex
	pending []F

	started bool
	frame   Frame
	acc     time.Duration
}

// New creates a Loop around driver. makeCtx builds the context value handed
// to the driver each frame; nil makeCtx yields the zero value of C.
func New[C, F any](driver Driver[C, F], makeCtx func(Frame) C, opts ...Option) *Loop[C, F] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if makeCtx == nil {
		makeCtx = func(Frame) C {
			var zero C
			return zero
		}
	}
	return &Loop[C, F]{
		driver:  driver,
		makeCtx: makeCtx,
		cfg:     cfg,
		pending: make([]F, 0, cfg.queueCap),
	}
}

// Send queues an event for delivery at the start of the next frame.
func (l *Loop[C, F]) Send(ev F) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) >= l.cfg.queueCap {
		return ErrQueueFull
	}
	l.pending = append(l.pending, ev)
	return nil
}

// Frames reports how many frames have run. Loop goroutine only.
func (l *Loop[C, F]) Frames() uint64 { return l.frame.Number }

// Tick advances the loop by dt: queued events first, then the fixed updates
// dt has accrued, then one variable update. dt is clamped to the maximum
// frame delta so a stall cannot trigger a catch-up burst. Tick is a no-op
// once the driver has halted.
func (l *Loop[C, F]) Tick(dt time.Duration) error {
	if !l.driver.Running() {
		return nil
	}
	if err := l.ensureStarted(); err != nil {
		return err
	}
	if !l.driver.Running() {
		return nil
	}

	if dt < 0 {
		dt = 0
	}
	if dt > l.cfg.maxDelta {
		dt = l.cfg.maxDelta
	}
	l.acc += dt

	steps := int(l.acc / l.cfg.fixedStep)
	l.acc -= time.Duration(steps) * l.cfg.fixedStep

	l.frame.Number++
	l.frame.Delta = dt
	l.frame.Total += dt
	l.frame.FixedSteps = steps
	c := l.makeCtx(l.frame)

	for _, ev := range l.collect() {
		if err := l.driver.Event(c, ev); err != nil {
			return err
		}
	}
	for i := 0; i < steps; i++ {
		if err := l.driver.FixedUpdate(c); err != nil {
			return err
		}
	}
	return l.driver.Update(c)
}

// Run paces Tick with a ticker at the fixed step until the driver halts, the
// context is cancelled, or a frame fails.
func (l *Loop[C, F]) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.fixedStep)
	defer ticker.Stop()

	last := time.Now()
	for l.driver.Running() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := l.Tick(now.Sub(last)); err != nil {
				return err
			}
			last = now
		}
	}
	return nil
}

func (l *Loop[C, F]) ensureStarted() error {
	if l.started {
		return nil
	}
	l.started = true
	return l.driver.Start(l.makeCtx(l.frame))
}

// collect atomically swaps out the pending batch so Send never blocks on a
// frame in progress.
func (l *Loop[C, F]) collect() []F {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.pending
	l.pending = make([]F, 0, cap(l.pending))
	return events
}
