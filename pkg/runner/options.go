package runner

import "time"

// DefaultFixedStep is the fixed update interval when none is configured,
// one step per frame at 60 FPS.
const DefaultFixedStep = 16667 * time.Microsecond

// DefaultMaxFrameDelta caps how much wall-clock time a single frame may
// consume from the accumulator.
const DefaultMaxFrameDelta = 250 * time.Millisecond

// DefaultQueueCap is the event queue capacity when none is configured.
const DefaultQueueCap = 1000

type config struct {
	fixedStep time.Duration
	maxDelta  time.Duration
	queueCap  int
}

func defaultConfig() config {
	return config{
		fixedStep: DefaultFixedStep,
		maxDelta:  DefaultMaxFrameDelta,
		queueCap:  DefaultQueueCap,
	}
}

// Option configures a Loop.
type Option func(*config)

// WithFixedStep sets the fixed update interval. Values below one millisecond
// are ignored.
func WithFixedStep(d time.Duration) Option {
	return func(c *config) {
		if d >= time.Millisecond {
			c.fixedStep = d
		}
	}
}

// WithMaxFrameDelta sets the per-frame wall-clock clamp.
func WithMaxFrameDelta(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.maxDelta = d
		}
	}
}

// WithQueueCap sets the event queue capacity.
func WithQueueCap(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueCap = n
		}
	}
}
