package runner_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rustgd/machinae"
	"github.com/rustgd/machinae/pkg/runner"
)

// fakeDriver records every call with the context value it received.
type fakeDriver struct {
	calls   []string
	halted  bool
	onStart func()

	startErr error
	fixedErr error
	eventErr error
	updErr   error
}

func (d *fakeDriver) Start(n int) error {
	d.calls = append(d.calls, fmt.Sprintf("start:%d", n))
	if d.onStart != nil {
		d.onStart()
	}
	return d.startErr
}

func (d *fakeDriver) Update(n int) error {
	d.calls = append(d.calls, fmt.Sprintf("update:%d", n))
	return d.updErr
}

func (d *fakeDriver) FixedUpdate(n int) error {
	d.calls = append(d.calls, fmt.Sprintf("fixed:%d", n))
	return d.fixedErr
}

func (d *fakeDriver) Event(n int, ev string) error {
	d.calls = append(d.calls, fmt.Sprintf("event:%d:%s", n, ev))
	return d.eventErr
}

func (d *fakeDriver) Running() bool { return !d.halted }

// newFrameLoop builds a loop whose context value is the frame number, and
// returns the captured frames for inspection.
func newFrameLoop(d *fakeDriver, opts ...runner.Option) (*runner.Loop[int, string], *[]runner.Frame) {
	frames := &[]runner.Frame{}
	mk := func(f runner.Frame) int {
		*frames = append(*frames, f)
		return int(f.Number)
	}
	return runner.New[int, string](d, mk, opts...), frames
}

func wantCalls(t *testing.T, d *fakeDriver, want ...string) {
	t.Helper()
	if !reflect.DeepEqual(d.calls, want) {
		t.Fatalf("calls mismatch\n got: %v\nwant: %v", d.calls, want)
	}
}

func TestTickRunsFixedAndUpdate(t *testing.T) {
	d := &fakeDriver{}
	loop, _ := newFrameLoop(d, runner.WithFixedStep(10*time.Millisecond))

	if err := loop.Tick(25 * time.Millisecond); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	wantCalls(t, d, "start:0", "fixed:1", "fixed:1", "update:1")

	// 5ms carried over in the accumulator plus 5ms here makes one step.
	d.calls = nil
	if err := loop.Tick(5 * time.Millisecond); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	wantCalls(t, d, "fixed:2", "update:2")

	if loop.Frames() != 2 {
		t.Fatalf("Frames() = %d, want 2", loop.Frames())
	}
}

func TestSendDeliversBeforeUpdates(t *testing.T) {
	d := &fakeDriver{}
	loop, _ := newFrameLoop(d, runner.WithFixedStep(10*time.Millisecond))

	if err := loop.Send("jump"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := loop.Send("duck"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	wantCalls(t, d) // nothing until the next frame

	if err := loop.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	wantCalls(t, d, "start:0", "event:1:jump", "event:1:duck", "fixed:1", "update:1")

	// The batch drains; the next frame sees no events.
	d.calls = nil
	if err := loop.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	wantCalls(t, d, "fixed:2", "update:2")
}

func TestSendQueueFull(t *testing.T) {
	loop, _ := newFrameLoop(&fakeDriver{}, runner.WithQueueCap(2))

	if err := loop.Send("a"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := loop.Send("b"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := loop.Send("c"); !errors.Is(err, runner.ErrQueueFull) {
		t.Fatalf("Send error = %v, want ErrQueueFull", err)
	}
}

func TestMaxFrameDeltaClamp(t *testing.T) {
	d := &fakeDriver{}
	loop, frames := newFrameLoop(d,
		runner.WithFixedStep(10*time.Millisecond),
		runner.WithMaxFrameDelta(30*time.Millisecond),
	)

	if err := loop.Tick(time.Second); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	wantCalls(t, d, "start:0", "fixed:1", "fixed:1", "fixed:1", "update:1")

	got := (*frames)[1]
	want := runner.Frame{Number: 1, Delta: 30 * time.Millisecond, Total: 30 * time.Millisecond, FixedSteps: 3}
	if got != want {
		t.Fatalf("frame = %+v, want %+v", got, want)
	}
}

func TestTickPropagatesDriverError(t *testing.T) {
	boom := errors.New("boom")
	d := &fakeDriver{updErr: boom}
	loop, _ := newFrameLoop(d, runner.WithFixedStep(10*time.Millisecond))

	if err := loop.Tick(10 * time.Millisecond); !errors.Is(err, boom) {
		t.Fatalf("Tick error = %v, want %v", err, boom)
	}
}

func TestHaltedDriverNoOps(t *testing.T) {
	d := &fakeDriver{halted: true}
	loop, _ := newFrameLoop(d)

	if err := loop.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	wantCalls(t, d)
	if loop.Frames() != 0 {
		t.Fatalf("Frames() = %d, want 0", loop.Frames())
	}
}

func TestStartRunsOnce(t *testing.T) {
	d := &fakeDriver{}
	loop, _ := newFrameLoop(d, runner.WithFixedStep(10*time.Millisecond))

	for i := 0; i < 3; i++ {
		if err := loop.Tick(10 * time.Millisecond); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}

	starts := 0
	for _, c := range d.calls {
		if c == "start:0" {
			starts++
		}
	}
	if starts != 1 {
		t.Fatalf("start calls = %d, want 1", starts)
	}
}

func TestStartMayHaltTheFrame(t *testing.T) {
	d := &fakeDriver{}
	d.onStart = func() { d.halted = true }
	loop, _ := newFrameLoop(d, runner.WithFixedStep(10*time.Millisecond))

	if err := loop.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	wantCalls(t, d, "start:0")
}

// countdown pops itself after limit fixed updates.
type countdown struct {
	machinae.Base[struct{}, string, *countdown]
	ticks, limit int
}

func (c *countdown) FixedUpdate(struct{}) (machinae.Trans[*countdown], error) {
	c.ticks++
	if c.ticks >= c.limit {
		return machinae.Pop[*countdown](), nil
	}
	return machinae.None[*countdown](), nil
}

func TestRunUntilMachineHalts(t *testing.T) {
	cd := &countdown{limit: 3}
	m := machinae.New[struct{}, string](cd)
	loop := runner.New[struct{}, string](m, nil, runner.WithFixedStep(time.Millisecond))

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cd.ticks != 3 {
		t.Fatalf("ticks = %d, want 3", cd.ticks)
	}
	if m.Running() {
		t.Fatal("machine still running after Run returned")
	}
}

type idle struct {
	machinae.Base[struct{}, string, *idle]
}

func TestRunStopsOnContextCancel(t *testing.T) {
	m := machinae.New[struct{}, string](&idle{})
	loop := runner.New[struct{}, string](m, nil, runner.WithFixedStep(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := loop.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run error = %v, want deadline exceeded", err)
	}
	if !m.Running() {
		t.Fatal("machine halted, want still running")
	}
}
