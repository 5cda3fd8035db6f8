package machinae

import "log/slog"

// Machine drives a stack of states. The topmost state is active: it receives
// every Update, FixedUpdate and Event call and decides, through the directive
// it returns, how the stack changes. States below the top stay paused until
// everything above them is popped off.
//
// A machine is running from construction until a Quit directive, a
// host-initiated Stop, or the pop of the last state. It is single-threaded;
// hosts that share one across goroutines must synchronize externally.
type Machine[C, F any, S State[C, F, S]] struct {
	stack   []S
	running bool
	logger  *slog.Logger
	hooks   Hooks
}

// New returns a machine whose stack holds initial as its only state. The
// initial state's Start handler is not called here; call Machine.Start once
// before the update loop.
func New[C, F any, S State[C, F, S]](initial S, opts ...Option) *Machine[C, F, S] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Machine[C, F, S]{
		stack:   []S{initial},
		running: true,
		logger:  cfg.logger,
		hooks:   cfg.hooks,
	}
}

// DynMachine is a machine over the open-set state representation.
type DynMachine[C, F any] = Machine[C, F, Dyn[C, F]]

// NewDyn returns a machine over Dyn states. It exists so open-set hosts spell
// two type arguments instead of three.
func NewDyn[C, F any](initial Dyn[C, F], opts ...Option) *DynMachine[C, F] {
	return New[C, F](initial, opts...)
}

// Running reports whether the machine still has live states. It returns
// false only after a Quit directive, a Stop call, or the pop of the last
// state.
func (m *Machine[C, F, S]) Running() bool {
	return m.running
}

// Depth returns the number of stacked states.
func (m *Machine[C, F, S]) Depth() int {
	return len(m.stack)
}

// Start runs the active state's Start handler and applies the directive it
// returns. Hosts call it exactly once, before the first Update. Calling it
// again re-runs the then-active state's Start handler.
//
// No-op on a machine that is not running.
func (m *Machine[C, F, S]) Start(ctx C) error {
	if !m.running || len(m.stack) == 0 {
		return nil
	}
	tr, err := m.top().Start(ctx)
	if err != nil {
		return err
	}
	m.hookState(m.hooks.OnStart, m.top())
	return m.apply(ctx, tr)
}

// Update forwards a frame tick to the active state and applies the directive
// it returns. No-op success on a machine that is not running.
func (m *Machine[C, F, S]) Update(ctx C) error {
	if !m.running || len(m.stack) == 0 {
		return nil
	}
	tr, err := m.top().Update(ctx)
	if err != nil {
		return err
	}
	return m.apply(ctx, tr)
}

// FixedUpdate forwards a fixed-cadence tick to the active state and applies
// the directive it returns. No-op success on a machine that is not running.
func (m *Machine[C, F, S]) FixedUpdate(ctx C) error {
	if !m.running || len(m.stack) == 0 {
		return nil
	}
	tr, err := m.top().FixedUpdate(ctx)
	if err != nil {
		return err
	}
	return m.apply(ctx, tr)
}

// Event forwards an external event to the active state and applies the
// directive it returns. No-op success on a machine that is not running.
func (m *Machine[C, F, S]) Event(ctx C, ev F) error {
	if !m.running || len(m.stack) == 0 {
		return nil
	}
	tr, err := m.top().Event(ctx, ev)
	if err != nil {
		return err
	}
	return m.apply(ctx, tr)
}

// Stop shuts the machine down from the host side: every stacked state is
// stopped from top to bottom, the stack is cleared and the machine is no
// longer running. Idempotent; stopping a stopped machine does nothing.
func (m *Machine[C, F, S]) Stop(ctx C) {
	if !m.running {
		return
	}
	m.quit(ctx)
}

// apply executes a directive and every directive chained off it. The loop is
// iterative so an unbounded push or switch chain cannot overflow the call
// stack. The first handler error aborts the chain; mutations already applied
// stay applied.
func (m *Machine[C, F, S]) apply(ctx C, tr Trans[S]) error {
	for {
		switch tr.op {
		case OpNone:
			return nil

		case OpPush:
			below := m.top()
			below.Pause(ctx)
			m.hookState(m.hooks.OnPause, below)
			m.stack = append(m.stack, tr.next)
			m.hookTransition(OpPush, stateName(below), stateName(tr.next))
			next, err := m.top().Start(ctx)
			if err != nil {
				return err
			}
			m.hookState(m.hooks.OnStart, m.top())
			tr = next

		case OpPop:
			popped := m.top()
			popped.Stop(ctx)
			m.hookState(m.hooks.OnStop, popped)
			m.discardTop()
			if len(m.stack) == 0 {
				m.running = false
				m.hookTransition(OpPop, stateName(popped), "")
				return nil
			}
			m.hookTransition(OpPop, stateName(popped), stateName(m.top()))
			m.top().Resume(ctx)
			m.hookState(m.hooks.OnResume, m.top())
			return nil

		case OpSwitch:
			replaced := m.top()
			replaced.Stop(ctx)
			m.hookState(m.hooks.OnStop, replaced)
			m.stack[len(m.stack)-1] = tr.next
			m.hookTransition(OpSwitch, stateName(replaced), stateName(tr.next))
			next, err := m.top().Start(ctx)
			if err != nil {
				return err
			}
			m.hookState(m.hooks.OnStart, m.top())
			tr = next

		case OpQuit:
			m.quit(ctx)
			return nil

		default:
			return nil
		}
	}
}

// quit stops every stacked state from top to bottom, clears the stack and
// halts the machine.
func (m *Machine[C, F, S]) quit(ctx C) {
	from := stateName(m.top())
	for len(m.stack) > 0 {
		top := m.top()
		top.Stop(ctx)
		m.hookState(m.hooks.OnStop, top)
		m.discardTop()
	}
	m.running = false
	m.hookTransition(OpQuit, from, "")
}

func (m *Machine[C, F, S]) top() S {
	return m.stack[len(m.stack)-1]
}

// discardTop removes the top entry and zeroes its slot so popped states do
// not linger behind the slice's capacity.
func (m *Machine[C, F, S]) discardTop() {
	var zero S
	m.stack[len(m.stack)-1] = zero
	m.stack = m.stack[:len(m.stack)-1]
}

func (m *Machine[C, F, S]) hookState(cb func(StateEvent), s S) {
	if cb == nil {
		return
	}
	cb(StateEvent{State: stateName(s), Depth: len(m.stack)})
}

func (m *Machine[C, F, S]) hookTransition(op Op, from, to string) {
	m.logger.Debug("transition", "op", op.String(), "from", from, "to", to, "depth", len(m.stack))
	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(TransitionEvent{Op: op, From: from, To: to, Depth: len(m.stack)})
	}
}
