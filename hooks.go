package machinae

// StateEvent describes a lifecycle callback the machine just ran. Depth
// counts the stack including the state the event is about.
type StateEvent struct {
	// State is the reported name of the state (see Namer).
	State string
	// Depth is the stack depth when the event fired.
	Depth int
}

// TransitionEvent describes a stack mutation the machine just applied.
type TransitionEvent struct {
	// Op is the applied operation: OpPush, OpPop, OpSwitch or OpQuit.
	Op Op
	// From is the state that was active before the mutation.
	From string
	// To is the state that is active after the mutation. Empty when the
	// mutation emptied the stack.
	To string
	// Depth is the stack depth after the mutation.
	Depth int
}

// Hooks observes machine activity. All callbacks are optional; nil callbacks
// are simply not called. The zero value observes nothing.
//
// Lifecycle callbacks fire after the corresponding state method returns
// (after Start additionally only when it returned no error). OnTransition
// fires after the stack mutation completed; None directives emit nothing.
// Callbacks run synchronously on the machine's goroutine and must not call
// back into the machine.
type Hooks struct {
	// OnStart fires after a state's Start handler succeeded.
	OnStart func(StateEvent)
	// OnPause fires after a state was paused by a push.
	OnPause func(StateEvent)
	// OnResume fires after a state was resumed by a pop.
	OnResume func(StateEvent)
	// OnStop fires after a state's Stop callback ran.
	OnStop func(StateEvent)
	// OnTransition fires after a push, pop, switch or quit was applied.
	OnTransition func(TransitionEvent)
}

// JoinHooks combines several hook sets into one that fans every event out in
// argument order. Useful to feed a trace recorder and a metrics collector
// from the same machine.
func JoinHooks(hooks ...Hooks) Hooks {
	var joined Hooks
	for _, h := range hooks {
		joined.OnStart = chainState(joined.OnStart, h.OnStart)
		joined.OnPause = chainState(joined.OnPause, h.OnPause)
		joined.OnResume = chainState(joined.OnResume, h.OnResume)
		joined.OnStop = chainState(joined.OnStop, h.OnStop)
		joined.OnTransition = chainTransition(joined.OnTransition, h.OnTransition)
	}
	return joined
}

func chainState(a, b func(StateEvent)) func(StateEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e StateEvent) {
		a(e)
		b(e)
	}
}

func chainTransition(a, b func(TransitionEvent)) func(TransitionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e TransitionEvent) {
		a(e)
		b(e)
	}
}
