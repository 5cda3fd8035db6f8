package machinae

// Op identifies the operation a transition directive performs on the state
// stack.
type Op uint8

const (
	// OpNone leaves the stack untouched.
	OpNone Op = iota
	// OpPush pauses the active state and stacks a new one on top of it.
	OpPush
	// OpPop removes the active state and resumes the one below.
	OpPop
	// OpSwitch replaces the active state in place.
	OpSwitch
	// OpQuit stops every stacked state and halts the machine.
	OpQuit
)

// String returns the lowercase name of the operation, as used in logs and
// trace journals.
func (o Op) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpPush:
		return "push"
	case OpPop:
		return "pop"
	case OpSwitch:
		return "switch"
	case OpQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Trans is a transition directive. State handlers return one to tell the
// machine what to do with the stack; the machine applies it, states never
// mutate the stack themselves.
//
// Trans is a plain value parameterized over the state representation S, so
// closed-set machines move Push and Switch payloads without boxing or
// allocation. The zero value is None.
type Trans[S any] struct {
	op   Op
	next S
}

// None keeps the current state active.
func None[S any]() Trans[S] {
	return Trans[S]{op: OpNone}
}

// Push pauses the current state and makes next the active state.
func Push[S any](next S) Trans[S] {
	return Trans[S]{op: OpPush, next: next}
}

// Pop stops and removes the current state, resuming the state below it.
// Popping the last state halts the machine.
func Pop[S any]() Trans[S] {
	return Trans[S]{op: OpPop}
}

// Switch stops the current state and replaces it with next in the same stack
// slot. States below are neither paused nor resumed.
func Switch[S any](next S) Trans[S] {
	return Trans[S]{op: OpSwitch, next: next}
}

// Quit stops every stacked state from top to bottom and halts the machine.
func Quit[S any]() Trans[S] {
	return Trans[S]{op: OpQuit}
}

// Op returns the directive's operation tag.
func (t Trans[S]) Op() Op {
	return t.op
}

// Next returns the payload state carried by Push and Switch directives. The
// second return is false for every other operation.
func (t Trans[S]) Next() (S, bool) {
	if t.op == OpPush || t.op == OpSwitch {
		return t.next, true
	}
	var zero S
	return zero, false
}
