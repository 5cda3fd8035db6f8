package machinae

// State is the lifecycle contract a machine state implements. C is the
// context type handed into every call, F the event type forwarded from the
// host, and S the state representation the machine stacks (the implementing
// type itself for closed sets, Dyn for open sets).
//
// The four handler methods return a directive and an error; on error the
// directive is ignored and the error propagates to the host. The three
// callback methods cannot fail.
type State[C, F, S any] interface {
	// Start runs when the state becomes active: on machine start and after
	// the state is pushed or switched in.
	Start(ctx C) (Trans[S], error)
	// Update runs once per frame while the state is active.
	Update(ctx C) (Trans[S], error)
	// FixedUpdate runs on a fixed cadence independent of the frame rate.
	FixedUpdate(ctx C) (Trans[S], error)
	// Event receives an input forwarded by the host while the state is
	// active.
	Event(ctx C, ev F) (Trans[S], error)
	// Pause runs when another state is pushed on top of this one.
	Pause(ctx C)
	// Resume runs when the state above is popped and this one becomes
	// active again.
	Resume(ctx C)
	// Stop runs when the state is removed from the stack.
	Stop(ctx C)
}

// Dyn is the open-set state representation: any type whose methods match the
// contract below can be stacked without registering it anywhere. Push and
// Switch payloads are interface values, so each state lives in its own type
// at the cost of dynamic dispatch. Closed sets should implement State against
// a concrete S instead.
type Dyn[C, F any] interface {
	// Start runs when the state becomes active. See State.
	Start(ctx C) (Trans[Dyn[C, F]], error)
	// Update runs once per frame while the state is active.
	Update(ctx C) (Trans[Dyn[C, F]], error)
	// FixedUpdate runs on a fixed cadence independent of the frame rate.
	FixedUpdate(ctx C) (Trans[Dyn[C, F]], error)
	// Event receives an input forwarded by the host.
	Event(ctx C, ev F) (Trans[Dyn[C, F]], error)
	// Pause runs when another state is pushed on top of this one.
	Pause(ctx C)
	// Resume runs when this state becomes active again.
	Resume(ctx C)
	// Stop runs when the state is removed from the stack.
	Stop(ctx C)
}

// Base provides no-op defaults for the whole contract: handlers return None
// with a nil error, callbacks do nothing. Embed it so a state only spells out
// the methods it cares about:
//
//	type title struct {
//		machinae.Base[*World, Input, machinae.Dyn[*World, Input]]
//	}
type Base[C, F, S any] struct{}

// Start returns None.
func (Base[C, F, S]) Start(C) (Trans[S], error) { return None[S](), nil }

// Update returns None.
func (Base[C, F, S]) Update(C) (Trans[S], error) { return None[S](), nil }

// FixedUpdate returns None.
func (Base[C, F, S]) FixedUpdate(C) (Trans[S], error) { return None[S](), nil }

// Event returns None.
func (Base[C, F, S]) Event(C, F) (Trans[S], error) { return None[S](), nil }

// Pause does nothing.
func (Base[C, F, S]) Pause(C) {}

// Resume does nothing.
func (Base[C, F, S]) Resume(C) {}

// Stop does nothing.
func (Base[C, F, S]) Stop(C) {}
