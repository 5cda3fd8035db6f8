/*
Package machinae is a minimal, generic, stack-based state machine driver for
real-time applications such as games.

The host defines state types implementing the State contract; the machine
keeps a stack of them, routes per-frame updates and external events to the
topmost (active) state, and applies the transition directives handlers return.
States below the top are paused but retained, so nested modes (gameplay, pause
menu, settings) unwind cleanly.

# Concept

The machine is parameterized over three types: C, the context value handed
into every lifecycle call (host resources such as a world or renderer,
typically a pointer); F, the event type the host forwards; and S, the state
representation. The machine never retains the context beyond the call it was
passed to.

Two strategies for S are first-class. Closed set: one concrete type enumerates
every state (a kind field plus data) and implements the contract once with an
exhaustive switch; dispatch is static and Push/Switch payloads move without
allocation. Open set: each state is its own type behind the Dyn interface;
dispatch is dynamic and the state set is extensible without a central enum.

# Key Features

  - Stack semantics: Push pauses the active state, Pop resumes the one below,
    Switch replaces in place, Quit unwinds everything.
  - Directives as values: handlers return Trans values, the machine applies
    them; chained directives are applied iteratively, never recursively.
  - First failure wins: a handler error aborts the chain and propagates to
    the host; applied mutations stay applied, there is no rollback.
  - Observability: optional Hooks feed trace journals, metrics collectors or
    anything else without touching state code.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/rustgd/machinae"
	)

	type World struct{ Frames int }

	type Input struct{ Key string }

	// Game is a closed set: one type for every state.
	type Game struct{ Mode string }

	func (g *Game) Start(w *World) (machinae.Trans[*Game], error) {
		fmt.Println("entering", g.Mode)
		return machinae.None[*Game](), nil
	}

	func (g *Game) Update(w *World) (machinae.Trans[*Game], error) {
		w.Frames++
		if w.Frames > 100 {
			return machinae.Quit[*Game](), nil
		}
		return machinae.None[*Game](), nil
	}

	func (g *Game) FixedUpdate(w *World) (machinae.Trans[*Game], error) {
		return machinae.None[*Game](), nil
	}

	func (g *Game) Event(w *World, in Input) (machinae.Trans[*Game], error) {
		if in.Key == "esc" {
			return machinae.Push(&Game{Mode: "paused"}), nil
		}
		return machinae.None[*Game](), nil
	}

	func (g *Game) Pause(w *World)  {}
	func (g *Game) Resume(w *World) {}
	func (g *Game) Stop(w *World)   {}

	func main() {
		world := &World{}
		m := machinae.New[*World, Input](&Game{Mode: "menu"})

		if err := m.Start(world); err != nil {
			log.Fatal(err)
		}
		for m.Running() {
			if err := m.Update(world); err != nil {
				log.Fatal(err)
			}
		}
	}

The pkg/runner package drives a machine with a fixed-timestep loop, pkg/trace
records lifecycle journals through hooks, and pkg/observability exports
Prometheus metrics from the same hooks.
*/
package machinae
