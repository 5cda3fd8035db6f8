package demo

import (
	"fmt"
	"time"

	"github.com/rustgd/machinae"
)

const (
	defaultHP = 3
	// Fixed ticks between waves, three seconds at 60 FPS.
	defaultWaveEvery = 180
)

const menuMarkdown = "# machinae\n\na tiny survival loop on a stack machine\n\n" +
	"- `start` begins a run\n- `quit` leaves"

const pausedMarkdown = "## paused\n\n- `resume` to continue\n- `quit` to leave"

const gameoverMarkdown = "# game over\n\nscore **%d**, survived %s\n\n" +
	"- `retry` for another run\n- `quit` back to the menu"

var (
	_ Screen = (*menu)(nil)
	_ Screen = (*playing)(nil)
	_ Screen = (*paused)(nil)
	_ Screen = (*gameover)(nil)
)

// menu is the entry screen and the bottom of the stack.
type menu struct {
	machinae.Base[*World, Input, Screen]
	settings Settings
}

func (*menu) StateName() string { return "menu" }

func (m *menu) Start(w *World) (machinae.Trans[Screen], error) {
	w.Show(menuMarkdown)
	return machinae.None[Screen](), nil
}

// Resume re-renders the menu when a run above it ends.
func (m *menu) Resume(w *World) {
	w.Show(menuMarkdown)
}

func (m *menu) Event(w *World, in Input) (machinae.Trans[Screen], error) {
	switch in {
	case InputStart:
		return machinae.Push[Screen](newPlaying(m.settings)), nil
	case InputQuit:
		return machinae.Quit[Screen](), nil
	default:
		return machinae.None[Screen](), nil
	}
}

// playing runs the survival simulation. Every waveEvery fixed ticks a wave
// hits and costs one hp; at zero hp the run switches to the game over
// screen in place.
type playing struct {
	machinae.Base[*World, Input, Screen]
	settings   Settings
	score      int
	hp         int
	waveEvery  int
	ticks      int
	dirty      bool
	startTotal time.Duration
}

func newPlaying(settings Settings) *playing {
	st := settings.withDefaults()
	return &playing{settings: settings, hp: st.HP, waveEvery: st.WaveEvery}
}

func (*playing) StateName() string { return "playing" }

func (p *playing) Start(w *World) (machinae.Trans[Screen], error) {
	p.startTotal = w.Total
	p.dirty = true
	w.logger().Debug("run started", "hp", p.hp)
	return machinae.None[Screen](), nil
}

func (p *playing) FixedUpdate(w *World) (machinae.Trans[Screen], error) {
	p.ticks++
	p.score++
	if p.waveEvery > 0 && p.ticks%p.waveEvery == 0 {
		p.hp--
		p.dirty = true
		w.logger().Debug("wave hit", "hp", p.hp, "score", p.score)
		if p.hp <= 0 {
			over := &gameover{settings: p.settings, score: p.score, survived: w.Total - p.startTotal}
			return machinae.Switch[Screen](over), nil
		}
	}
	return machinae.None[Screen](), nil
}

// Update redraws the HUD only when the simulation changed it.
func (p *playing) Update(w *World) (machinae.Trans[Screen], error) {
	if p.dirty {
		p.dirty = false
		w.Show(fmt.Sprintf("**hp %d** score %d", p.hp, p.score))
	}
	return machinae.None[Screen](), nil
}

func (p *playing) Event(w *World, in Input) (machinae.Trans[Screen], error) {
	switch in {
	case InputPause:
		return machinae.Push[Screen](&paused{}), nil
	case InputQuit:
		return machinae.Pop[Screen](), nil
	default:
		return machinae.None[Screen](), nil
	}
}

func (p *playing) Pause(w *World) {
	w.logger().Debug("run paused", "score", p.score)
}

func (p *playing) Resume(*World) {
	p.dirty = true
}

// paused sits on top of a run and freezes it; the simulation below gets no
// updates until the pop.
type paused struct {
	machinae.Base[*World, Input, Screen]
}

func (*paused) StateName() string { return "paused" }

func (p *paused) Start(w *World) (machinae.Trans[Screen], error) {
	w.Show(pausedMarkdown)
	return machinae.None[Screen](), nil
}

func (p *paused) Event(w *World, in Input) (machinae.Trans[Screen], error) {
	switch in {
	case InputResume:
		return machinae.Pop[Screen](), nil
	case InputQuit:
		return machinae.Quit[Screen](), nil
	default:
		return machinae.None[Screen](), nil
	}
}

// gameover replaces a finished run, keeping the menu below it.
type gameover struct {
	machinae.Base[*World, Input, Screen]
	settings Settings
	score    int
	survived time.Duration
}

func (*gameover) StateName() string { return "gameover" }

func (g *gameover) Start(w *World) (machinae.Trans[Screen], error) {
	w.Show(fmt.Sprintf(gameoverMarkdown, g.score, g.survived.Round(time.Millisecond)))
	return machinae.None[Screen](), nil
}

func (g *gameover) Event(w *World, in Input) (machinae.Trans[Screen], error) {
	switch in {
	case InputRetry:
		return machinae.Switch[Screen](newPlaying(g.settings)), nil
	case InputQuit:
		return machinae.Pop[Screen](), nil
	default:
		return machinae.None[Screen](), nil
	}
}
