// Package demo ships the interactive survival loop behind the machinae CLI.
// Four screens (menu, playing, paused, game over) share one stack machine and
// between them exercise every transition directive.
package demo

import (
	"fmt"

	"github.com/rustgd/machinae"
)

// Input is a player action delivered to the active screen.
type Input string

const (
	InputStart  Input = "start"
	InputPause  Input = "pause"
	InputResume Input = "resume"
	InputRetry  Input = "retry"
	InputQuit   Input = "quit"
)

// ParseInput resolves a player action name, as typed at the terminal or
// written in a scenario script.
func ParseInput(name string) (Input, error) {
	switch in := Input(name); in {
	case InputStart, InputPause, InputResume, InputRetry, InputQuit:
		return in, nil
	default:
		return "", fmt.Errorf("unknown input %q (want start, pause, resume, retry or quit)", name)
	}
}

// Screen is the dynamic state contract all demo screens implement.
type Screen = machinae.Dyn[*World, Input]

// Settings tune a run. The zero value selects the defaults.
type Settings struct {
	HP        int `yaml:"hp" mapstructure:"hp"`
	WaveEvery int `yaml:"wave_every" mapstructure:"wave_every"`
}

func (s Settings) withDefaults() Settings {
	if s.HP <= 0 {
		s.HP = defaultHP
	}
	if s.WaveEvery <= 0 {
		s.WaveEvery = defaultWaveEvery
	}
	return s
}

// New builds the demo machine sitting at the main menu.
func New(settings Settings, opts ...machinae.Option) *machinae.DynMachine[*World, Input] {
	return machinae.NewDyn[*World, Input](&menu{settings: settings}, opts...)
}
