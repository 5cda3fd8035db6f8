// Package scenario loads scripted demo sessions from YAML. A script carries
// run settings plus timed inputs that are replayed into the loop, which makes
// demo runs reproducible without a player at the keyboard.
package scenario

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/rustgd/machinae/internal/demo"
)

// Script is a parsed scenario.
type Script struct {
	Name     string
	Settings demo.Settings
	Steps    []Step
}

// Step schedules one input at an offset from run start.
type Step struct {
	At    time.Duration
	Input demo.Input
}

type rawScript struct {
	Name     string         `yaml:"name"`
	Settings map[string]any `yaml:"settings"`
	Steps    []rawStep      `yaml:"steps"`
}

type rawStep struct {
	At    string `yaml:"at"`
	Input string `yaml:"input"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse validates scenario YAML. Steps must be ordered by offset and name
// known inputs; unknown settings keys are rejected rather than ignored.
func Parse(data []byte) (*Script, error) {
	var raw rawScript
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	script := &Script{Name: raw.Name}

	if raw.Settings != nil {
		var meta mapstructure.Metadata
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Metadata: &meta,
			Result:   &script.Settings,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build settings decoder: %w", err)
		}
		if err := dec.Decode(raw.Settings); err != nil {
			return nil, fmt.Errorf("invalid settings: %w", err)
		}
		if len(meta.Unused) > 0 {
			return nil, fmt.Errorf("unknown settings: %v", meta.Unused)
		}
	}

	last := time.Duration(-1)
	for i, rs := range raw.Steps {
		step, err := parseStep(rs)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.At < last {
			return nil, fmt.Errorf("step %d: at %s precedes the previous step", i+1, step.At)
		}
		last = step.At
		script.Steps = append(script.Steps, step)
	}

	return script, nil
}

func parseStep(rs rawStep) (Step, error) {
	var step Step
	if rs.At != "" {
		at, err := time.ParseDuration(rs.At)
		if err != nil {
			return step, fmt.Errorf("invalid at: %w", err)
		}
		if at < 0 {
			return step, fmt.Errorf("negative at %s", at)
		}
		step.At = at
	}
	in, err := demo.ParseInput(rs.Input)
	if err != nil {
		return step, err
	}
	step.Input = in
	return step, nil
}

// Player replays a script's steps in order.
type Player struct {
	steps []Step
	next  int
}

// NewPlayer positions a player at the first step.
func NewPlayer(s *Script) *Player {
	return &Player{steps: s.Steps}
}

// Due returns the inputs scheduled at or before elapsed, in order. Each step
// is returned once.
func (p *Player) Due(elapsed time.Duration) []demo.Input {
	var due []demo.Input
	for p.next < len(p.steps) && p.steps[p.next].At <= elapsed {
		due = append(due, p.steps[p.next].Input)
		p.next++
	}
	return due
}

// Done reports whether every step has been replayed.
func (p *Player) Done() bool {
	return p.next >= len(p.steps)
}
