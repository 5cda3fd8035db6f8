package machinae_test

import (
	"testing"

	"github.com/rustgd/machinae"
)

// dynState shortens the open-set representation used in these tests.
type dynState = machinae.Dyn[*callLog, string]

// lobby and match are separate types behind the same Dyn interface, each
// overriding only the methods it needs on top of Base.
type lobby struct {
	machinae.Base[*callLog, string, dynState]
}

func (*lobby) StateName() string { return "lobby" }

func (*lobby) Event(l *callLog, ev string) (machinae.Trans[dynState], error) {
	l.add("lobby.event:" + ev)
	switch ev {
	case "play":
		return machinae.Push[dynState](&match{}), nil
	case "exit":
		return machinae.Quit[dynState](), nil
	}
	return machinae.None[dynState](), nil
}

func (*lobby) Pause(l *callLog)  { l.add("lobby.pause") }
func (*lobby) Resume(l *callLog) { l.add("lobby.resume") }
func (*lobby) Stop(l *callLog)   { l.add("lobby.stop") }

type match struct {
	machinae.Base[*callLog, string, dynState]
	ticks int
}

func (*match) StateName() string { return "match" }

func (*match) Start(l *callLog) (machinae.Trans[dynState], error) {
	l.add("match.start")
	return machinae.None[dynState](), nil
}

func (m *match) FixedUpdate(l *callLog) (machinae.Trans[dynState], error) {
	m.ticks++
	if m.ticks >= 3 {
		l.add("match.done")
		return machinae.Pop[dynState](), nil
	}
	return machinae.None[dynState](), nil
}

func (*match) Stop(l *callLog) { l.add("match.stop") }

var (
	_ dynState = (*lobby)(nil)
	_ dynState = (*match)(nil)
)

func TestDynMachine(t *testing.T) {
	log := &callLog{}
	m := machinae.NewDyn[*callLog, string](&lobby{})

	if err := m.Start(log); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Event(log, "play"); err != nil {
		t.Fatalf("Event(play) failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := m.FixedUpdate(log); err != nil {
			t.Fatalf("FixedUpdate %d failed: %v", i, err)
		}
	}
	if err := m.Event(log, "exit"); err != nil {
		t.Fatalf("Event(exit) failed: %v", err)
	}

	wantCalls(t, log,
		"lobby.event:play", "lobby.pause", "match.start",
		"match.done", "match.stop", "lobby.resume",
		"lobby.event:exit", "lobby.stop",
	)
	if m.Running() {
		t.Fatal("machine should be halted after exit")
	}
}

func TestDynBaseDefaults(t *testing.T) {
	log := &callLog{}

	// Base supplies the whole contract; lobby never defines Update.
	var m *machinae.DynMachine[*callLog, string] = machinae.NewDyn[*callLog, string](&lobby{})
	if err := m.Start(log); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Update(log); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	wantCalls(t, log)
	if !m.Running() {
		t.Fatal("machine should still be running")
	}
}
