package machinae_test

import (
	"testing"

	"github.com/rustgd/machinae"
)

func TestTransConstructors(t *testing.T) {
	next := &probe{name: "next"}

	cases := []struct {
		name     string
		tr       machinae.Trans[*probe]
		op       machinae.Op
		hasNext  bool
		wantNext *probe
	}{
		{"none", machinae.None[*probe](), machinae.OpNone, false, nil},
		{"push", machinae.Push(next), machinae.OpPush, true, next},
		{"pop", machinae.Pop[*probe](), machinae.OpPop, false, nil},
		{"switch", machinae.Switch(next), machinae.OpSwitch, true, next},
		{"quit", machinae.Quit[*probe](), machinae.OpQuit, false, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tr.Op(); got != tc.op {
				t.Fatalf("Op() = %v, want %v", got, tc.op)
			}
			got, ok := tc.tr.Next()
			if ok != tc.hasNext {
				t.Fatalf("Next() ok = %v, want %v", ok, tc.hasNext)
			}
			if got != tc.wantNext {
				t.Fatalf("Next() = %v, want %v", got, tc.wantNext)
			}
		})
	}
}

func TestZeroTransIsNone(t *testing.T) {
	var tr machinae.Trans[*probe]
	if got := tr.Op(); got != machinae.OpNone {
		t.Fatalf("zero Trans Op() = %v, want OpNone", got)
	}
	if _, ok := tr.Next(); ok {
		t.Fatal("zero Trans should carry no payload")
	}
}

func TestOpString(t *testing.T) {
	cases := []struct {
		op   machinae.Op
		want string
	}{
		{machinae.OpNone, "none"},
		{machinae.OpPush, "push"},
		{machinae.OpPop, "pop"},
		{machinae.OpSwitch, "switch"},
		{machinae.OpQuit, "quit"},
		{machinae.Op(99), "unknown"},
	}

	for _, tc := range cases {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("Op(%d).String() = %q, want %q", uint8(tc.op), got, tc.want)
		}
	}
}
