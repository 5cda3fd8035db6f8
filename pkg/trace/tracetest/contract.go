// Package tracetest holds the behavioral contract every trace sink must
// satisfy. Adapter packages call SinkContractTest from their own tests.
package tracetest

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/rustgd/machinae/pkg/trace"
)

// ContractRun is the run identifier stamped on every entry the contract
// appends. Sinks that partition by run must read this one back.
const ContractRun = "contract"

// SinkFactory builds a fresh sink plus a function that reads back everything
// the sink has persisted, in append order.
type SinkFactory func(t *testing.T) (sink trace.Sink, read func() ([]trace.Entry, error))

// SinkContractTest verifies a sink persists entries in order, rejects appends
// after Close, and tolerates a second Close.
func SinkContractTest(t *testing.T, factory SinkFactory) {
	t.Helper()
	ctx := context.Background()

	t.Run("AppendPreservesOrder", func(t *testing.T) {
		sink, read := factory(t)
		defer sink.Close()

		want := sampleEntries()
		for _, e := range want {
			if err := sink.Append(ctx, e); err != nil {
				t.Fatalf("Append(%d) failed: %v", e.Seq, err)
			}
		}

		got, err := read()
		if err != nil {
			t.Fatalf("read back failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("entries mismatch\n got: %+v\nwant: %+v", got, want)
		}
	})

	t.Run("AppendAfterClose", func(t *testing.T) {
		sink, _ := factory(t)
		if err := sink.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := sink.Append(ctx, sampleEntries()[0]); err == nil {
			t.Fatal("expected error appending to a closed sink, got nil")
		}
	})

	t.Run("CloseIdempotent", func(t *testing.T) {
		sink, _ := factory(t)
		if err := sink.Close(); err != nil {
			t.Fatalf("first Close failed: %v", err)
		}
		if err := sink.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
	})
}

// sampleEntries returns a small journal with fixed timestamps so entries
// survive JSON round trips byte for byte.
func sampleEntries() []trace.Entry {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []trace.Entry{
		{Seq: 1, At: at, Run: ContractRun, Kind: trace.KindStart, State: "menu", Depth: 1},
		{Seq: 2, At: at.Add(16 * time.Millisecond), Run: ContractRun, Kind: trace.KindPause, State: "menu", Depth: 1},
		{Seq: 3, At: at.Add(32 * time.Millisecond), Run: ContractRun, Kind: trace.KindPush, From: "menu", To: "game", Depth: 2},
		{Seq: 4, At: at.Add(48 * time.Millisecond), Run: ContractRun, Kind: trace.KindStart, State: "game", Depth: 2},
	}
}
