// Package cli wires the machinae commands: the interactive demo loop and the
// journal report renderer.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rustgd/machinae/internal/graph"
	"github.com/rustgd/machinae/pkg/trace"
)

// TraceReport is the rendered view of a journal.
type TraceReport struct {
	Run     string        `json:"run,omitempty"`
	Entries []trace.Entry `json:"entries"`
	Stats   TraceStats    `json:"stats"`
}

// TraceStats summarizes a journal.
type TraceStats struct {
	Entries     int            `json:"entries"`
	Lifecycle   map[string]int `json:"lifecycle,omitempty"`
	Transitions map[string]int `json:"transitions,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
}

// FilterRun keeps only entries stamped with the given run.
func FilterRun(entries []trace.Entry, run string) []trace.Entry {
	var kept []trace.Entry
	for _, e := range entries {
		if e.Run == run {
			kept = append(kept, e)
		}
	}
	return kept
}

// BuildReport computes per-kind stats over entries. The run label is taken
// from the first entry.
func BuildReport(entries []trace.Entry) TraceReport {
	report := TraceReport{Entries: entries, Stats: TraceStats{Entries: len(entries)}}
	if len(entries) == 0 {
		return report
	}
	report.Run = entries[0].Run

	lifecycle := make(map[string]int)
	transitions := make(map[string]int)
	for _, e := range entries {
		switch e.Kind {
		case trace.KindPush, trace.KindPop, trace.KindSwitch, trace.KindQuit:
			transitions[string(e.Kind)]++
		default:
			lifecycle[string(e.Kind)]++
		}
	}
	if len(lifecycle) > 0 {
		report.Stats.Lifecycle = lifecycle
	}
	if len(transitions) > 0 {
		report.Stats.Transitions = transitions
	}
	report.Stats.DurationMS = entries[len(entries)-1].At.Sub(entries[0].At).Milliseconds()
	return report
}

// WriteReport renders the report as text, JSON or a Mermaid diagram.
func WriteReport(w io.Writer, report TraceReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "mermaid":
		fmt.Fprint(w, graph.Mermaid(report.Entries))
		return nil
	case "", "text":
		writeReportText(w, report)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or mermaid)", format)
	}
}

func writeReportText(w io.Writer, report TraceReport) {
	if report.Run != "" {
		fmt.Fprintf(w, "Trace for run: %s\n\n", report.Run)
	}

	fmt.Fprintln(w, "=== Timeline ===")
	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "  (no entries)")
	} else {
		base := report.Entries[0].At
		for _, e := range report.Entries {
			formatEntry(w, e, base)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Entries:     %d\n", report.Stats.Entries)
	fmt.Fprintf(w, "  Lifecycle:   %s\n", formatCounts(report.Stats.Lifecycle))
	fmt.Fprintf(w, "  Transitions: %s\n", formatCounts(report.Stats.Transitions))
	fmt.Fprintf(w, "  Duration:    %dms\n", report.Stats.DurationMS)
}

func formatEntry(w io.Writer, e trace.Entry, base time.Time) {
	offset := e.At.Sub(base).Round(time.Millisecond)
	kind := strings.ToUpper(string(e.Kind))

	switch e.Kind {
	case trace.KindPush, trace.KindPop, trace.KindSwitch, trace.KindQuit:
		target := e.To
		if target == "" {
			target = "(halt)"
		}
		fmt.Fprintf(w, "  [%d] +%-8s %-6s %s -> %s (depth %d)\n", e.Seq, offset, kind, e.From, target, e.Depth)
	default:
		fmt.Fprintf(w, "  [%d] +%-8s %-6s %s (depth %d)\n", e.Seq, offset, kind, e.State, e.Depth)
	}
}

// formatCounts renders a count map with sorted keys for deterministic output.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
