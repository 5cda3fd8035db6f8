package graph

import (
	"fmt"
	"strings"

	"github.com/rustgd/machinae/pkg/trace"
)

// Mermaid produces Mermaid flowchart syntax from a journal: one node per
// state, one edge per distinct transition.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Push/Switch: solid arrow
// - Pop/Quit: dotted arrow
// Repeated transitions collapse into a single counted edge, and the state
// left running at the end of the journal is highlighted.
func Mermaid(entries []trace.Entry) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var names []string
	seen := make(map[string]bool)
	node := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	type edge struct {
		from, to string
		kind     trace.Kind
	}
	var edges []edge
	counts := make(map[edge]int)

	initial := ""
	current := ""
	halted := false

	for _, e := range entries {
		switch e.Kind {
		case trace.KindStart:
			if initial == "" {
				initial = e.State
			}
			node(e.State)
			current = e.State
		case trace.KindResume:
			node(e.State)
			current = e.State
		case trace.KindPause, trace.KindStop:
			node(e.State)
		case trace.KindPush, trace.KindPop, trace.KindSwitch, trace.KindQuit:
			node(e.From)
			node(e.To)
			k := edge{from: e.From, to: e.To, kind: e.Kind}
			if counts[k] == 0 {
				edges = append(edges, k)
			}
			counts[k]++
			// An empty target means the stack emptied out.
			if e.To == "" {
				halted = true
				current = ""
			}
		}
	}

	for _, name := range names {
		opener, closer := "[", "]"
		if name == initial {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(name), opener, name, closer))
	}
	if halted {
		sb.WriteString("    halt((\"halt\"))\n")
	}

	for _, k := range edges {
		label := string(k.kind)
		if n := counts[k]; n > 1 {
			label = fmt.Sprintf("%s x%d", label, n)
		}

		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if k.kind == trace.KindPop || k.kind == trace.KindQuit {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}

		to := "halt"
		if k.to != "" {
			to = sanitizeMermaidID(k.to)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(k.from), arrow, to))
	}

	if current != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(current)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
