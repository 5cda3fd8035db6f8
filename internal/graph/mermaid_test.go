package graph_test

import (
	"strings"
	"testing"

	"github.com/rustgd/machinae/internal/graph"
	"github.com/rustgd/machinae/pkg/trace"
)

func TestMermaid(t *testing.T) {
	tests := []struct {
		name     string
		entries  []trace.Entry
		contains []string
		excludes []string
	}{
		{
			name: "Initial State Shape",
			entries: []trace.Entry{
				{Seq: 1, Kind: trace.KindStart, State: "menu", Depth: 1},
			},
			contains: []string{
				"graph TD",
				"menu((\"menu\"))",
				"class menu current;",
			},
		},
		{
			name: "Push And Pop Edges",
			entries: []trace.Entry{
				{Seq: 1, Kind: trace.KindStart, State: "menu", Depth: 1},
				{Seq: 2, Kind: trace.KindPause, State: "menu", Depth: 1},
				{Seq: 3, Kind: trace.KindPush, From: "menu", To: "pause", Depth: 2},
				{Seq: 4, Kind: trace.KindStart, State: "pause", Depth: 2},
				{Seq: 5, Kind: trace.KindStop, State: "pause", Depth: 2},
				{Seq: 6, Kind: trace.KindPop, From: "pause", To: "menu", Depth: 1},
				{Seq: 7, Kind: trace.KindResume, State: "menu", Depth: 1},
			},
			contains: []string{
				"pause[\"pause\"]",
				"menu -- \"push\" --> pause",
				"pause -. \"pop\" .-> menu",
				"class menu current;",
			},
		},
		{
			name: "Quit Edge Targets Halt",
			entries: []trace.Entry{
				{Seq: 1, Kind: trace.KindStart, State: "menu", Depth: 1},
				{Seq: 2, Kind: trace.KindStop, State: "menu", Depth: 1},
				{Seq: 3, Kind: trace.KindQuit, From: "menu", Depth: 0},
			},
			contains: []string{
				"halt((\"halt\"))",
				"menu -. \"quit\" .-> halt",
			},
			excludes: []string{
				"current",
			},
		},
		{
			name: "Repeated Transitions Collapse",
			entries: []trace.Entry{
				{Seq: 1, Kind: trace.KindStart, State: "menu", Depth: 1},
				{Seq: 2, Kind: trace.KindPush, From: "menu", To: "pause", Depth: 2},
				{Seq: 3, Kind: trace.KindPop, From: "pause", To: "menu", Depth: 1},
				{Seq: 4, Kind: trace.KindPush, From: "menu", To: "pause", Depth: 2},
				{Seq: 5, Kind: trace.KindPop, From: "pause", To: "menu", Depth: 1},
			},
			contains: []string{
				"menu -- \"push x2\" --> pause",
				"pause -. \"pop x2\" .-> menu",
			},
		},
		{
			name: "ID Sanitization",
			entries: []trace.Entry{
				{Seq: 1, Kind: trace.KindStart, State: "game-over", Depth: 1},
				{Seq: 2, Kind: trace.KindSwitch, From: "game-over", To: "level.2", Depth: 1},
			},
			contains: []string{
				"game_over((\"game-over\"))",
				"level_2[\"level.2\"]",
				"game_over -- \"switch\" --> level_2",
			},
		},
		{
			name:    "Empty Journal",
			entries: nil,
			contains: []string{
				"graph TD",
			},
			excludes: []string{
				"halt",
				"current",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.Mermaid(tt.entries)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q.\nGot:\n%s", want, out)
				}
			}
			for _, not := range tt.excludes {
				if strings.Contains(out, not) {
					t.Errorf("Expected output to not contain %q.\nGot:\n%s", not, out)
				}
			}
		})
	}
}
