package trace_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustgd/machinae/pkg/trace"
)

func TestReadSkipsBlankLines(t *testing.T) {
	journal := `{"seq":1,"at":"2024-01-01T00:00:00Z","kind":"start","state":"menu","depth":1}

{"seq":2,"at":"2024-01-01T00:00:01Z","kind":"quit","from":"menu","depth":0}
`
	entries, err := trace.Read(strings.NewReader(journal))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[1].Kind != trace.KindQuit {
		t.Fatalf("entries[1].Kind = %q, want quit", entries[1].Kind)
	}
}

func TestReadReportsBadLine(t *testing.T) {
	journal := `{"seq":1,"at":"2024-01-01T00:00:00Z","kind":"start","state":"menu","depth":1}
not json
`
	_, err := trace.Read(strings.NewReader(journal))
	if err == nil {
		t.Fatal("Read succeeded, want error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error = %q, want line number", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal := `{"seq":1,"at":"2024-01-01T00:00:00Z","run":"r","kind":"start","state":"menu","depth":1}
`
	if err := os.WriteFile(path, []byte(journal), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	entries, err := trace.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(entries) != 1 || entries[0].State != "menu" {
		t.Fatalf("entries = %+v, want one start entry for menu", entries)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := trace.ReadFile(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err == nil {
		t.Fatal("ReadFile succeeded, want error")
	}
}
