// Package file provides a trace sink that appends journals to a JSON-lines
// file, one entry per line.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rustgd/machinae/pkg/trace"
)

// Store implements trace.Sink on the local filesystem. Entries are appended
// to a single file, so journals from consecutive runs accumulate; tell them
// apart by the run field.
type Store struct {
	mu       sync.Mutex
	f        *os.File
	enc      *json.Encoder
	path     string
	syncEach bool
	closed   bool
}

// Option configures a Store.
type Option func(*Store)

// WithSyncEachAppend fsyncs after every entry instead of only on Close.
// Slower, but the journal survives a crash mid-run.
func WithSyncEachAppend() Option {
	return func(s *Store) {
		s.syncEach = true
	}
}

// New opens (or creates) the journal at path for appending. If path is
// empty, it defaults to ".machinae/trace.jsonl".
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = filepath.Join(".machinae", "trace.jsonl")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to ensure journal directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	s := &Store{
		f:    f,
		enc:  json.NewEncoder(f),
		path: path,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the journal location.
func (s *Store) Path() string {
	return s.path
}

// Append writes the entry as one JSON line.
func (s *Store) Append(ctx context.Context, e trace.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return trace.ErrClosed
	}
	if err := s.enc.Encode(e); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}
	if s.syncEach {
		if err := s.f.Sync(); err != nil {
			return fmt.Errorf("failed to sync journal: %w", err)
		}
	}
	return nil
}

// Close syncs and closes the journal file. Closing twice is fine.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.f.Sync(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("failed to sync journal: %w", err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}
