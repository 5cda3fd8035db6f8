// Package memory provides an in-memory trace sink, mainly for tests and
// short-lived tools.
package memory

import (
	"context"
	"sync"

	"github.com/rustgd/machinae/pkg/trace"
)

// Store implements trace.Sink in memory. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []trace.Entry
	closed  bool
}

// NewStore creates an empty in-memory sink.
func NewStore() *Store {
	return &Store{}
}

// Append records the entry.
func (s *Store) Append(ctx context.Context, e trace.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return trace.ErrClosed
	}
	s.entries = append(s.entries, e)
	return nil
}

// Entries returns a copy of everything recorded so far, in append order.
func (s *Store) Entries() []trace.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]trace.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset drops every recorded entry but keeps the sink usable.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Close marks the sink closed; further appends fail with trace.ErrClosed.
// Recorded entries stay readable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
