// Package redis provides a trace sink backed by Redis lists, one list per
// run, with an index of known runs for discovery.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/rustgd/machinae/pkg/trace"
)

// Store implements trace.Sink using Redis. Every entry is RPUSHed onto a
// list keyed by the entry's run identifier, so journals from concurrent
// machines interleave safely.
type Store struct {
	client     *backend.Client
	prefix     string
	ttl        time.Duration
	ownsClient bool

	mu     sync.Mutex
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration for run journals. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for journals.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis sink with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	s := newStore(client, opts...)
	s.ownsClient = true
	return s
}

// NewFromClient creates a Redis sink on an existing client. The caller keeps
// ownership of the client; Close will not close it.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	return newStore(client, opts...)
}

func newStore(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "machinae:trace:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(run string) string {
	if run == "" {
		run = "default"
	}
	return s.prefix + run
}

func (s *Store) indexKey() string {
	return s.prefix + "runs"
}

// Append pushes the entry onto its run's journal and refreshes the run
// index.
func (s *Store) Append(ctx context.Context, e trace.Entry) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return trace.ErrClosed
	}
	s.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.key(e.Run), data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(e.Run), s.ttl)
	}

	// Index score is the moment the run stops being interesting; +inf-ish
	// when journals never expire.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: e.Run,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// Entries reads a run's journal back in append order.
func (s *Store) Entries(ctx context.Context, run string) ([]trace.Entry, error) {
	vals, err := s.client.LRange(ctx, s.key(run), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	entries := make([]trace.Entry, 0, len(vals))
	for i, val := range vals {
		var e trace.Entry
		if err := json.Unmarshal([]byte(val), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Runs lists the runs with a recorded journal. Runs whose journals have
// expired are lazily pruned from the index first.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired runs: %w", err)
	}

	runs, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Close marks the sink closed and, when the sink owns its client, closes it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}
