package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rustgd/machinae/pkg/trace"
)

// EntrySource lists recorded runs and reads back their entries. The redis
// store satisfies it.
type EntrySource interface {
	Runs(ctx context.Context) ([]string, error)
	Entries(ctx context.Context, run string) ([]trace.Entry, error)
}

// Server exposes a machine run over HTTP: health, prometheus metrics,
// recorded journals and a live SSE feed of entries as they are appended.
type Server struct {
	addr    string
	logger  *slog.Logger
	reg     *prometheus.Registry
	source  EntrySource
	streams *StreamManager
	srv     *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts the registry on GET /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.reg = reg
	}
}

// WithSource mounts GET /runs and GET /runs/{run} backed by src.
func WithSource(src EntrySource) Option {
	return func(s *Server) {
		s.source = src
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns an unstarted server for addr.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	return s
}

// Handler builds the router. Routes for metrics and journals are only
// mounted when the matching option was given.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	r.Get("/events", s.subscribeEvents)

	if s.reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	if s.source != nil {
		r.Get("/runs", s.listRuns)
		r.Get("/runs/{run}", s.getRun)
	}

	return r
}

// Start begins serving in the background. Errors other than a clean close are
// logged, not returned; a demo without its metrics port is still a demo.
func (s *Server) Start() {
	s.srv = &http.Server{Addr: s.addr, Handler: s.Handler()}
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server failed", "err", err)
		}
	}()
}

// Shutdown drains in-flight requests until ctx expires, then closes hard.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return s.srv.Close()
	}
	return nil
}

// Sink wraps next so that every appended entry is also broadcast to SSE
// subscribers of its run. Broadcast failures never affect the append.
func (s *Server) Sink(next trace.Sink) trace.Sink {
	return &streamSink{next: next, streams: s.streams}
}

type streamSink struct {
	next    trace.Sink
	streams *StreamManager
}

func (ss *streamSink) Append(ctx context.Context, e trace.Entry) error {
	if err := ss.next.Append(ctx, e); err != nil {
		return err
	}
	if b, err := json.Marshal(e); err == nil {
		ss.streams.Broadcast(e.Run, string(b))
	}
	return nil
}

func (ss *streamSink) Close() error {
	return ss.next.Close()
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.source.Runs(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("list runs: %v", err), http.StatusInternalServerError)
		s.logger.Error("list runs failed", "err", err)
		return
	}
	if runs == nil {
		runs = []string{}
	}
	writeJSON(w, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	run := chi.URLParam(r, "run")
	entries, err := s.source.Entries(r.Context(), run)
	if err != nil {
		http.Error(w, fmt.Sprintf("read run: %v", err), http.StatusInternalServerError)
		s.logger.Error("read run failed", "run", run, "err", err)
		return
	}
	if entries == nil {
		entries = []trace.Entry{}
	}
	writeJSON(w, entries)
}

// subscribeEvents handles the GET /events request (SSE).
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("subscribe: streaming not supported")
		return
	}

	run := r.URL.Query().Get("run")
	if run == "" {
		http.Error(w, "Missing run parameter", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("sse: subscribing", "run", run)
	ch, cancel := s.streams.Subscribe(run)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("sse: client disconnected", "run", run)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// StreamManager handles active SSE connections, keyed by run identifier.
type StreamManager struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	subscribers map[string]map[chan<- string]struct{}
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		logger:      logger,
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a listener for run. The returned cancel func must be
// called to release the channel.
func (sm *StreamManager) Subscribe(run string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[run]; !ok {
		sm.subscribers[run] = make(map[chan<- string]struct{})
	}
	sm.subscribers[run][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[run]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, run)
			}
		}
	}
}

// Broadcast delivers msg to every subscriber of run. Slow clients lose
// messages rather than block the caller.
func (sm *StreamManager) Broadcast(run, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if subs, ok := sm.subscribers[run]; ok {
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				sm.logger.Warn("sse: client buffer full, dropping message", "run", run)
			}
		}
	}
}
