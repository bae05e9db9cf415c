package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/internal/logging"
	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/ports"
	"github.com/aretw0/nuex/pkg/reactive"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the read side of a nuex store. *nuex.Store[R] implements it for any R.
type Store interface {
	Snapshot() map[string]any
	Modules() []domain.ModuleInfo
	SubscribeAll(l nuex.Listener) (unsubscribe func())
	PathOf(state *reactive.Object) string
}

// Event is the SSE payload sent for every write of a commit.
type Event struct {
	Commit domain.MutationRecord `json:"commit"`
	Diff   *domain.StateDiff     `json:"diff,omitempty"`
}

// Server is a read-only inspector of a running store.
type Server struct {
	Store   Store
	Streams *StreamManager

	handler  http.Handler
	journal  ports.Journal
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	mu          sync.Mutex
	last        map[string]map[string]any
	unsubscribe func()
}

// Option configures a Server.
type Option func(*Server)

// WithJournal serves recent commits on /commits.
func WithJournal(j ports.Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// WithGatherer serves the metrics of g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the inspector of store. It subscribes to every state tree of the store
// until Close.
func NewHandler(store Store, opts ...Option) *Server {
	s := &Server{
		Store:   store,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
		last:    make(map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Get("/modules", s.GetModules)
	r.Get("/commits", s.GetCommits)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	s.handler = enableCORS(r)

	s.unsubscribe = store.SubscribeAll(s.onCommit)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops following the store and ends every event stream.
func (s *Server) Close() error {
	s.unsubscribe()
	s.Streams.CloseAll()
	return nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// onCommit runs inside the commit: it only diffs and hands the event to the stream manager.
// The first event of a tree carries every key.
func (s *Server) onCommit(rec domain.MutationRecord, state *reactive.Object) {
	snap := state.Snapshot()
	path := s.Store.PathOf(state)

	s.mu.Lock()
	diff := domain.Diff(path, s.last[path], snap)
	s.last[path] = snap
	s.mu.Unlock()

	data, err := json.Marshal(Event{Commit: rec, Diff: diff})
	if err != nil {
		s.logger.Warn("Inspector: failed to encode event", "mutation", rec.Qualified(), "error", err)
		return
	}
	s.Streams.Broadcast(path, string(data))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "nuex-inspector",
		"version": strings.TrimSpace(nuex.Version),
	})
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, s.Store.Snapshot())
}

// GetModules handles the GET /modules request.
func (s *Server) GetModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, s.Store.Modules())
}

// GetCommits handles the GET /commits request. ?limit=n bounds the result (default 50).
func (s *Server) GetCommits(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "No journal configured", http.StatusNotImplemented)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Journal error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetCommits failed", "error", err)
		return
	}
	writeJSON(w, s.logger, recs)
}

// SubscribeEvents handles the GET /events request (SSE). ?path=root/todos follows one state
// tree; ?keys=a,b drops events whose diff touches none of the keys.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	path := r.URL.Query().Get("path")
	var keys []string
	if raw := r.URL.Query().Get("keys"); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			keys = append(keys, strings.TrimSpace(k))
		}
	}

	ch, cancel := s.Streams.Subscribe(path)
	defer cancel()
	s.logger.Info("SSE: Client subscribed", "path", path)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "path", path)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(keys) > 0 && !touches(msg, keys) {
				continue
			}
			fmt.Fprintf(w, "event: commit\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func touches(msg string, keys []string) bool {
	var ev Event
	if err := json.Unmarshal([]byte(msg), &ev); err != nil || ev.Diff == nil {
		return false
	}
	for _, k := range keys {
		if _, ok := ev.Diff.Changes[k]; ok {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
