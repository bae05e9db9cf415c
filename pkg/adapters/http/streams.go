package http

import (
	"log/slog"
	"sync"

	"github.com/aretw0/nuex/internal/logging"
)

// StreamManager handles active SSE connections, keyed by state tree path.
// Subscribers of the empty path receive every message.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logging.NewNop(),
	}
}

func (sm *StreamManager) Subscribe(path string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[path]; !ok {
		sm.subscribers[path] = make(map[chan string]struct{})
	}
	sm.subscribers[path][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[path]; ok {
			if _, live := subs[ch]; !live {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, path)
			}
		}
	}
}

// Broadcast never blocks: a client whose buffer is full misses the message.
func (sm *StreamManager) Broadcast(path string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "path", path, "payload_size", len(msg))

	targets := []string{path}
	if path != "" {
		targets = append(targets, "")
	}
	for _, p := range targets {
		for ch := range sm.subscribers[p] {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				sm.logger.Warn("SSE: Client buffer full, dropping message", "path", p)
			}
		}
	}
}

// CloseAll ends every subscription.
func (sm *StreamManager) CloseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for p, subs := range sm.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(sm.subscribers, p)
	}
}

// Count returns the number of open subscriptions.
func (sm *StreamManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, subs := range sm.subscribers {
		n += len(subs)
	}
	return n
}
