package registry

import (
	"sync"
)

// Token identifies one registration in a Listeners list.
type Token uint64

type entry[T any] struct {
	token Token
	fn    T
}

// Listeners is an ordered list of callbacks. Removal is by token, so the same function may be
// registered twice and removed independently.
// Safe for concurrent use.
type Listeners[T any] struct {
	mu      sync.RWMutex
	next    Token
	entries []entry[T]
}

// New creates an empty list.
func New[T any]() *Listeners[T] {
	return &Listeners[T]{}
}

// Register appends fn and returns the token that removes it.
func (l *Listeners[T]) Register(fn T) Token {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.entries = append(l.entries, entry[T]{token: l.next, fn: fn})
	return l.next
}

// Remove drops the registration identified by tok.
// It reports whether something was removed; removing twice is a no-op.
func (l *Listeners[T]) Remove(tok Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.token == tok {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns the callbacks in registration order.
// Callers iterate the copy, so listeners may unsubscribe while being notified.
func (l *Listeners[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.fn
	}
	return out
}

// Len returns the number of registrations.
func (l *Listeners[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops every registration.
func (l *Listeners[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
