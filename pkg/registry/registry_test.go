package registry_test

import (
	"sync"
	"testing"

	"github.com/aretw0/nuex/pkg/registry"
	"github.com/stretchr/testify/assert"
)

func TestListeners_RegistrationOrder(t *testing.T) {
	l := registry.New[func() string]()
	l.Register(func() string { return "a" })
	tok := l.Register(func() string { return "b" })
	l.Register(func() string { return "c" })

	var got []string
	for _, fn := range l.Snapshot() {
		got = append(got, fn())
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	assert.True(t, l.Remove(tok))
	assert.False(t, l.Remove(tok), "second removal is a no-op")
	assert.Equal(t, 2, l.Len())

	got = nil
	for _, fn := range l.Snapshot() {
		got = append(got, fn())
	}
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestListeners_SameFunctionTwice(t *testing.T) {
	l := registry.New[func()]()
	calls := 0
	fn := func() { calls++ }

	first := l.Register(fn)
	l.Register(fn)
	l.Remove(first)

	for _, f := range l.Snapshot() {
		f()
	}
	assert.Equal(t, 1, calls)
}

func TestListeners_SnapshotSurvivesRemoval(t *testing.T) {
	l := registry.New[func()]()
	var tok registry.Token
	calls := 0
	tok = l.Register(func() {
		calls++
		l.Remove(tok)
	})
	l.Register(func() { calls++ })

	for _, f := range l.Snapshot() {
		f()
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, l.Len())

	l.Clear()
	assert.Equal(t, 0, l.Len())
}

func TestListeners_Concurrent(t *testing.T) {
	l := registry.New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			tok := l.Register(v)
			_ = l.Snapshot()
			l.Remove(tok)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, l.Len())
}
