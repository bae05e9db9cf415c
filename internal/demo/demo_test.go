package demo_test

import (
	"context"
	"testing"

	"github.com/aretw0/nuex/internal/demo"
	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo_Todos(t *testing.T) {
	store, err := demo.New(demo.Options{Strict: true, State: map[string]any{"idCounter": 10}})
	require.NoError(t, err)
	defer store.Close()
	todos := store.API.Todos.API
	ctx := context.Background()

	var rootCommits []string
	store.Subscribe(func(rec domain.MutationRecord, _ *reactive.Object) {
		rootCommits = append(rootCommits, rec.Qualified())
	})

	require.NoError(t, todos.AddTodo.Commit(ctx, "milk"))
	require.NoError(t, todos.AddTodo.Commit(ctx, "eggs"))
	assert.False(t, todos.CompletedAt(0))
	assert.Equal(t, 0, todos.CompletedCount())

	require.NoError(t, todos.CompleteTodo.Commit(ctx, demo.Completion{ID: 10, Completed: true}))
	require.NoError(t, todos.CompleteTodo.Commit(ctx, demo.Completion{ID: 99, Completed: true}))

	assert.Equal(t, 1, todos.CompletedCount())
	assert.True(t, todos.CompletedAt(0))
	assert.False(t, todos.CompletedAt(1))
	assert.False(t, todos.CompletedAt(5))

	items, err := todos.Items()
	require.NoError(t, err)
	assert.Equal(t, []demo.ToDo{
		{ID: 10, Text: "milk", Completed: true},
		{ID: 11, Text: "eggs"},
	}, items)
	assert.Equal(t, 12, store.State.Get("idCounter"))
	// the todos module writes the root idCounter
	assert.Equal(t, []string{"root/todos/addTodo", "root/todos/addTodo"}, rootCommits)
}

func TestDemo_CounterAndReset(t *testing.T) {
	store, err := demo.New(demo.Options{Strict: true})
	require.NoError(t, err)
	defer store.Close()
	counter := store.API.Counter
	ctx := context.Background()

	var counterCommits []string
	counter.Subscribe(func(rec domain.MutationRecord, _ *reactive.Object) {
		counterCommits = append(counterCommits, rec.Qualified())
	})

	require.NoError(t, counter.API.Increment.Commit(ctx, struct{}{}))
	require.NoError(t, counter.API.Increment.Commit(ctx, struct{}{}))
	require.NoError(t, counter.API.Decrement.Commit(ctx, struct{}{}))
	_, err = counter.API.IncrementAsync.Go(ctx, struct{}{}).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counter.API.Value())

	require.NoError(t, store.API.Todos.API.AddTodo.Commit(ctx, "milk"))
	require.NoError(t, store.API.Reset.Commit(ctx, struct{}{}))

	assert.Zero(t, counter.API.Value())
	items, err := store.API.Todos.API.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, []string{
		"root/counter/increment",
		"root/counter/increment",
		"root/counter/decrement",
		"root/counter/increment",
		"root/resetTodos",
	}, counterCommits)
}

func TestDemo_Script(t *testing.T) {
	store, err := demo.New(demo.Options{Strict: true})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, demo.Script(context.Background(), store))

	assert.Equal(t, map[string]any{
		"idCounter": 2,
		"counter":   map[string]any{"counter": 0},
		"todos":     map[string]any{"items": []any{}},
	}, store.Snapshot())
}

func TestDemo_StrictRejectsDirectWrites(t *testing.T) {
	store, err := demo.New(demo.Options{Strict: true})
	require.NoError(t, err)
	defer store.Close()

	err = store.API.Counter.State.Set("counter", 42)

	assert.ErrorIs(t, err, domain.ErrStrictMode)
}

func TestDemo_ValueWhileAsyncCommits(t *testing.T) {
	store, err := demo.New(demo.Options{Strict: true})
	require.NoError(t, err)
	defer store.Close()
	counter := store.API.Counter.API
	ctx := context.Background()

	futures := make([]interface{ Done() <-chan struct{} }, 0, 50)
	for range 50 {
		futures = append(futures, counter.IncrementAsync.Go(ctx, struct{}{}))
	}
	for _, f := range futures {
		for pending := true; pending; {
			select {
			case <-f.Done():
				pending = false
			default:
				_ = counter.Value()
				_ = store.API.Todos.API.CompletedCount()
			}
		}
	}

	assert.Equal(t, 50, counter.Value())
}
