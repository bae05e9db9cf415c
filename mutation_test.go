package nuex_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/pkg/adapters/memory"
	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedAPI struct {
	Outer *nuex.Mutation[int]
	Inner *nuex.Mutation[int]
	Fail  *nuex.Mutation[error]
	Panic *nuex.Mutation[string]
	Peek  func() (domain.MutationRecord, bool)
}

func newNestedStore(t *testing.T, opts ...nuex.Option) (*nuex.Store[nestedAPI], *[]string) {
	t.Helper()
	var inside []string
	store, err := nuex.CreateStore(nuex.Config[nestedAPI]{
		State:  map[string]any{"a": 0, "b": 0, "c": 0},
		Strict: true,
		Setup: func(s *nuex.Scope, state *reactive.Object) (nestedAPI, error) {
			note := func() {
				rec, ok := s.CurrentCommit()
				if ok {
					inside = append(inside, rec.Type)
				}
			}
			inner := nuex.NewMutation(s, "inner", func(_ context.Context, v int) error {
				note()
				return state.Set("b", v)
			})
			outer := nuex.NewMutation(s, "outer", func(ctx context.Context, v int) error {
				note()
				if err := state.Set("a", v); err != nil {
					return err
				}
				if err := inner.Commit(ctx, v); err != nil {
					return err
				}
				note()
				return state.Set("c", v)
			})
			return nestedAPI{
				Outer: outer,
				Inner: inner,
				Fail: nuex.NewMutation(s, "fail", func(_ context.Context, err error) error {
					note()
					return err
				}),
				Panic: nuex.NewMutation(s, "panic", func(_ context.Context, msg string) error {
					panic(msg)
				}),
				Peek: s.CurrentCommit,
			}, nil
		},
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, &inside
}

func TestMutation_NestedCommitRestoresOuterContext(t *testing.T) {
	store, inside := newNestedStore(t)
	var types []string
	store.Subscribe(func(rec domain.MutationRecord, _ *reactive.Object) {
		types = append(types, rec.Type)
	})

	require.NoError(t, store.API.Outer.Commit(context.Background(), 1))

	assert.Equal(t, []string{"outer", "inner", "outer"}, types)
	assert.Equal(t, []string{"outer", "inner", "outer"}, *inside)
	_, active := store.CurrentCommit()
	assert.False(t, active)
}

func TestMutation_ContextClearedAfterError(t *testing.T) {
	store, inside := newNestedStore(t)
	boom := errors.New("boom")

	err := store.API.Fail.Commit(context.Background(), boom)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"fail"}, *inside)
	_, active := store.API.Peek()
	assert.False(t, active)
	assert.NoError(t, store.API.Inner.Commit(context.Background(), 2))
}

func TestMutation_ContextClearedAfterPanic(t *testing.T) {
	store, _ := newNestedStore(t)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = store.API.Panic.Commit(context.Background(), "kaboom")
	})

	_, active := store.API.Peek()
	assert.False(t, active)
	// the commit lock was released
	assert.NoError(t, store.API.Inner.Commit(context.Background(), 3))
	assert.Equal(t, 3, store.State.Get("b"))
}

func TestMutation_Record(t *testing.T) {
	store, _ := newNestedStore(t)
	var recs []domain.MutationRecord
	store.Subscribe(func(rec domain.MutationRecord, _ *reactive.Object) {
		recs = append(recs, rec)
	})

	require.NoError(t, store.API.Inner.Commit(context.Background(), 9))

	require.Len(t, recs, 1)
	assert.NotEmpty(t, recs[0].ID)
	assert.Equal(t, "inner", recs[0].Type)
	assert.Equal(t, "root", recs[0].Path)
	assert.Equal(t, 9, recs[0].Payload)
	assert.False(t, recs[0].Timestamp.IsZero())
	assert.Equal(t, "root/inner", recs[0].Qualified())
}

func TestMutation_ConcurrentCommitsAreSerialized(t *testing.T) {
	store := newCounterStore(t, true)
	const n = 50

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.API.Inc.Commit(context.Background(), struct{}{}))
		}()
	}
	wg.Wait()

	assert.Equal(t, n, store.API.Count())
}

func TestMutation_Journal(t *testing.T) {
	journal := memory.NewJournal()
	store, _ := newNestedStore(t, nuex.WithJournal(journal))
	ctx := context.Background()

	require.NoError(t, store.API.Outer.Commit(ctx, 1))
	require.Error(t, store.API.Fail.Commit(ctx, errors.New("no")))

	recent, err := journal.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// the nested commit completes first
	assert.Equal(t, "inner", recent[0].Type)
	assert.Equal(t, "outer", recent[1].Type)
}

func TestMutation_NestedCommitWithUnrelatedContext(t *testing.T) {
	var nestedErr error
	type api struct {
		Outer *nuex.Mutation[int]
		Inner *nuex.Mutation[int]
	}
	store, err := nuex.CreateStore(nuex.Config[api]{
		State:  map[string]any{"a": 0, "b": 0},
		Strict: true,
		Setup: func(s *nuex.Scope, state *reactive.Object) (api, error) {
			inner := nuex.NewMutation(s, "inner", func(_ context.Context, v int) error {
				return state.Set("b", v)
			})
			outer := nuex.NewMutation(s, "outer", func(_ context.Context, v int) error {
				ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
				defer cancel()
				// not the mutator's ctx: this waits for the commit running it
				nestedErr = inner.Commit(ctx, v)
				return state.Set("a", v)
			})
			return api{Outer: outer, Inner: inner}, nil
		},
	})
	require.NoError(t, err)
	defer store.Close()

	done := make(chan error, 1)
	go func() { done <- store.API.Outer.Commit(context.Background(), 7) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("outer commit never returned")
	}

	assert.ErrorIs(t, nestedErr, domain.ErrCommitBusy)
	assert.ErrorIs(t, nestedErr, context.DeadlineExceeded)
	assert.Equal(t, 7, store.State.Get("a"))
	assert.Equal(t, 0, store.State.Get("b"))
	// the lock is free again
	require.NoError(t, store.API.Inner.Commit(context.Background(), 8))
	assert.Equal(t, 8, store.State.Get("b"))
}

// slowJournal blocks every append until release is closed.
type slowJournal struct {
	*memory.Journal
	entered chan struct{}
	release chan struct{}
}

func (j *slowJournal) Append(ctx context.Context, rec domain.MutationRecord) error {
	j.entered <- struct{}{}
	<-j.release
	return j.Journal.Append(ctx, rec)
}

func TestMutation_JournalAppendsOutsideTheLock(t *testing.T) {
	journal := &slowJournal{
		Journal: memory.NewJournal(),
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	store, _ := newNestedStore(t, nuex.WithJournal(journal))
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- store.API.Inner.Commit(ctx, 1) }()
	<-journal.entered

	snap := make(chan map[string]any, 1)
	go func() { snap <- store.Snapshot() }()
	select {
	case s := <-snap:
		assert.Equal(t, 1, s["b"])
	case <-time.After(5 * time.Second):
		t.Fatal("snapshot waited for the journal")
	}

	second := make(chan error, 1)
	go func() { second <- store.API.Inner.Commit(ctx, 2) }()

	close(journal.release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	recent, err := journal.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 1, recent[0].Payload)
	assert.Equal(t, 2, recent[1].Payload)
}
