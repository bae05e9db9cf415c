/*
Package nuex is a small state-management runtime: a reactive state tree with namespaced
modules, writes disciplined through declared mutations, actions for asynchronous work, and
subscriptions to observe every commit.

# Concept

A Store owns one root state tree. During its Setup the store is initializing: it may declare
mutations and actions and compose child modules, each with its own state tree mounted under the
parent's state by name. Once Setup returns the shape of the store is frozen.

Every state tree is guarded. A tracked traversal of the tree observes each write; a write
performed while a mutation runs is attributed to that mutation and fanned out to the tree's
subscribers, any other write is a violation: an error in strict mode, a warning otherwise.

# Usage

	type Counter struct {
		Inc   *nuex.Mutation[int]
		Count func() int
	}

	store, err := nuex.CreateStore(nuex.Config[Counter]{
		State: map[string]any{"count": 0},
		Setup: func(s *nuex.Scope, state *reactive.Object) (Counter, error) {
			return Counter{
				Inc: nuex.NewMutation(s, "inc", func(ctx context.Context, n int) error {
					return state.Set("count", reactive.Get[int](state, "count")+n)
				}),
				Count: nuex.Getter(s, func() int { return reactive.Get[int](state, "count") }),
			}, nil
		},
		Strict: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	unsubscribe := store.Subscribe(func(rec domain.MutationRecord, state *reactive.Object) {
		log.Println("commit", rec.Qualified())
	})
	defer unsubscribe()

	_ = store.API.Inc.Commit(ctx, 1)

# Concurrency

Commits are serialized by the store lock. Reactive nodes are not safe for concurrent use: read
them directly only from Setup, a mutator or a listener, which run under the lock. Anywhere else,
and in particular while an action started with Go may be committing, read through Store.Read,
Scope.Read or a function built with Getter.

A mutator commits nested mutations with the ctx it was given. Committing with any other ctx
waits for the commit in flight, which is the caller itself, until that ctx ends and then fails
with domain.ErrCommitBusy.
*/
package nuex
