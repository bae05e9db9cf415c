// Package demo is the sample store run by "nuex demo" and served by "nuex serve": a counter,
// a todo list and a root mutation resetting both.
package demo

import (
	"context"
	"time"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/pkg/reactive"
)

// App is the API of the demo store.
type App struct {
	Todos   *nuex.Module[Todos]
	Counter *nuex.Module[Counter]
	Reset   *nuex.Mutation[struct{}] `nuex:"resetTodos"`
}

// Options configures the demo store.
type Options struct {
	Strict bool
	// State overrides keys of the root state.
	State map[string]any
	// Delay is the wait of the async counter actions.
	Delay time.Duration
}

// New builds the demo store.
func New(o Options, opts ...nuex.Option) (*nuex.Store[App], error) {
	state := map[string]any{"idCounter": 0}
	for k, v := range o.State {
		state[k] = v
	}

	return nuex.CreateStore(nuex.Config[App]{
		State:  state,
		Strict: o.Strict,
		Setup: func(s *nuex.Scope, root *reactive.Object) (App, error) {
			todos, err := nuex.CreateModule(s, "todos", TodosModule(root))
			if err != nil {
				return App{}, err
			}
			counter, err := nuex.CreateModule(s, "counter", CounterModule(o.Delay))
			if err != nil {
				return App{}, err
			}

			reset := nuex.NewMutation(s, "", func(context.Context, struct{}) error {
				items, _ := todos.State.Get("items").(*reactive.List)
				if items != nil {
					if err := items.Clear(); err != nil {
						return err
					}
				}
				return counter.State.Set("counter", 0)
			})

			return App{Todos: todos, Counter: counter, Reset: reset}, nil
		},
	}, opts...)
}

// Script drives the store through a short session: two todos, one completed, an async
// increment, then a reset.
func Script(ctx context.Context, store *nuex.Store[App]) error {
	app := store.API
	if err := app.Todos.API.AddTodo.Commit(ctx, "learn nuex"); err != nil {
		return err
	}
	if err := app.Todos.API.AddTodo.Commit(ctx, "write a module"); err != nil {
		return err
	}
	if err := app.Todos.API.CompleteTodo.Commit(ctx, Completion{ID: 0, Completed: true}); err != nil {
		return err
	}
	if err := app.Counter.API.Increment.Commit(ctx, struct{}{}); err != nil {
		return err
	}
	if _, err := app.Counter.API.IncrementAsync.Go(ctx, struct{}{}).Wait(ctx); err != nil {
		return err
	}
	return app.Reset.Commit(ctx, struct{}{})
}
