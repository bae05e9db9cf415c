package nuex_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/reactive"
)

// ExampleCreateStore builds a strict counter store and observes its commits.
func ExampleCreateStore() {
	type Counter struct {
		Inc   *nuex.Mutation[int]
		Count func() int
	}

	store, err := nuex.CreateStore(nuex.Config[Counter]{
		State:  map[string]any{"count": 0},
		Strict: true,
		Setup: func(s *nuex.Scope, state *reactive.Object) (Counter, error) {
			return Counter{
				Inc: nuex.NewMutation(s, "inc", func(_ context.Context, n int) error {
					return state.Set("count", reactive.Get[int](state, "count")+n)
				}),
				Count: nuex.Getter(s, func() int { return reactive.Get[int](state, "count") }),
			}, nil
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	store.Subscribe(func(rec domain.MutationRecord, state *reactive.Object) {
		fmt.Printf("%s(%v) -> count=%v\n", rec.Qualified(), rec.Payload, state.Get("count"))
	})

	ctx := context.Background()
	_ = store.API.Inc.Commit(ctx, 1)
	_ = store.API.Inc.Commit(ctx, 2)

	// Writing outside a mutation fails on a strict store.
	err = store.State.Set("count", 0)
	fmt.Println(err)
	fmt.Println(store.API.Count())

	// Output:
	// root/inc(1) -> count=1
	// root/inc(2) -> count=3
	// do not mutate state outside mutation handlers: set root/count
	// 0
}

// ExampleCreateModule composes a namespaced module into a store.
func ExampleCreateModule() {
	type Todos struct {
		Add *nuex.Mutation[string]
	}

	var todos *nuex.Module[Todos]
	store, err := nuex.CreateStore(nuex.Config[struct{}]{
		Setup: func(s *nuex.Scope, _ *reactive.Object) (struct{}, error) {
			var err error
			todos, err = nuex.CreateModule(s, "todos", nuex.Config[Todos]{
				State: map[string]any{"items": []any{}},
				Setup: func(s *nuex.Scope, state *reactive.Object) (Todos, error) {
					items := state.Get("items").(*reactive.List)
					return Todos{
						Add: nuex.NewMutation(s, "", func(_ context.Context, text string) error {
							return items.Append(text)
						}),
					}, nil
				},
			})
			return struct{}{}, err
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	todos.Subscribe(func(rec domain.MutationRecord, _ *reactive.Object) {
		fmt.Println("commit", rec.Qualified())
	})
	_ = todos.API.Add.Commit(context.Background(), "write docs")

	fmt.Println(store.Snapshot())

	// Output:
	// commit root/todos/Add
	// map[todos:map[items:[write docs]]]
}
