package demo

import (
	"context"
	"fmt"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/pkg/reactive"
)

// ToDo is one item of the todos module.
type ToDo struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Completion is the payload of completeTodo.
type Completion struct {
	ID        int  `json:"id"`
	Completed bool `json:"completed"`
}

// Todos is the API of the todos module.
type Todos struct {
	AddTodo        *nuex.Mutation[string]     `nuex:"addTodo"`
	CompleteTodo   *nuex.Mutation[Completion] `nuex:"completeTodo"`
	CompletedCount func() int
	// CompletedAt reports whether the item at index i is completed.
	CompletedAt func(i int) bool
	Items       func() ([]ToDo, error)
}

// TodosModule declares the todos module. Ids are drawn from root's idCounter, so the module
// writes its parent's state as well as its own.
func TodosModule(root *reactive.Object) nuex.Config[Todos] {
	return nuex.Config[Todos]{
		State: map[string]any{"items": []any{}},
		Setup: func(s *nuex.Scope, state *reactive.Object) (Todos, error) {
			items, ok := state.Get("items").(*reactive.List)
			if !ok {
				return Todos{}, fmt.Errorf("todos: items is %T, want a list", state.Get("items"))
			}

			addTodo := nuex.NewMutation(s, "", func(_ context.Context, text string) error {
				id := reactive.Get[int](root, "idCounter")
				if err := root.Set("idCounter", id+1); err != nil {
					return err
				}
				return items.Append(map[string]any{
					"id":        id,
					"text":      text,
					"completed": false,
				})
			})

			completeTodo := nuex.NewMutation(s, "", func(_ context.Context, c Completion) error {
				var todo *reactive.Object
				items.Range(func(_ int, v any) bool {
					if o, ok := v.(*reactive.Object); ok && reactive.Get[int](o, "id") == c.ID {
						todo = o
						return false
					}
					return true
				})
				if todo == nil {
					return nil
				}
				return todo.Set("completed", c.Completed)
			})

			completed := nuex.Computed(s, func() int {
				n := 0
				items.Range(func(_ int, v any) bool {
					if o, ok := v.(*reactive.Object); ok && reactive.Get[bool](o, "completed") {
						n++
					}
					return true
				})
				return n
			})

			return Todos{
				AddTodo:        addTodo,
				CompleteTodo:   completeTodo,
				CompletedCount: nuex.Getter(s, completed.Get),
				CompletedAt: func(i int) bool {
					return nuex.Getter(s, func() bool {
						if i < 0 || i >= items.Len() {
							return false
						}
						o, ok := items.Get(i).(*reactive.Object)
						return ok && reactive.Get[bool](o, "completed")
					})()
				},
				Items: func() ([]ToDo, error) {
					var out []ToDo
					err := nuex.Getter(s, func() error { return nuex.Decode(items, &out) })()
					return out, err
				},
			}, nil
		},
	}
}
