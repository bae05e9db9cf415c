package demo

import (
	"context"
	"time"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/pkg/reactive"
)

// Counter is the API of the counter module.
type Counter struct {
	Increment      *nuex.Mutation[struct{}]           `nuex:"increment"`
	Decrement      *nuex.Mutation[struct{}]           `nuex:"decrement"`
	IncrementAsync *nuex.Action[struct{}, struct{}] `nuex:"incrementAsync"`
	DecrementAsync *nuex.Action[struct{}, struct{}] `nuex:"decrementAsync"`
	Value          func() int
}

// CounterModule declares a counter whose async actions wait delay before committing.
func CounterModule(delay time.Duration) nuex.Config[Counter] {
	return nuex.Config[Counter]{
		State: map[string]any{"counter": 0},
		Setup: func(s *nuex.Scope, state *reactive.Object) (Counter, error) {
			add := func(n int) nuex.MutatorFunc[struct{}] {
				return func(context.Context, struct{}) error {
					return state.Set("counter", reactive.Get[int](state, "counter")+n)
				}
			}
			increment := nuex.NewMutation(s, "", add(1))
			decrement := nuex.NewMutation(s, "", add(-1))

			later := func(m *nuex.Mutation[struct{}]) nuex.ActorFunc[struct{}, struct{}] {
				return func(ctx context.Context, _ struct{}) (struct{}, error) {
					if err := wait(ctx, delay); err != nil {
						return struct{}{}, err
					}
					return struct{}{}, m.Commit(ctx, struct{}{})
				}
			}

			return Counter{
				Increment:      increment,
				Decrement:      decrement,
				IncrementAsync: nuex.NewAction(s, "", later(increment)),
				DecrementAsync: nuex.NewAction(s, "", later(decrement)),
				Value:          nuex.Getter(s, func() int { return reactive.Get[int](state, "counter") }),
			}, nil
		},
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
