package observability_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/observability"
	"github.com/aretw0/nuex/pkg/reactive"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	Inc  *nuex.Mutation[int]
	Load *nuex.Action[bool, int]
}

func newStore(t *testing.T, hooks domain.LifecycleHooks) *nuex.Store[api] {
	t.Helper()
	store, err := nuex.CreateStore(nuex.Config[api]{
		State: map[string]any{"count": 0},
		Setup: func(s *nuex.Scope, state *reactive.Object) (api, error) {
			inc := nuex.NewMutation(s, "inc", func(_ context.Context, n int) error {
				return state.Set("count", reactive.Get[int](state, "count")+n)
			})
			return api{
				Inc: inc,
				Load: nuex.NewAction(s, "load", func(ctx context.Context, fail bool) (int, error) {
					if fail {
						return 0, errors.New("unavailable")
					}
					return 1, inc.Commit(ctx, 1)
				}),
			}, nil
		},
	}, nuex.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	store := newStore(t, m.Hooks())
	ctx := context.Background()

	require.NoError(t, store.API.Inc.Commit(ctx, 2))
	_, err = store.API.Load.Dispatch(ctx, false)
	require.NoError(t, err)
	_, err = store.API.Load.Dispatch(ctx, true)
	require.Error(t, err)
	require.NoError(t, store.State.Set("count", 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("root/inc")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("root/load", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("root/load", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Triggers.WithLabelValues("root", "set")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Violations.WithLabelValues("warning")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ActionDuration))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestTraceWriter(t *testing.T) {
	var buf bytes.Buffer
	trace := observability.NewTraceWriter(&buf, termenv.WithProfile(termenv.Ascii))
	store := newStore(t, trace.Hooks())

	require.NoError(t, store.API.Inc.Commit(context.Background(), 1))
	require.NoError(t, store.State.Set("extra", "x"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "▸ root/inc", lines[0])
	assert.Equal(t, "  SET root count 0 => 1", lines[1])
	assert.Equal(t, `ADD root extra "x"`, lines[2])
	assert.Equal(t, "! state mutated outside mutation handlers: add root/extra", lines[3])
}

func TestTraceWriter_Line(t *testing.T) {
	trace := observability.NewTraceWriter(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii))

	tests := []struct {
		name string
		ev   domain.TriggerEvent
		want string
	}{
		{
			name: "delete",
			ev:   domain.TriggerEvent{Kind: "delete", Path: "root/todos/items", Key: "0", OldValue: "milk"},
			want: "DELETE root/todos/items 0",
		},
		{
			name: "clear in commit",
			ev:   domain.TriggerEvent{Kind: "clear", Path: "root/todos/items", Commit: &domain.MutationRecord{Type: "reset", Timestamp: time.Now()}},
			want: "  CLEAR root/todos/items",
		},
		{
			name: "set nil",
			ev:   domain.TriggerEvent{Kind: "set", Path: "root", Key: "user", NewValue: "ann"},
			want: `SET root user <nil> => "ann"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trace.Line(&tt.ev))
		})
	}
}
