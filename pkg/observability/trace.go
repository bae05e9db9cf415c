package observability

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/muesli/termenv"
)

// TraceWriter prints one line per guarded write:
//
//	SET root/counter count 1 => 2
//	ADD root/todos/items 0 "milk"
//
// Writes made by a mutation are indented under the mutation's own line.
type TraceWriter struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewTraceWriter writes the trace to w. Colors follow the terminal profile of w unless
// overridden by opts.
func NewTraceWriter(w io.Writer, opts ...termenv.OutputOption) *TraceWriter {
	return &TraceWriter{out: termenv.NewOutput(w, opts...)}
}

// Hooks returns the lifecycle hooks printing the trace.
func (t *TraceWriter) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMutation: func(_ context.Context, rec *domain.MutationRecord) {
			t.println(t.out.String("▸ " + rec.Qualified()).Bold().String())
		},
		OnTrigger: func(_ context.Context, ev *domain.TriggerEvent) {
			t.println(t.Line(ev))
		},
		OnViolation: func(_ context.Context, err error) {
			t.println(t.out.String("! " + err.Error()).Foreground(t.out.Color("1")).String())
		},
	}
}

// Line formats ev as a trace line.
func (t *TraceWriter) Line(ev *domain.TriggerEvent) string {
	kind := strings.ToUpper(ev.Kind)
	var b strings.Builder
	if ev.Commit != nil {
		b.WriteString("  ")
	}
	b.WriteString(t.out.String(kind).Foreground(t.kindColor(ev.Kind)).String())
	b.WriteString(" ")
	b.WriteString(ev.Path)
	if ev.Key != "" {
		b.WriteString(" ")
		b.WriteString(ev.Key)
	}
	switch ev.Kind {
	case "set":
		fmt.Fprintf(&b, " %v => %v", format(ev.OldValue), format(ev.NewValue))
	case "add":
		fmt.Fprintf(&b, " %v", format(ev.NewValue))
	}
	return b.String()
}

func (t *TraceWriter) kindColor(kind string) termenv.Color {
	switch kind {
	case "set":
		return t.out.Color("3")
	case "add":
		return t.out.Color("2")
	case "delete", "clear":
		return t.out.Color("1")
	default:
		return t.out.Color("4")
	}
}

func (t *TraceWriter) println(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, s)
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
