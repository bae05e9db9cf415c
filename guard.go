package nuex

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/reactive"
)

// guard installs the write detector of t: a tracked traversal of the whole tree (stopping at
// nested modules) whose scheduler sees every write before re-tracking.
func (e *engine) guard(t *tree) error {
	eff, err := e.rt.Effect(func() error {
		paths := make(map[uint64]string)
		reactive.Walk(t.state, func(n reactive.Node, rel []string) {
			paths[n.ID()] = joinPath(t.path, rel)
		})
		t.paths = paths
		return nil
	}, reactive.WithScheduler(func(eff *reactive.Effect, ev reactive.TriggerEvent) error {
		werr := e.onWrite(t, ev)
		return errors.Join(werr, eff.Run())
	}))
	if err != nil {
		return fmt.Errorf("guard %s: %w", t.path, err)
	}
	t.guard = eff
	e.effects = append(e.effects, eff)
	return nil
}

// onWrite classifies a write to t: inside a commit it notifies t's listeners, during init it
// is ignored, otherwise it is a violation.
func (e *engine) onWrite(t *tree, ev reactive.TriggerEvent) error {
	commit := e.currentCommit()
	if commit == nil && e.initializing {
		return nil
	}

	te := &domain.TriggerEvent{
		Kind:     string(ev.Kind),
		Path:     t.locate(ev.Target),
		OldValue: reactive.Snapshot(ev.OldValue),
		NewValue: reactive.Snapshot(ev.NewValue),
		Commit:   commit,
	}
	if ev.Key != nil {
		te.Key = fmt.Sprint(ev.Key)
	}
	e.trace(te)

	if commit != nil {
		for _, l := range t.mutations.Snapshot() {
			l(*commit, t.state)
		}
		return nil
	}

	ctx := context.Background()
	if t.strict {
		v := &domain.StrictModeViolation{Path: te.KeyPath(), Kind: te.Kind, OldValue: te.OldValue, NewValue: te.NewValue}
		if e.hooks.OnViolation != nil {
			e.hooks.OnViolation(ctx, v)
		}
		return v
	}

	w := &domain.UnguardedWriteWarning{Path: te.KeyPath(), Kind: te.Kind, OldValue: te.OldValue, NewValue: te.NewValue}
	e.logger.Warn("Don't mutate state outside mutation handlers",
		"path", w.Path,
		"kind", w.Kind,
	)
	if e.hooks.OnViolation != nil {
		e.hooks.OnViolation(ctx, w)
	}
	return nil
}

func (e *engine) trace(te *domain.TriggerEvent) {
	args := []any{"kind", te.Kind, "path", te.Path, "key", te.Key}
	switch te.Kind {
	case string(reactive.OpSet):
		args = append(args, "old", te.OldValue, "new", te.NewValue)
	case string(reactive.OpAdd):
		args = append(args, "new", te.NewValue)
	}
	if te.Commit != nil {
		args = append(args, "mutation", te.Commit.Qualified())
	}
	e.logger.Debug("trigger", args...)
	if e.hooks.OnTrigger != nil {
		e.hooks.OnTrigger(context.Background(), te)
	}
}
