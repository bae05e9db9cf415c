package nuex

import (
	"context"
	"time"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/google/uuid"
)

// MutatorFunc performs the writes of a mutation. It must not retain ctx beyond its return:
// ctx carries the commit marker that lets nested mutations join the commit in flight.
//
// A nested Commit must be given this ctx. Committing from a mutator with any other ctx (such
// as context.Background()) waits for the commit the mutator itself is running: it blocks
// until that ctx ends, then fails with domain.ErrCommitBusy, and never returns for a ctx
// without deadline.
type MutatorFunc[P any] func(ctx context.Context, payload P) error

// Mutation is the only sanctioned way to write a guarded state tree. Every write its mutator
// performs is attributed to it and notified to the tree's subscribers.
type Mutation[P any] struct {
	name  string
	scope *Scope
	fn    MutatorFunc[P]
	err   error
}

// NewMutation declares a mutation in the scope s. An empty name is filled in after Setup
// returns from the API field holding the mutation. Declared outside an open Setup, the
// mutation fails every commit with a *domain.LifecycleError.
func NewMutation[P any](s *Scope, name string, fn MutatorFunc[P]) *Mutation[P] {
	m := &Mutation[P]{name: name, scope: s, fn: fn}
	if s == nil || !s.Open() {
		m.err = &domain.LifecycleError{Op: "declare mutation", Name: name}
	}
	return m
}

// Commit runs the mutator as a commit. Commits of one store are serialized, except that a
// commit started from the ctx of another one runs inside it: the outer record is restored
// when the nested commit returns. Waiting for the commit in flight ends with ctx, wrapping
// domain.ErrCommitBusy. See MutatorFunc for nesting with an unrelated ctx.
func (m *Mutation[P]) Commit(ctx context.Context, payload P) error {
	if m.err != nil {
		return m.err
	}
	e := m.scope.e
	if e.committing(ctx) {
		return m.commit(ctx, payload)
	}

	if err := e.acquire(ctx); err != nil {
		return err
	}
	released := false
	defer func() {
		if !released {
			e.pending = nil
			e.release()
		}
	}()

	err := m.commit(context.WithValue(ctx, commitKey{}, e), payload)

	recs := e.pending
	e.pending = nil
	if e.journal == nil || len(recs) == 0 {
		return err
	}
	// appends leave the store lock free but keep commit order
	e.jmu.Lock()
	defer e.jmu.Unlock()
	released = true
	e.release()
	for _, rec := range recs {
		if jerr := e.journal.Append(ctx, rec); jerr != nil {
			e.logger.Warn("Failed to journal commit", "mutation", rec.Qualified(), "error", jerr)
		}
	}
	return err
}

// commit runs the mutator holding the store lock.
func (m *Mutation[P]) commit(ctx context.Context, payload P) error {
	e := m.scope.e
	if e.closed {
		return domain.ErrClosed
	}

	rec := &domain.MutationRecord{
		ID:        uuid.NewString(),
		Type:      m.Name(),
		Path:      m.scope.tree.path,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	e.pushCommit(rec)
	defer e.popCommit()

	e.logger.Debug("Mutation committing", "mutation", rec.Qualified(), "id", rec.ID)
	if e.hooks.OnMutation != nil {
		e.hooks.OnMutation(ctx, rec)
	}

	if err := m.fn(ctx, payload); err != nil {
		e.logger.Debug("Mutation failed", "mutation", rec.Qualified(), "error", err)
		return err
	}
	if e.journal != nil {
		e.pending = append(e.pending, *rec)
	}
	return nil
}

// Name returns the declared or assigned name of the mutation.
func (m *Mutation[P]) Name() string {
	if m.name == "" {
		return domain.AnonymousName
	}
	return m.name
}

// Path returns the path of the state tree the mutation writes.
func (m *Mutation[P]) Path() string {
	if m.scope == nil {
		return ""
	}
	return m.scope.tree.path
}

// Kind classifies the mutation as a MutationHandle.
func (m *Mutation[P]) Kind() HandleKind {
	return MutationHandle
}

func (m *Mutation[P]) declaredName() string { return m.name }
func (m *Mutation[P]) assignName(n string)  { m.name = n }
