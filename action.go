package nuex

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/google/uuid"
)

// ActorFunc is the body of an action. Actions do not write state themselves; they commit
// mutations.
type ActorFunc[P, T any] func(ctx context.Context, payload P) (T, error)

// Action wraps an actor with before/after notifications.
type Action[P, T any] struct {
	name  string
	scope *Scope
	fn    ActorFunc[P, T]
	err   error
}

// NewAction declares an action in the scope s. Naming and lifecycle rules are the ones of
// NewMutation.
func NewAction[P, T any](s *Scope, name string, fn ActorFunc[P, T]) *Action[P, T] {
	a := &Action[P, T]{name: name, scope: s, fn: fn}
	if s == nil || !s.Open() {
		a.err = &domain.LifecycleError{Op: "declare action", Name: name}
	}
	return a
}

// Dispatch runs the action on the calling goroutine. Before listeners see it start, after
// listeners see it finish, in that order.
func (a *Action[P, T]) Dispatch(ctx context.Context, payload P) (T, error) {
	if a.err != nil {
		var zero T
		return zero, a.err
	}
	rec := a.started(ctx, payload)
	val, err := a.fn(ctx, payload)
	a.finished(ctx, rec, err)
	return val, err
}

// Go starts the action and returns once the before listeners ran. The actor runs on its own
// goroutine; after listeners run when it returns, before the Future completes. While it runs,
// read state from other goroutines through Scope.Read, Store.Read or a Getter.
func (a *Action[P, T]) Go(ctx context.Context, payload P) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	if a.err != nil {
		f.err = a.err
		close(f.done)
		return f
	}
	rec := a.started(ctx, payload)
	// the actor outlives any commit that started it
	ctx = context.WithValue(ctx, commitKey{}, (*engine)(nil))
	go func() {
		defer close(f.done)
		f.val, f.err = a.run(ctx, payload)
		a.finished(ctx, rec, f.err)
	}()
	return f
}

func (a *Action[P, T]) run(ctx context.Context, payload P) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action %s panicked: %v", domain.Qualify(a.Path(), a.Name()), r)
		}
	}()
	return a.fn(ctx, payload)
}

func (a *Action[P, T]) started(ctx context.Context, payload P) domain.ActionRecord {
	e, t := a.scope.e, a.scope.tree
	rec := domain.ActionRecord{
		ID:        uuid.NewString(),
		Type:      a.Name(),
		Path:      t.path,
		Payload:   payload,
		Phase:     domain.ActionBefore,
		Timestamp: time.Now(),
	}
	e.logger.Debug("Action started", "action", rec.Qualified(), "id", rec.ID)
	if e.hooks.OnActionStart != nil {
		e.hooks.OnActionStart(ctx, &rec)
	}
	e.notify(ctx, t.before, rec, t.state)
	return rec
}

func (a *Action[P, T]) finished(ctx context.Context, rec domain.ActionRecord, err error) {
	e, t := a.scope.e, a.scope.tree
	rec.Phase = domain.ActionAfter
	rec.Duration = time.Since(rec.Timestamp)
	if err != nil {
		rec.Err = err.Error()
	}
	e.logger.Debug("Action finished", "action", rec.Qualified(), "id", rec.ID, "duration", rec.Duration, "error", err)
	if e.hooks.OnActionFinish != nil {
		e.hooks.OnActionFinish(ctx, &rec)
	}
	e.notify(ctx, t.after, rec, t.state)
}

// Name returns the declared or assigned name of the action.
func (a *Action[P, T]) Name() string {
	if a.name == "" {
		return domain.AnonymousName
	}
	return a.name
}

// Path returns the path of the scope that declared the action.
func (a *Action[P, T]) Path() string {
	if a.scope == nil {
		return ""
	}
	return a.scope.tree.path
}

// Kind classifies the action as an ActionHandle.
func (a *Action[P, T]) Kind() HandleKind {
	return ActionHandle
}

func (a *Action[P, T]) declaredName() string { return a.name }
func (a *Action[P, T]) assignName(n string)  { a.name = n }

// Future is the pending result of Action.Go.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Done is closed once the action finished and its after listeners ran.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the action finished or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
