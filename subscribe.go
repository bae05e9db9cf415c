package nuex

import (
	"context"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/reactive"
	"github.com/aretw0/nuex/pkg/registry"
)

// Listener is notified once per write performed by a mutation on the state tree it
// subscribed to. It runs inside the commit and must not block on the store.
type Listener func(rec domain.MutationRecord, state *reactive.Object)

// ActionListener is notified around actions declared in the scope of the state tree it
// subscribed to. Like Listener, it runs under the store lock.
type ActionListener func(rec domain.ActionRecord, state *reactive.Object)

// ActionHooks groups the optional before and after action listeners.
type ActionHooks struct {
	Before ActionListener
	After  ActionListener
}

// subscriptions binds the subscription API to one state tree. Listeners are owned by the tree,
// not looked up by name, so two modules sharing a name stay independent.
type subscriptions struct {
	e    *engine
	tree *tree
}

// Subscribe registers l for the commits writing this state tree, after every listener
// already registered. The returned function removes it; calling it again is a no-op.
func (s subscriptions) Subscribe(l Listener) (unsubscribe func()) {
	tok := s.tree.mutations.Register(l)
	return func() {
		s.tree.mutations.Remove(tok)
	}
}

// SubscribeAction registers the non-nil hooks of h.
func (s subscriptions) SubscribeAction(h ActionHooks) (unsubscribe func()) {
	var offs []func()
	if h.Before != nil {
		tok := s.tree.before.Register(h.Before)
		offs = append(offs, func() { s.tree.before.Remove(tok) })
	}
	if h.After != nil {
		tok := s.tree.after.Register(h.After)
		offs = append(offs, func() { s.tree.after.Remove(tok) })
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// SubscribeActionFunc registers fn as a before listener.
func (s subscriptions) SubscribeActionFunc(fn ActionListener) (unsubscribe func()) {
	return s.SubscribeAction(ActionHooks{Before: fn})
}

// notify calls the action listeners of ls under the store lock. Cancellation of ctx does not
// skip them.
func (e *engine) notify(ctx context.Context, ls *registry.Listeners[ActionListener], rec domain.ActionRecord, state *reactive.Object) {
	listeners := ls.Snapshot()
	if len(listeners) == 0 {
		return
	}
	_ = e.exclusive(context.WithoutCancel(ctx), func() {
		for _, l := range listeners {
			l(rec, state)
		}
	})
}
