package reactive

import (
	"errors"
	"sort"
)

// iterateKey is the dependency key recorded by reads that depend on the shape of a node
// (its keys, length or members) rather than on a single entry.
type iterateKey struct{}

var iterate = iterateKey{}

type depKey struct {
	node uint64
	key  any
}

// Runtime owns the dependency graph shared by every node and effect it creates.
type Runtime struct {
	nextID uint64
	deps   map[depKey]map[*Effect]struct{}
	stack  []*Effect
	paused int
}

// NewRuntime creates an empty dependency graph.
func NewRuntime() *Runtime {
	return &Runtime{
		deps: make(map[depKey]map[*Effect]struct{}),
	}
}

func (rt *Runtime) allocID() uint64 {
	rt.nextID++
	return rt.nextID
}

// active returns the effect that should receive dependencies, if any.
func (rt *Runtime) active() *Effect {
	if rt.paused > 0 || len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// Tracking reports whether a read performed now would be recorded.
func (rt *Runtime) Tracking() bool {
	return rt.active() != nil
}

// Untracked runs fn without recording dependencies for the running effect.
func (rt *Runtime) Untracked(fn func()) {
	rt.paused++
	defer func() { rt.paused-- }()
	fn()
}

func (rt *Runtime) track(node uint64, key any) {
	e := rt.active()
	if e == nil {
		return
	}
	k := depKey{node: node, key: key}
	set, ok := rt.deps[k]
	if !ok {
		set = make(map[*Effect]struct{})
		rt.deps[k] = set
	}
	set[e] = struct{}{}
	e.deps[k] = struct{}{}
}

// trigger fires every effect depending on one of keys of node, in creation order.
func (rt *Runtime) trigger(ev TriggerEvent, node uint64, keys ...any) error {
	seen := make(map[*Effect]struct{})
	var targets []*Effect
	for _, key := range keys {
		for e := range rt.deps[depKey{node: node, key: key}] {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			targets = append(targets, e)
		}
	}
	if len(targets) == 0 {
		return nil
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	var errs []error
	for _, e := range targets {
		// An effect never re-triggers itself while it runs.
		if !e.active || e.running {
			continue
		}
		if err := e.fire(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (rt *Runtime) untrack(e *Effect) {
	for k := range e.deps {
		if set, ok := rt.deps[k]; ok {
			delete(set, e)
			if len(set) == 0 {
				delete(rt.deps, k)
			}
		}
	}
	e.deps = make(map[depKey]struct{})
}

// toReactive converts plain data into tracked nodes owned by rt.
// Existing nodes and scalar values are returned unchanged.
func (rt *Runtime) toReactive(v any) any {
	switch x := v.(type) {
	case Node:
		return x
	case map[string]any:
		return rt.Reactive(x)
	case []any:
		l := rt.NewList()
		for _, item := range x {
			l.items = append(l.items, rt.toReactive(item))
		}
		return l
	default:
		return v
	}
}
