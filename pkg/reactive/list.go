package reactive

import "fmt"

// List is a tracked ordered sequence.
type List struct {
	node
	items []any
}

// NewList creates a tracked list holding items.
func (rt *Runtime) NewList(items ...any) *List {
	l := &List{node: rt.newNode()}
	for _, item := range items {
		l.items = append(l.items, rt.toReactive(item))
	}
	return l
}

// Get returns the item at i, or nil when i is out of range.
func (l *List) Get(i int) any {
	l.rt.track(l.id, i)
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Len returns the number of items.
func (l *List) Len() int {
	l.rt.track(l.id, iterate)
	return len(l.items)
}

// Items returns a copy of the items. Every index is tracked.
func (l *List) Items() []any {
	l.rt.track(l.id, iterate)
	for i := range l.items {
		l.rt.track(l.id, i)
	}
	return append([]any(nil), l.items...)
}

// Range calls fn for every item in order until fn returns false.
func (l *List) Range(fn func(i int, value any) bool) {
	n := l.Len()
	for i := 0; i < n; i++ {
		if !fn(i, l.Get(i)) {
			return
		}
	}
}

// Set replaces the item at i. Setting index Len() appends.
func (l *List) Set(i int, value any) error {
	if i == len(l.items) {
		return l.Append(value)
	}
	if i < 0 || i > len(l.items) {
		return fmt.Errorf("set %d of %d: %w", i, len(l.items), ErrIndexOutOfRange)
	}
	value = l.rt.toReactive(value)
	old := l.items[i]
	if same(old, value) {
		return nil
	}
	l.items[i] = value
	return l.rt.trigger(TriggerEvent{Kind: OpSet, Target: l, Key: i, OldValue: old, NewValue: value}, l.id, i)
}

// Append adds values at the end, triggering once per value.
func (l *List) Append(values ...any) error {
	for _, v := range values {
		v = l.rt.toReactive(v)
		idx := len(l.items)
		l.items = append(l.items, v)
		if err := l.rt.trigger(TriggerEvent{Kind: OpAdd, Target: l, Key: idx, NewValue: v}, l.id, idx, iterate); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAt deletes the item at i, shifting later items down.
func (l *List) RemoveAt(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("remove %d of %d: %w", i, len(l.items), ErrIndexOutOfRange)
	}
	old := l.items[i]
	n := len(l.items)
	l.items = append(l.items[:i], l.items[i+1:]...)
	return l.rt.trigger(TriggerEvent{Kind: OpDelete, Target: l, Key: i, OldValue: old}, l.id, shifted(i, n)...)
}

// Clear removes every item.
func (l *List) Clear() error {
	if len(l.items) == 0 {
		return nil
	}
	old := l.items
	l.items = nil
	return l.rt.trigger(TriggerEvent{Kind: OpClear, Target: l, OldValue: old}, l.id, shifted(0, len(old))...)
}

// shifted lists the dependency keys invalidated when indices [from, n) move.
func shifted(from, n int) []any {
	keys := make([]any, 0, n-from+1)
	keys = append(keys, iterate)
	for i := from; i < n; i++ {
		keys = append(keys, i)
	}
	return keys
}
