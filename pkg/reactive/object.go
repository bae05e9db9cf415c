package reactive

import "sort"

// Object is a tracked record with insertion-ordered string keys.
type Object struct {
	node
	keys   []string
	values map[string]any
}

// NewObject creates an empty tracked object.
func (rt *Runtime) NewObject() *Object {
	return &Object{
		node:   rt.newNode(),
		values: make(map[string]any),
	}
}

// Reactive deep-converts data into a tracked object. Keys are inserted in sorted order
// since Go maps carry none.
func (rt *Runtime) Reactive(data map[string]any) *Object {
	o := rt.NewObject()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.keys = append(o.keys, k)
		o.values[k] = rt.toReactive(data[k])
	}
	return o
}

// Get returns the value stored under key, or nil.
func (o *Object) Get(key string) any {
	o.rt.track(o.id, key)
	return o.values[key]
}

// Lookup returns the value stored under key and whether the key exists.
func (o *Object) Lookup(key string) (any, bool) {
	o.rt.track(o.id, key)
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key exists.
func (o *Object) Has(key string) bool {
	o.rt.track(o.id, key)
	_, ok := o.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	o.rt.track(o.id, iterate)
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	o.rt.track(o.id, iterate)
	return len(o.keys)
}

// Range calls fn for every entry in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	for _, k := range o.Keys() {
		if !fn(k, o.Get(k)) {
			return
		}
	}
}

// Set stores value under key. Plain maps and slices are converted to tracked nodes.
// Dependent effects run before Set returns; their errors are returned.
func (o *Object) Set(key string, value any) error {
	value = o.rt.toReactive(value)
	old, had := o.values[key]
	if !had {
		o.keys = append(o.keys, key)
		o.values[key] = value
		return o.rt.trigger(TriggerEvent{Kind: OpAdd, Target: o, Key: key, NewValue: value}, o.id, key, iterate)
	}
	if same(old, value) {
		return nil
	}
	o.values[key] = value
	return o.rt.trigger(TriggerEvent{Kind: OpSet, Target: o, Key: key, OldValue: old, NewValue: value}, o.id, key)
}

// Delete removes key. Deleting a missing key is a no-op.
func (o *Object) Delete(key string) error {
	old, had := o.values[key]
	if !had {
		return nil
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return o.rt.trigger(TriggerEvent{Kind: OpDelete, Target: o, Key: key, OldValue: old}, o.id, key, iterate)
}

// Snapshot returns an untracked deep copy of the object as plain data.
func (o *Object) Snapshot() map[string]any {
	m, _ := Snapshot(o).(map[string]any)
	return m
}

// Get is a typed read of key. It returns the zero value when the key is missing or holds
// another type.
func Get[T any](o *Object, key string) T {
	v, _ := o.Get(key).(T)
	return v
}
