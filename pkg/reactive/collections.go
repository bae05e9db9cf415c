package reactive

// Map is a tracked dictionary with comparable keys and insertion order.
type Map struct {
	node
	keys   []any
	values map[any]any
}

// NewMap creates an empty tracked map.
func (rt *Runtime) NewMap() *Map {
	return &Map{
		node:   rt.newNode(),
		values: make(map[any]any),
	}
}

// Get returns the value stored under key, or nil.
func (m *Map) Get(key any) any {
	m.rt.track(m.id, key)
	return m.values[key]
}

// Has reports whether key exists.
func (m *Map) Has(key any) bool {
	m.rt.track(m.id, key)
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []any {
	m.rt.track(m.id, iterate)
	return append([]any(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	m.rt.track(m.id, iterate)
	return len(m.keys)
}

// Range calls fn for every entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key, value any) bool) {
	for _, k := range m.Keys() {
		if !fn(k, m.Get(k)) {
			return
		}
	}
}

// Set stores value under key.
func (m *Map) Set(key, value any) error {
	value = m.rt.toReactive(value)
	old, had := m.values[key]
	if !had {
		m.keys = append(m.keys, key)
		m.values[key] = value
		return m.rt.trigger(TriggerEvent{Kind: OpAdd, Target: m, Key: key, NewValue: value}, m.id, key, iterate)
	}
	if same(old, value) {
		return nil
	}
	m.values[key] = value
	return m.rt.trigger(TriggerEvent{Kind: OpSet, Target: m, Key: key, OldValue: old, NewValue: value}, m.id, key)
}

// Delete removes key. Deleting a missing key is a no-op.
func (m *Map) Delete(key any) error {
	old, had := m.values[key]
	if !had {
		return nil
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return m.rt.trigger(TriggerEvent{Kind: OpDelete, Target: m, Key: key, OldValue: old}, m.id, key, iterate)
}

// Clear removes every entry.
func (m *Map) Clear() error {
	if len(m.keys) == 0 {
		return nil
	}
	keys := append([]any{iterate}, m.keys...)
	m.keys = nil
	m.values = make(map[any]any)
	return m.rt.trigger(TriggerEvent{Kind: OpClear, Target: m}, m.id, keys...)
}

// Set is a tracked collection of unique comparable members.
type Set struct {
	node
	members []any
	index   map[any]struct{}
}

// NewSet creates a tracked set holding members.
func (rt *Runtime) NewSet(members ...any) *Set {
	s := &Set{
		node:  rt.newNode(),
		index: make(map[any]struct{}),
	}
	for _, v := range members {
		v = rt.toReactive(v)
		if _, ok := s.index[v]; !ok {
			s.index[v] = struct{}{}
			s.members = append(s.members, v)
		}
	}
	return s
}

// Has reports whether v is a member.
func (s *Set) Has(v any) bool {
	s.rt.track(s.id, v)
	_, ok := s.index[v]
	return ok
}

// Values returns the members in insertion order.
func (s *Set) Values() []any {
	s.rt.track(s.id, iterate)
	return append([]any(nil), s.members...)
}

// Len returns the number of members.
func (s *Set) Len() int {
	s.rt.track(s.id, iterate)
	return len(s.members)
}

// Add inserts v. Adding an existing member is a no-op.
func (s *Set) Add(v any) error {
	v = s.rt.toReactive(v)
	if _, ok := s.index[v]; ok {
		return nil
	}
	s.index[v] = struct{}{}
	s.members = append(s.members, v)
	return s.rt.trigger(TriggerEvent{Kind: OpAdd, Target: s, Key: v, NewValue: v}, s.id, v, iterate)
}

// Delete removes v. Removing a missing member is a no-op.
func (s *Set) Delete(v any) error {
	if _, ok := s.index[v]; !ok {
		return nil
	}
	delete(s.index, v)
	for i, m := range s.members {
		if m == v {
			s.members = append(s.members[:i], s.members[i+1:]...)
			break
		}
	}
	return s.rt.trigger(TriggerEvent{Kind: OpDelete, Target: s, Key: v, OldValue: v}, s.id, v, iterate)
}

// Clear removes every member.
func (s *Set) Clear() error {
	if len(s.members) == 0 {
		return nil
	}
	keys := append([]any{iterate}, s.members...)
	s.members = nil
	s.index = make(map[any]struct{})
	return s.rt.trigger(TriggerEvent{Kind: OpClear, Target: s}, s.id, keys...)
}
