package reactive

import "fmt"

// Visitor receives every node reached by Walk and its key path from the starting value.
type Visitor func(n Node, path []string)

// Walk visits the graph reachable from value depth-first, reading through the tracked API.
// Nodes are visited once. A node marked as a module is not entered unless it is value itself,
// so a parent tracks the identity of a child module but none of its contents.
func Walk(value any, visit Visitor) {
	walk(value, nil, make(map[uint64]struct{}), visit)
}

// Traverse walks value for its tracking side effect and returns it.
func Traverse(value any) any {
	Walk(value, nil)
	return value
}

func walk(value any, path []string, seen map[uint64]struct{}, visit Visitor) {
	n, ok := value.(Node)
	if !ok || n == nil {
		return
	}
	id := n.ID()
	if _, dup := seen[id]; dup {
		return
	}
	if len(seen) > 0 && IsModule(n) {
		return
	}
	seen[id] = struct{}{}
	if visit != nil {
		visit(n, path)
	}

	switch x := n.(type) {
	case *Object:
		for _, k := range x.Keys() {
			walk(x.Get(k), extend(path, k), seen, visit)
		}
	case *List:
		for i, count := 0, x.Len(); i < count; i++ {
			walk(x.Get(i), extend(path, fmt.Sprint(i)), seen, visit)
		}
	case *Map:
		for _, k := range x.Keys() {
			walk(x.Get(k), extend(path, fmt.Sprint(k)), seen, visit)
		}
	case *Set:
		for _, v := range x.Values() {
			walk(v, extend(path, "*"), seen, visit)
		}
	}
}

func extend(path []string, key string) []string {
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = key
	return next
}

// Snapshot returns an untracked deep copy of value as plain Go data: objects become
// map[string]any, lists and sets []any, maps map[string]any keyed by fmt.Sprint.
// A node reached again through its own descendants renders as "[circular]".
func Snapshot(value any) any {
	return snapshot(value, make(map[uint64]struct{}))
}

func snapshot(value any, ancestors map[uint64]struct{}) any {
	n, ok := value.(Node)
	if !ok || n == nil {
		return value
	}
	id := n.ID()
	if _, loop := ancestors[id]; loop {
		return "[circular]"
	}
	ancestors[id] = struct{}{}
	defer delete(ancestors, id)

	switch x := n.(type) {
	case *Object:
		out := make(map[string]any, len(x.keys))
		for _, k := range x.keys {
			out[k] = snapshot(x.values[k], ancestors)
		}
		return out
	case *List:
		out := make([]any, len(x.items))
		for i, v := range x.items {
			out[i] = snapshot(v, ancestors)
		}
		return out
	case *Map:
		out := make(map[string]any, len(x.keys))
		for _, k := range x.keys {
			out[fmt.Sprint(k)] = snapshot(x.values[k], ancestors)
		}
		return out
	case *Set:
		out := make([]any, len(x.members))
		for i, v := range x.members {
			out[i] = snapshot(v, ancestors)
		}
		return out
	}
	return value
}
