package reactive

import (
	"errors"
	"reflect"
)

// ErrIndexOutOfRange is returned by List writes addressing a missing index.
var ErrIndexOutOfRange = errors.New("index out of range")

// Node is a tracked value owned by a Runtime.
type Node interface {
	// ID is the identity of the node inside its runtime.
	ID() uint64
	// Runtime returns the dependency graph the node reports to.
	Runtime() *Runtime
	base() *node
}

type node struct {
	rt     *Runtime
	id     uint64
	module string
	marked bool
}

func (rt *Runtime) newNode() node {
	return node{rt: rt, id: rt.allocID()}
}

func (n *node) ID() uint64        { return n.id }
func (n *node) Runtime() *Runtime { return n.rt }
func (n *node) base() *node       { return n }

// MarkModule tags n as the state root of the module called name.
// The marker is not a key of the node and is invisible to reads and snapshots.
func MarkModule(n Node, name string) {
	b := n.base()
	b.module = name
	b.marked = true
}

// ModuleName returns the module name recorded on v, if v is a marked node.
func ModuleName(v any) (string, bool) {
	n, ok := v.(Node)
	if !ok || n == nil {
		return "", false
	}
	b := n.base()
	return b.module, b.marked
}

// IsModule reports whether v is the state root of a module.
func IsModule(v any) bool {
	_, ok := ModuleName(v)
	return ok
}

// same reports whether a write of b over a would be a no-op.
func same(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	// Comparable structs may still hold uncomparable dynamic values.
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
