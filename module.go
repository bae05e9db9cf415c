package nuex

import (
	"fmt"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/reactive"
)

// AnonymousModule is the name given to modules created with an empty name.
const AnonymousModule = "anonymous"

// Module is a namespaced state tree mounted under its parent's state. API is the value
// returned by its Setup.
type Module[R any] struct {
	API   R
	State *reactive.Object

	subscriptions
}

// CreateModule mounts a module under the state of s. It must be called from the Setup that
// received s, while the store is still initializing. When the module's Setup fails, the module
// and everything its Setup mounted are removed again, so the parent may recover from the error.
func CreateModule[R any](s *Scope, name string, cfg Config[R]) (*Module[R], error) {
	if s == nil || !s.Open() {
		return nil, &domain.LifecycleError{Op: "create module", Name: name}
	}
	if name == "" {
		name = AnonymousModule
	}

	e, parent := s.e, s.tree
	state := e.rt.Reactive(cfg.State)
	reactive.MarkModule(state, name)

	if parent.state.Has(name) {
		return nil, &domain.NameConflictError{Parent: parent.path, Name: name}
	}
	if err := parent.state.Set(name, state); err != nil {
		return nil, fmt.Errorf("mount module %s: %w", name, err)
	}

	t := newTree(parent, name, state, parent.strict || cfg.Strict)
	if err := e.guard(t); err != nil {
		e.detach(t)
		return nil, err
	}

	child := &Scope{e: e, tree: t, open: true}
	var api R
	if cfg.Setup != nil {
		var err error
		api, err = cfg.Setup(child, state)
		if err != nil {
			child.open = false
			e.detach(t)
			return nil, fmt.Errorf("setup %s: %w", t.path, err)
		}
	}
	child.open = false
	nameHandles(api)

	e.logger.Debug("Module created", "path", t.path, "strict", t.strict)

	return &Module[R]{
		API:           api,
		State:         state,
		subscriptions: subscriptions{e: e, tree: t},
	}, nil
}

// Name returns the key the module is mounted under.
func (m *Module[R]) Name() string {
	return m.tree.name
}

// Path returns the slash-separated path of the module.
func (m *Module[R]) Path() string {
	return m.tree.path
}

// Kind classifies the module as a ModuleHandle.
func (m *Module[R]) Kind() HandleKind {
	return ModuleHandle
}
