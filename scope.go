package nuex

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/ports"
	"github.com/aretw0/nuex/pkg/reactive"
	"github.com/aretw0/nuex/pkg/registry"
)

const rootName = "root"

// engine is the state shared by every scope of one store: the reactive runtime, the commit
// stack and the initializing window.
type engine struct {
	rt     *reactive.Runtime
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	journal ports.Journal

	// lock serializes outermost commits and every locked read. It is a semaphore so that
	// waiting can give up with ctx.
	lock chan struct{}

	// pending holds the records of the commit in flight, journaled once the lock is released.
	pending []domain.MutationRecord
	// jmu keeps journal appends in commit order.
	jmu sync.Mutex

	cmu     sync.Mutex
	commits []*domain.MutationRecord

	initializing bool
	closed       bool
	root         *tree
	effects      []*reactive.Effect
}

type commitKey struct{}

func newEngine(logger *slog.Logger, hooks domain.LifecycleHooks, journal ports.Journal) *engine {
	return &engine{
		rt:           reactive.NewRuntime(),
		logger:       logger,
		hooks:        hooks,
		journal:      journal,
		lock:         make(chan struct{}, 1),
		initializing: true,
	}
}

// acquire takes the store lock, giving up with domain.ErrCommitBusy when ctx ends first.
func (e *engine) acquire(ctx context.Context) error {
	select {
	case e.lock <- struct{}{}:
		return nil
	default:
	}
	select {
	case e.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrCommitBusy, ctx.Err())
	}
}

func (e *engine) release() {
	<-e.lock
}

// exclusive runs fn under the store lock. A ctx derived from a commit of this store already
// holds it, so fn runs inline.
func (e *engine) exclusive(ctx context.Context, fn func()) error {
	if e.committing(ctx) {
		fn()
		return nil
	}
	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.release()
	fn()
	return nil
}

// locked runs fn under the store lock, waiting as long as it takes.
func (e *engine) locked(fn func()) {
	_ = e.exclusive(context.Background(), fn)
}

// committing reports whether ctx was derived from a commit of this store.
func (e *engine) committing(ctx context.Context) bool {
	owner, _ := ctx.Value(commitKey{}).(*engine)
	return owner == e
}

func (e *engine) pushCommit(rec *domain.MutationRecord) {
	e.cmu.Lock()
	defer e.cmu.Unlock()
	e.commits = append(e.commits, rec)
}

func (e *engine) popCommit() {
	e.cmu.Lock()
	defer e.cmu.Unlock()
	e.commits = e.commits[:len(e.commits)-1]
}

func (e *engine) currentCommit() *domain.MutationRecord {
	e.cmu.Lock()
	defer e.cmu.Unlock()
	if len(e.commits) == 0 {
		return nil
	}
	return e.commits[len(e.commits)-1]
}

func (e *engine) close() {
	if e.closed {
		return
	}
	e.closed = true
	for _, eff := range e.effects {
		eff.Stop()
	}
	e.effects = nil
	e.pending = nil
	if e.root != nil {
		e.root.walk(func(t *tree) {
			t.mutations.Clear()
			t.before.Clear()
			t.after.Clear()
		})
	}
}

// tree is one state tree (the store root or a module) and the listeners it owns.
type tree struct {
	name     string
	path     string
	strict   bool
	state    *reactive.Object
	parent   *tree
	children []*tree
	// guard is the write detector of this tree.
	guard *reactive.Effect

	mutations *registry.Listeners[Listener]
	before    *registry.Listeners[ActionListener]
	after     *registry.Listeners[ActionListener]

	// paths maps every node reached by the guard traversal to its location.
	paths map[uint64]string
}

func newTree(parent *tree, name string, state *reactive.Object, strict bool) *tree {
	path := name
	if parent != nil {
		path = parent.path + "/" + name
	}
	t := &tree{
		name:      name,
		path:      path,
		strict:    strict,
		state:     state,
		parent:    parent,
		mutations: registry.New[Listener](),
		before:    registry.New[ActionListener](),
		after:     registry.New[ActionListener](),
	}
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	return t
}

func (t *tree) walk(fn func(*tree)) {
	fn(t)
	for _, c := range t.children {
		c.walk(fn)
	}
}

// detach unmounts t from its parent and stops the guards of t and its descendants.
func (e *engine) detach(t *tree) {
	stopped := make(map[*reactive.Effect]bool)
	t.walk(func(d *tree) {
		if d.guard != nil {
			d.guard.Stop()
			stopped[d.guard] = true
		}
	})
	e.effects = slices.DeleteFunc(e.effects, func(eff *reactive.Effect) bool { return stopped[eff] })

	p := t.parent
	if p == nil {
		return
	}
	p.children = slices.DeleteFunc(p.children, func(c *tree) bool { return c == t })
	if p.state.Get(t.name) == t.state {
		if err := p.state.Delete(t.name); err != nil {
			e.logger.Warn("Failed to unmount module", "path", t.path, "error", err)
		}
	}
}

// locate returns the path of a node of this tree, as recorded by the last traversal.
func (t *tree) locate(n reactive.Node) string {
	if n != nil {
		if p, ok := t.paths[n.ID()]; ok {
			return p
		}
	}
	return t.path
}

func (t *tree) info(rt *reactive.Runtime) domain.ModuleInfo {
	info := domain.ModuleInfo{
		Name:   t.name,
		Path:   t.path,
		Strict: t.strict,
	}
	rt.Untracked(func() {
		info.Keys = t.state.Keys()
	})
	for _, c := range t.children {
		info.Children = append(info.Children, c.info(rt))
	}
	return info
}

func joinPath(base string, rel []string) string {
	if len(rel) == 0 {
		return base
	}
	return base + "/" + strings.Join(rel, "/")
}

// Scope is the construction context handed to a Setup function. It replaces the process-wide
// stacks of name path, current state and strictness: each module gets its own Scope, open only
// while its Setup runs.
type Scope struct {
	e    *engine
	tree *tree
	open bool
}

// Path returns the slash-separated name path of the scope ("root", "root/todos", ...).
func (s *Scope) Path() string {
	return s.tree.path
}

// Strict reports whether writes outside mutations fail in this scope.
func (s *Scope) Strict() bool {
	return s.tree.strict
}

// State returns the state tree owned by this scope.
func (s *Scope) State() *reactive.Object {
	return s.tree.state
}

// Runtime returns the reactive runtime of the store.
func (s *Scope) Runtime() *reactive.Runtime {
	return s.e.rt
}

// Logger returns the store logger.
func (s *Scope) Logger() *slog.Logger {
	return s.e.logger
}

// Open reports whether the scope's Setup is still running.
func (s *Scope) Open() bool {
	return s.open && s.e.initializing
}

// CurrentCommit returns the innermost mutation in flight, if any.
func (s *Scope) CurrentCommit() (domain.MutationRecord, bool) {
	rec := s.e.currentCommit()
	if rec == nil {
		return domain.MutationRecord{}, false
	}
	return *rec, true
}

// Read runs fn under the store lock, so fn may read any node of the store while other
// goroutines commit. Reactive nodes are not safe for concurrent use: outside Setup, a
// mutator or a listener (which already run under the lock), reads go through Read or a
// Getter. Called with the ctx of a mutator, fn runs inline.
func (s *Scope) Read(ctx context.Context, fn func()) error {
	return s.e.exclusive(ctx, fn)
}

// Getter wraps fn into a function reading under the store lock. It must not be called from a
// mutator or a listener: those hold the lock and read state directly.
func Getter[T any](s *Scope, fn func() T) func() T {
	return func() (v T) {
		s.e.locked(func() { v = fn() })
		return v
	}
}

// Computed declares a derived value over the store's state.
func Computed[T any](s *Scope, getter func() T) *reactive.Computed[T] {
	return reactive.NewComputed(s.e.rt, getter)
}
