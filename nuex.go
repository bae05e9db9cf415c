package nuex

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/nuex/internal/logging"
	"github.com/aretw0/nuex/pkg/domain"
	"github.com/aretw0/nuex/pkg/ports"
	"github.com/aretw0/nuex/pkg/reactive"
)

// Config declares a store or a module: its initial state, the Setup building its API, and
// whether writes outside mutations are fatal.
type Config[R any] struct {
	State map[string]any
	// Setup runs once, synchronously, while the store is initializing.
	Setup  func(s *Scope, state *reactive.Object) (R, error)
	Strict bool
}

type storeOptions struct {
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	journal ports.Journal
	name    string
}

// Option defines a functional option for configuring a Store.
type Option func(*storeOptions)

// WithLogger sets a custom structured logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// Calling it more than once chains the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *storeOptions) {
		o.hooks = domain.MergeHooks(o.hooks, hooks)
	}
}

// WithJournal appends the record of every successful commit to j. Records are appended once
// the outermost commit released the store lock, before Commit returns, so a slow journal
// delays the committing caller but not other commits or reads.
func WithJournal(j ports.Journal) Option {
	return func(o *storeOptions) {
		o.journal = j
	}
}

// WithName sets the name of the root state tree (default "root").
func WithName(name string) Option {
	return func(o *storeOptions) {
		o.name = name
	}
}

// Store is a composed state container. API is the value returned by the root Setup.
type Store[R any] struct {
	API   R
	State *reactive.Object

	subscriptions
}

// CreateStore builds a store: it wraps cfg.State, guards it, runs cfg.Setup inside the
// initializing window, names the handles found in the returned API and closes the window.
func CreateStore[R any](cfg Config[R], opts ...Option) (*Store[R], error) {
	o := storeOptions{
		logger: logging.NewNop(),
		name:   rootName,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	e := newEngine(o.logger, o.hooks, o.journal)
	state := e.rt.Reactive(cfg.State)
	t := newTree(nil, o.name, state, cfg.Strict)
	e.root = t
	if err := e.guard(t); err != nil {
		e.close()
		return nil, err
	}

	scope := &Scope{e: e, tree: t, open: true}
	var api R
	if cfg.Setup != nil {
		var err error
		api, err = cfg.Setup(scope, state)
		if err != nil {
			e.close()
			return nil, fmt.Errorf("setup %s: %w", t.path, err)
		}
	}
	scope.open = false
	nameHandles(api)
	e.initializing = false

	e.logger.Debug("Store created", "name", t.name, "strict", t.strict, "modules", len(t.children))

	return &Store[R]{
		API:           api,
		State:         state,
		subscriptions: subscriptions{e: e, tree: t},
	}, nil
}

// SubscribeAll registers l on every state tree of the store, the root and all modules.
func (s *Store[R]) SubscribeAll(l Listener) (unsubscribe func()) {
	var offs []func()
	s.tree.walk(func(t *tree) {
		offs = append(offs, subscriptions{e: s.e, tree: t}.Subscribe(l))
	})
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// CurrentCommit returns the innermost mutation in flight, if any.
func (s *Store[R]) CurrentCommit() (domain.MutationRecord, bool) {
	rec := s.e.currentCommit()
	if rec == nil {
		return domain.MutationRecord{}, false
	}
	return *rec, true
}

// PathOf returns the path of the state tree whose root is state, or "" if state is not the
// root of a tree of this store.
func (s *Store[R]) PathOf(state *reactive.Object) string {
	path := ""
	s.tree.walk(func(t *tree) {
		if t.state == state {
			path = t.path
		}
	})
	return path
}

// Snapshot returns a plain deep copy of the whole state, modules included.
// It waits for the commit in flight, so it must not be called from a mutation or a listener;
// those receive the state tree and can use reactive.Snapshot directly.
func (s *Store[R]) Snapshot() (snap map[string]any) {
	s.e.locked(func() { snap = s.State.Snapshot() })
	return snap
}

// Read runs fn with the root state under the store lock. See Scope.Read.
func (s *Store[R]) Read(ctx context.Context, fn func(state *reactive.Object)) error {
	return s.e.exclusive(ctx, func() { fn(s.State) })
}

// Modules describes every state tree of the store, parents first.
func (s *Store[R]) Modules() []domain.ModuleInfo {
	var out []domain.ModuleInfo
	s.Tree().Walk(func(m domain.ModuleInfo) {
		m.Children = nil
		out = append(out, m)
	})
	return out
}

// Tree describes the root state tree with its nested modules.
func (s *Store[R]) Tree() (info domain.ModuleInfo) {
	s.e.locked(func() { info = s.tree.info(s.e.rt) })
	return info
}

// Close stops every guard and drops every listener. Mutations committed afterwards fail with
// domain.ErrClosed. Close is idempotent.
func (s *Store[R]) Close() error {
	s.e.locked(s.e.close)
	return nil
}
