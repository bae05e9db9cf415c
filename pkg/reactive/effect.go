package reactive

// Op is the kind of write that triggered an effect.
type Op string

const (
	OpSet    Op = "set"
	OpAdd    Op = "add"
	OpDelete Op = "delete"
	OpClear  Op = "clear"
)

// TriggerEvent describes a single write observed by an effect.
type TriggerEvent struct {
	Kind     Op
	Target   Node
	Key      any
	OldValue any
	NewValue any
}

// Effect is a tracked computation. It records the dependencies read during its last run
// and is re-run (or handed to its scheduler) when one of them changes.
type Effect struct {
	rt        *Runtime
	id        uint64
	fn        func() error
	scheduler func(*Effect, TriggerEvent) error
	onTrigger func(TriggerEvent)
	deps      map[depKey]struct{}
	active    bool
	running   bool
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// WithScheduler replaces the default re-run with fn. The scheduler decides whether and when
// to call Run again.
func WithScheduler(fn func(*Effect, TriggerEvent) error) EffectOption {
	return func(e *Effect) {
		e.scheduler = fn
	}
}

// WithOnTrigger observes every trigger before the effect is re-run or scheduled.
func WithOnTrigger(fn func(TriggerEvent)) EffectOption {
	return func(e *Effect) {
		e.onTrigger = fn
	}
}

// Effect creates a tracked computation and runs it once immediately.
// The returned error is the error of that first run; the effect is registered either way.
func (rt *Runtime) Effect(fn func() error, opts ...EffectOption) (*Effect, error) {
	e := rt.newEffect(fn)
	for _, opt := range opts {
		opt(e)
	}
	return e, e.Run()
}

func (rt *Runtime) newEffect(fn func() error) *Effect {
	return &Effect{
		rt:     rt,
		id:     rt.allocID(),
		fn:     fn,
		deps:   make(map[depKey]struct{}),
		active: true,
	}
}

// Run re-executes the computation, replacing its previous dependencies with the ones read
// during this run. A stopped effect runs untracked.
func (e *Effect) Run() error {
	if !e.active {
		var err error
		e.rt.Untracked(func() { err = e.fn() })
		return err
	}
	if e.running {
		return nil
	}

	e.rt.untrack(e)
	e.running = true
	paused := e.rt.paused
	e.rt.paused = 0
	e.rt.stack = append(e.rt.stack, e)
	defer func() {
		e.rt.stack = e.rt.stack[:len(e.rt.stack)-1]
		e.rt.paused = paused
		e.running = false
	}()

	return e.fn()
}

// Stop detaches the effect from every dependency. It is safe to call more than once.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.rt.untrack(e)
	e.active = false
}

// Active reports whether the effect still reacts to writes.
func (e *Effect) Active() bool {
	return e.active
}

// Dependencies returns the number of (node, key) pairs read during the last run.
func (e *Effect) Dependencies() int {
	return len(e.deps)
}

func (e *Effect) fire(ev TriggerEvent) error {
	if e.onTrigger != nil {
		e.onTrigger(ev)
	}
	if e.scheduler != nil {
		return e.scheduler(e, ev)
	}
	return e.Run()
}
