package reactive

type valueKey struct{}

// Computed is a lazily evaluated derived value. It recomputes only when read after one of
// the values it depends on changed, and is itself tracked by effects that read it.
type Computed[T any] struct {
	rt     *Runtime
	id     uint64
	value  T
	dirty  bool
	effect *Effect
}

// NewComputed creates a derived value from getter. The getter does not run until Get.
func NewComputed[T any](rt *Runtime, getter func() T) *Computed[T] {
	c := &Computed[T]{
		rt:    rt,
		id:    rt.allocID(),
		dirty: true,
	}
	c.effect = rt.newEffect(func() error {
		c.value = getter()
		return nil
	})
	c.effect.scheduler = func(*Effect, TriggerEvent) error {
		if c.dirty {
			return nil
		}
		c.dirty = true
		return rt.trigger(TriggerEvent{Kind: OpSet, Key: "value"}, c.id, valueKey{})
	}
	return c
}

// Get returns the cached value, recomputing it first if an input changed.
func (c *Computed[T]) Get() T {
	if c.dirty || !c.effect.Active() {
		c.dirty = false
		_ = c.effect.Run()
	}
	c.rt.track(c.id, valueKey{})
	return c.value
}

// Stop detaches the computed value from its inputs. Later reads recompute every time.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
	c.dirty = true
}
