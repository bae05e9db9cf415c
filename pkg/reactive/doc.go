/*
Package reactive implements the dependency-tracking primitive the nuex store is built on.

A Runtime owns a dependency graph of (node, key) pairs. Tracked nodes (Object, List, Map, Set)
record a dependency for the running Effect on every read, and re-schedule the dependent effects
on every write that actually changes a value.

# Tracking

	rt := reactive.NewRuntime()
	state := rt.Reactive(map[string]any{"count": 0})

	eff, _ := rt.Effect(func() error {
		fmt.Println("count is", state.Get("count"))
		return nil
	})
	defer eff.Stop()

	_ = state.Set("count", 1) // prints "count is 1"

Errors returned by an effect (or by its scheduler) are returned from the write that triggered
it. The store uses this to surface strict-mode violations at the offending write.

# Traversal

Walk visits every node reachable from a value, skipping nodes already seen and never descending
into a nested module (a node marked with MarkModule) past the starting node. Walking inside an
effect therefore subscribes it to the whole tree owned by one module.

The Runtime is not safe for concurrent use.
*/
package reactive
