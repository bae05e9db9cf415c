/*
Package domain contains the plain types shared by the nuex store and its adapters.

It is kept free of I/O and of the reactive runtime so that journals, inspectors and metrics
can depend on it without pulling in the store.

# Key Entities

  - MutationRecord: the commit context of an in-flight mutation (type, path, payload).
  - ActionRecord: the before/after notification of an action invocation.
  - TriggerEvent: a write observed by a store guard, located by its tree path.
  - ModuleInfo: the shape of the module tree, for introspection.
  - LifecycleHooks: callbacks for observability (metrics, tracing, logging).
*/
package domain
