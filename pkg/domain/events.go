package domain

import "context"

// TriggerEvent is a write observed by the guard of a state tree.
type TriggerEvent struct {
	Kind     string          `json:"kind"` // set, add, delete, clear
	Path     string          `json:"path"` // path of the written node, e.g. root/todos/items
	Key      string          `json:"key,omitempty"`
	OldValue any             `json:"old_value,omitempty"`
	NewValue any             `json:"new_value,omitempty"`
	Commit   *MutationRecord `json:"commit,omitempty"`
}

// KeyPath returns the path of the written key.
func (e TriggerEvent) KeyPath() string {
	if e.Key == "" {
		return e.Path
	}
	return e.Path + "/" + e.Key
}

// LifecycleHooks defines callbacks for store observability.
// Hooks run synchronously on the goroutine performing the operation.
type LifecycleHooks struct {
	OnMutation     func(context.Context, *MutationRecord)
	OnActionStart  func(context.Context, *ActionRecord)
	OnActionFinish func(context.Context, *ActionRecord)
	OnTrigger      func(context.Context, *TriggerEvent)
	// OnViolation receives a *StrictModeViolation or an *UnguardedWriteWarning.
	OnViolation func(context.Context, error)
}

// MergeHooks chains several hook sets; each callback runs in argument order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		merged.OnMutation = chain(merged.OnMutation, h.OnMutation)
		merged.OnActionStart = chain(merged.OnActionStart, h.OnActionStart)
		merged.OnActionFinish = chain(merged.OnActionFinish, h.OnActionFinish)
		merged.OnTrigger = chain(merged.OnTrigger, h.OnTrigger)
		merged.OnViolation = chain(merged.OnViolation, h.OnViolation)
	}
	return merged
}

func chain[T any](first, next func(context.Context, T)) func(context.Context, T) {
	if first == nil {
		return next
	}
	if next == nil {
		return first
	}
	return func(ctx context.Context, v T) {
		first(ctx, v)
		next(ctx, v)
	}
}
