package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLifecycle matches every LifecycleError.
	ErrLifecycle = errors.New("lifecycle violation")

	// ErrNameConflict matches every NameConflictError.
	ErrNameConflict = errors.New("module name conflict")

	// ErrStrictMode matches every StrictModeViolation.
	ErrStrictMode = errors.New("strict mode violation")

	// ErrClosed is returned by commits on a closed store.
	ErrClosed = errors.New("store closed")

	// ErrCommitBusy is returned when ctx ends while waiting for the commit in flight.
	ErrCommitBusy = errors.New("commit in flight")
)

// LifecycleError is returned when the module or mutation API is used outside the
// initialization window it requires.
type LifecycleError struct {
	Op   string // "create module", "declare mutation", ...
	Name string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("cannot %s %q outside of store init", e.Op, e.Name)
}

func (e *LifecycleError) Is(target error) bool {
	return target == ErrLifecycle
}

// NameConflictError is returned when a module name collides with an existing key of its parent.
type NameConflictError struct {
	Parent string
	Name   string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("module name %q conflicts with existing state or module in %s", e.Name, e.Parent)
}

func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// StrictModeViolation is returned from a write performed outside of any mutation on a
// strict state tree. The write has already been applied.
type StrictModeViolation struct {
	Path     string
	Kind     string
	OldValue any
	NewValue any
}

func (e *StrictModeViolation) Error() string {
	return fmt.Sprintf("do not mutate state outside mutation handlers: %s %s", e.Kind, e.Path)
}

func (e *StrictModeViolation) Is(target error) bool {
	return target == ErrStrictMode
}

// UnguardedWriteWarning reports the same condition on a non-strict tree. It is never returned
// from a write; it only reaches logs and the OnViolation hook.
type UnguardedWriteWarning struct {
	Path     string
	Kind     string
	OldValue any
	NewValue any
}

func (w *UnguardedWriteWarning) Error() string {
	return fmt.Sprintf("state mutated outside mutation handlers: %s %s", w.Kind, w.Path)
}
