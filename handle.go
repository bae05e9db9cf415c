package nuex

import (
	"reflect"

	"github.com/aretw0/nuex/pkg/reactive"
)

// HandleKind tells what a value found in a store API is.
type HandleKind int

const (
	// PlainValue is any API value that is not a handle: a getter, a computed, a constant.
	PlainValue HandleKind = iota
	// ModuleHandle is a *Module returned by CreateModule.
	ModuleHandle
	// MutationHandle is a *Mutation returned by NewMutation.
	MutationHandle
	// ActionHandle is an *Action returned by NewAction.
	ActionHandle
)

func (k HandleKind) String() string {
	switch k {
	case ModuleHandle:
		return "module"
	case MutationHandle:
		return "mutation"
	case ActionHandle:
		return "action"
	default:
		return "value"
	}
}

type kinded interface {
	Kind() HandleKind
}

// namedHandle is implemented by mutations and actions.
type namedHandle interface {
	kinded
	declaredName() string
	assignName(string)
}

// KindOf classifies v. Module state trees count as modules.
func KindOf(v any) HandleKind {
	if isNil(v) {
		return PlainValue
	}
	if k, ok := v.(kinded); ok {
		return k.Kind()
	}
	if reactive.IsModule(v) {
		return ModuleHandle
	}
	return PlainValue
}

// IsModule reports whether v is a module or the state tree of one.
func IsModule(v any) bool {
	return KindOf(v) == ModuleHandle
}

// IsMutation reports whether v is a mutation handle.
func IsMutation(v any) bool {
	return KindOf(v) == MutationHandle
}

// IsAction reports whether v is an action handle.
func IsAction(v any) bool {
	return KindOf(v) == ActionHandle
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// nameHandles gives every unnamed mutation or action held by api the name it is exposed
// under: the exported field name (or its `nuex:"name"` tag) for structs, the key for
// string-keyed maps. Only the top level of api is scanned.
func nameHandles(api any) {
	v := reflect.ValueOf(api)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, ok := f.Tag.Lookup("nuex"); ok {
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
			assignHandleName(v.Field(i), name)
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			assignHandleName(iter.Value(), iter.Key().String())
		}
	}
}

func assignHandleName(fv reflect.Value, name string) {
	if !fv.IsValid() || !fv.CanInterface() {
		return
	}
	val := fv.Interface()
	if isNil(val) {
		return
	}
	if h, ok := val.(namedHandle); ok && h.declaredName() == "" {
		h.assignName(name)
	}
}
