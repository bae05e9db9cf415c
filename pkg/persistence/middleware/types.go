// Package middleware wraps a commit journal with record transformations applied on the way
// in (and undone on the way out where possible).
package middleware

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/nuex/pkg/ports"
)

// Middleware allows wrapping a Journal to add behavior.
type Middleware func(ports.Journal) ports.Journal

// Chain applies mws to j; the first middleware sees records first.
func Chain(j ports.Journal, mws ...Middleware) ports.Journal {
	for i := len(mws) - 1; i >= 0; i-- {
		j = mws[i](j)
	}
	return j
}

// normalize turns a payload into its JSON shape (maps, slices, strings, float64...), so
// structs and maps are handled alike and the caller's value is never touched.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return out, nil
}
