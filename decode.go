package nuex

import (
	"fmt"

	"github.com/aretw0/nuex/pkg/reactive"
	"github.com/mitchellh/mapstructure"
)

// Decode copies a state value into out, a pointer to a struct, map or slice. Tracked nodes are
// snapshot first; struct fields match json tags.
func Decode(v any, out any) error {
	if _, ok := v.(reactive.Node); ok {
		v = reactive.Snapshot(v)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
