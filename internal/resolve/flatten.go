package resolve

import (
	"maps"
	"slices"

	"github.com/go-viper/mapstructure/v2"

	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/schema"
)

// Values is the flattened result of a pipeline run: key to resolved value.
// Keys that never resolved are present with a nil value.
type Values map[string]any

// Flatten collapses each field to its value. It is the last stage; Values
// cannot be fed back into the schema stages.
func Flatten(s schema.Schema) Values {
	out := make(Values, s.Len())
	for key, f := range s.All() {
		if f.HasValue {
			out[key] = f.Value
		} else {
			out[key] = nil
		}
	}
	return out
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

// Defined returns a copy without unresolved keys.
func (v Values) Defined() Values {
	out := make(Values, len(v))
	for k, val := range v {
		if val != nil {
			out[k] = val
		}
	}
	return out
}

// Decode copies the values into out, a pointer to a struct or map.
// Struct fields are matched by their `config` tag, then by name.
// Input is weakly typed, so "8080" can fill an int and "a,b" a []string.
func (v Values) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Wrap(err, "creating decoder")
	}
	return errors.Wrap(dec.Decode(map[string]any(v.Defined())), "decoding values")
}
