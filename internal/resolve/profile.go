package resolve

import (
	"github.com/thoreinstein/confpipe/internal/profile"
	"github.com/thoreinstein/confpipe/internal/schema"
)

// ApplyProfile overlays profile values onto a copy of s. Every key present in
// data with a non-nil value overrides the field's value as-is, whatever its
// declared type. Zero values such as 0, false and "" are overrides too.
func ApplyProfile(s schema.Schema, data profile.Data) schema.Schema {
	out := s.Clone()
	if len(data) == 0 {
		return out
	}

	for key, f := range out.All() {
		if v, ok := data.Lookup(key); ok {
			out.Set(key, f.WithValue(v, schema.OriginProfile))
		}
	}
	return out
}
