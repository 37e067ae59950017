// Package schema defines the declarative description of configuration keys
// and loads it from YAML, JSON or TOML files.
package schema

import (
	"iter"
	"slices"
)

// Schema is an ordered mapping from configuration key to Field.
// The zero value is an empty schema ready for use.
type Schema struct {
	keys   []string
	fields map[string]Field
}

// New creates a schema with room for n keys.
func New(n int) Schema {
	return Schema{
		keys:   make([]string, 0, n),
		fields: make(map[string]Field, n),
	}
}

// Len returns the number of keys.
func (s Schema) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s Schema) Keys() []string {
	return slices.Clone(s.keys)
}

// Get returns the field for key.
func (s Schema) Get(key string) (Field, bool) {
	f, ok := s.fields[key]
	return f, ok
}

// Has reports whether key is present.
func (s Schema) Has(key string) bool {
	_, ok := s.fields[key]
	return ok
}

// Set adds or replaces the field for key. New keys are appended to the order.
func (s *Schema) Set(key string, f Field) {
	if s.fields == nil {
		s.fields = make(map[string]Field)
	}
	if _, ok := s.fields[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.fields[key] = f
}

// Delete removes key. Missing keys are ignored.
func (s *Schema) Delete(key string) {
	if _, ok := s.fields[key]; !ok {
		return
	}
	delete(s.fields, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
}

// All iterates over keys and fields in order.
func (s Schema) All() iter.Seq2[string, Field] {
	return func(yield func(string, Field) bool) {
		for _, k := range s.keys {
			if !yield(k, s.fields[k]) {
				return
			}
		}
	}
}

// Clone returns a copy that shares no mutable state with s.
// Values themselves are copied by reference and must be treated as read-only.
func (s Schema) Clone() Schema {
	out := New(len(s.keys))
	for _, k := range s.keys {
		out.keys = append(out.keys, k)
		out.fields[k] = s.fields[k].clone()
	}
	return out
}
