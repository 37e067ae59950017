package resolve

import (
	"github.com/thoreinstein/confpipe/internal/diag"
	"github.com/thoreinstein/confpipe/internal/schema"
)

// Namespaces maps namespace tags to an active flag.
type Namespaces map[string]bool

// NamespacesFromTags marks every tag active.
func NamespacesFromTags(tags []string) Namespaces {
	ns := make(Namespaces, len(tags))
	for _, t := range tags {
		ns[t] = true
	}
	return ns
}

// AnyActive reports whether at least one tag is active.
func (n Namespaces) AnyActive() bool {
	for _, active := range n {
		if active {
			return true
		}
	}
	return false
}

// Active reports whether tag is active.
func (n Namespaces) Active(tag string) bool {
	return n[tag]
}

// Matches reports whether any of tags is active.
func (n Namespaces) Matches(tags []string) bool {
	for _, t := range tags {
		if n.Active(t) {
			return true
		}
	}
	return false
}

// FilterNamespaces returns a copy of s without keys outside the active
// namespaces. Keys that declare no namespace are always dropped and reported.
// When no tag is active every key with a namespace is kept.
func FilterNamespaces(s schema.Schema, ns Namespaces) (schema.Schema, diag.List) {
	out := s.Clone()
	var diags diag.List
	filter := ns.AnyActive()

	for _, key := range out.Keys() {
		f, _ := out.Get(key)
		switch {
		case len(f.Namespace) == 0:
			diags.Add(string(StageNamespace), diag.NewMissingNamespace(key))
			out.Delete(key)
		case filter && !ns.Matches(f.Namespace):
			out.Delete(key)
		}
	}

	return out, diags
}
