// Package diag defines the non-fatal diagnostics reported while resolving
// configuration.
package diag

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/thoreinstein/confpipe/internal/errors"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// MissingNamespace: the key declares no namespace and was dropped.
	MissingNamespace Kind = iota + 1

	// MissingRequiredValue: a required key resolved to no value.
	MissingRequiredValue

	// TypeMismatch: the resolved value does not match the declared type.
	TypeMismatch

	// UnknownType: the declared type is not in the supported set.
	UnknownType

	// EnvCoercionFailure: an environment value could not be coerced.
	EnvCoercionFailure
)

// Kinds lists every kind in reporting order.
var Kinds = []Kind{MissingNamespace, MissingRequiredValue, TypeMismatch, UnknownType, EnvCoercionFailure}

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case MissingNamespace:
		return "missing_namespace"
	case MissingRequiredValue:
		return "missing_required_value"
	case TypeMismatch:
		return "type_mismatch"
	case UnknownType:
		return "unknown_type"
	case EnvCoercionFailure:
		return "env_coercion_failure"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is a single reported problem for one key.
type Diagnostic struct {
	// Kind classifies the problem.
	Kind Kind `json:"kind"`

	// Key is the configuration key the diagnostic is about.
	Key string `json:"key"`

	// Stage names the pipeline stage that reported it.
	Stage string `json:"stage"`

	// Type is the declared type of the key, when relevant.
	Type string `json:"type,omitempty"`

	// EnvVar is the environment variable involved, when relevant.
	EnvVar string `json:"env_var,omitempty"`

	// Message is the human-readable description, naming key and constraint.
	Message string `json:"message"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

// Error implements error so diagnostics can be escalated by callers.
func (d Diagnostic) Error() string {
	return d.Message
}

// Unwrap returns the underlying cause.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// LogAttrs returns the structured attributes used when logging d.
func (d Diagnostic) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("kind", d.Kind.String()),
		slog.String("key", d.Key),
		slog.String("stage", d.Stage),
	}
	if d.Type != "" {
		attrs = append(attrs, slog.String("type", d.Type))
	}
	if d.EnvVar != "" {
		attrs = append(attrs, slog.String("env_var", d.EnvVar))
	}
	if d.Err != nil {
		attrs = append(attrs, slog.String("cause", d.Err.Error()))
	}
	return attrs
}

// NewMissingNamespace reports a key without namespace tags.
func NewMissingNamespace(key string) Diagnostic {
	return Diagnostic{
		Kind:    MissingNamespace,
		Key:     key,
		Message: fmt.Sprintf("namespace for key %s not defined", key),
	}
}

// NewMissingRequired reports a required key without a value.
func NewMissingRequired(key string) Diagnostic {
	return Diagnostic{
		Kind:    MissingRequiredValue,
		Key:     key,
		Message: fmt.Sprintf("value for key %s must be defined (required)", key),
	}
}

// NewTypeMismatch reports a value of the wrong kind. display is the already
// masked rendering of the offending value.
func NewTypeMismatch(key, typeName, display string) Diagnostic {
	return Diagnostic{
		Kind:    TypeMismatch,
		Key:     key,
		Type:    typeName,
		Message: fmt.Sprintf("value for key %s must be %s, got %s", key, typeName, display),
	}
}

// NewUnknownType reports a declared type outside the supported set.
func NewUnknownType(key, typeName string) Diagnostic {
	return Diagnostic{
		Kind:    UnknownType,
		Key:     key,
		Type:    typeName,
		Message: fmt.Sprintf("wrong type %q defined for key %s", typeName, key),
	}
}

// NewEnvCoercionFailure reports an environment value that failed to coerce.
func NewEnvCoercionFailure(key, typeName, envVar string, cause error) Diagnostic {
	return Diagnostic{
		Kind:    EnvCoercionFailure,
		Key:     key,
		Type:    typeName,
		EnvVar:  envVar,
		Message: fmt.Sprintf("cannot coerce %s for key %s to %s: %v", envVar, key, typeName, cause),
		Err:     cause,
	}
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Add appends d after stamping it with stage.
func (l *List) Add(stage string, d Diagnostic) {
	d.Stage = stage
	*l = append(*l, d)
}

// Append appends other in order.
func (l *List) Append(other List) {
	*l = append(*l, other...)
}

// Len returns the number of diagnostics.
func (l List) Len() int {
	return len(l)
}

// ByKind returns the diagnostics of kind k, in order.
func (l List) ByKind(k Kind) List {
	var out List
	for _, d := range l {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// ForKey returns the diagnostics about key, in order.
func (l List) ForKey(key string) List {
	var out List
	for _, d := range l {
		if d.Key == key {
			out = append(out, d)
		}
	}
	return out
}

// Has reports whether a diagnostic of kind k exists for key.
func (l List) Has(key string, k Kind) bool {
	for _, d := range l {
		if d.Key == key && d.Kind == k {
			return true
		}
	}
	return false
}

// Summary counts diagnostics per kind.
type Summary map[Kind]int

// Summary aggregates counts by kind.
func (l List) Summary() Summary {
	s := make(Summary, len(Kinds))
	for _, d := range l {
		s[d.Kind]++
	}
	return s
}

// String renders non-zero counts, e.g. "2 type_mismatch, 1 unknown_type".
func (s Summary) String() string {
	var parts []string
	for _, k := range Kinds {
		if n := s[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	if len(parts) == 0 {
		return "no diagnostics"
	}
	return strings.Join(parts, ", ")
}

// Err joins every diagnostic into a single error, or returns nil when empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errors.Join(errs...)
}
