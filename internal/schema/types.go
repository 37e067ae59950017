package schema

// Type is the declared value type of a configuration key.
type Type uint8

const (
	// TypeUnknown marks a declared type name outside the supported set.
	TypeUnknown Type = iota
	TypeString
	TypeNumber
	TypeBoolean
	TypeArray
	TypeObject
)

var typeNames = map[Type]string{
	TypeString:  "string",
	TypeNumber:  "number",
	TypeBoolean: "boolean",
	TypeArray:   "array",
	TypeObject:  "object",
}

// ParseType maps a declared type name to a Type. Unrecognized names yield TypeUnknown.
func ParseType(name string) Type {
	for t, n := range typeNames {
		if n == name {
			return t
		}
	}
	return TypeUnknown
}

// String returns the declared name of the type.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Origin records which layer supplied a field's current value.
type Origin string

const (
	OriginNone        Origin = ""
	OriginDefault     Origin = "default"
	OriginProfile     Origin = "profile"
	OriginEnvironment Origin = "env"
)

// EnvBinding ties a key to an environment variable.
// The zero value means the key is not bound.
type EnvBinding struct {
	// Name is an explicit variable name.
	Name string
	// UseKey binds the variable named after the key itself.
	UseKey bool
}

// Bound reports whether the binding names a variable.
func (b EnvBinding) Bound() bool {
	return b.Name != "" || b.UseKey
}

// VarName returns the environment variable name for key.
// An explicit Name wins over UseKey.
func (b EnvBinding) VarName(key string) (string, bool) {
	switch {
	case b.Name != "":
		return b.Name, true
	case b.UseKey:
		return key, true
	default:
		return "", false
	}
}

// Field is the metadata and resolved value of a single configuration key.
type Field struct {
	// Type is the parsed declared type; TypeName keeps the raw name for reporting.
	Type     Type
	TypeName string

	Required bool

	// Validate disables type checking when explicitly false. Nil means true.
	Validate *bool

	Env EnvBinding

	// Namespace lists the tags the key belongs to. Empty means missing.
	Namespace []string

	// Value is only meaningful when HasValue is set.
	Value    any
	HasValue bool
	Origin   Origin

	Description string

	// Secret masks the value in diagnostics and CLI output.
	Secret bool
}

// ShouldValidate reports whether type checking applies to the field.
func (f Field) ShouldValidate() bool {
	return f.Validate == nil || *f.Validate
}

// DeclaredType returns the name the schema declared, falling back to the parsed type.
func (f Field) DeclaredType() string {
	if f.TypeName != "" {
		return f.TypeName
	}
	return f.Type.String()
}

// WithValue returns a copy of f carrying v from origin.
func (f Field) WithValue(v any, origin Origin) Field {
	f.Value = v
	f.HasValue = true
	f.Origin = origin
	return f
}

func (f Field) clone() Field {
	if f.Namespace != nil {
		f.Namespace = append([]string(nil), f.Namespace...)
	}
	if f.Validate != nil {
		v := *f.Validate
		f.Validate = &v
	}
	return f
}

// Bool returns a pointer to b, for populating Field.Validate.
func Bool(b bool) *bool {
	return &b
}
