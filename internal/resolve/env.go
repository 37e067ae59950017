package resolve

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/thoreinstein/confpipe/internal/diag"
	"github.com/thoreinstein/confpipe/internal/schema"
)

// ApplyEnvironment overlays environment values onto a copy of s, coercing the
// raw text by declared type. A key is skipped when it has no binding or its
// variable is unset or empty. Coercion failures are reported and leave the
// field's previous value in place.
func ApplyEnvironment(s schema.Schema, env Environment) (schema.Schema, diag.List) {
	out := s.Clone()
	var diags diag.List

	for key, f := range out.All() {
		name, bound := f.Env.VarName(key)
		if !bound {
			continue
		}
		raw, ok := env.Lookup(name)
		if !ok {
			continue
		}

		v, d, ok := coerce(key, name, f, raw)
		if !ok {
			diags.Add(string(StageEnvironment), d)
			continue
		}
		out.Set(key, f.WithValue(v, schema.OriginEnvironment))
	}

	return out, diags
}

func coerce(key, envVar string, f schema.Field, raw string) (any, diag.Diagnostic, bool) {
	switch f.Type {
	case schema.TypeString:
		return raw, diag.Diagnostic{}, true
	case schema.TypeNumber:
		return parseInt(raw), diag.Diagnostic{}, true
	case schema.TypeBoolean:
		return raw == "true", diag.Diagnostic{}, true
	case schema.TypeArray:
		return strings.Split(raw, ","), diag.Diagnostic{}, true
	case schema.TypeObject:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, diag.NewEnvCoercionFailure(key, f.DeclaredType(), envVar, err), false
		}
		return v, diag.Diagnostic{}, true
	case schema.TypeUnknown:
		d := diag.NewUnknownType(key, f.DeclaredType())
		d.EnvVar = envVar
		return nil, d, false
	default:
		panic("resolve: unhandled schema type " + f.Type.String())
	}
}

// parseInt reads a leading base-10 integer the way permissive integer parsers
// do: leading whitespace and a sign are accepted, trailing text is ignored.
// No digits yields NaN. Integers beyond int64 are returned as float64.
func parseInt(raw string) any {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return math.NaN()
	}

	digits := sign + s[:end]
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return n
	}
	f, _ := strconv.ParseFloat(digits, 64)
	return f
}
