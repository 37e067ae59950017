package resolve

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/thoreinstein/confpipe/internal/diag"
	"github.com/thoreinstein/confpipe/internal/schema"
)

// Validate checks every field's value against its declared type and
// required flag. It reports violations and never changes the schema.
func Validate(s schema.Schema) diag.List {
	var diags diag.List

	for key, f := range s.All() {
		switch {
		case f.Required && !f.HasValue:
			diags.Add(string(StageValidate), diag.NewMissingRequired(key))
		case f.HasValue && f.ShouldValidate():
			if d, ok := checkType(key, f); !ok {
				diags.Add(string(StageValidate), d)
			}
		}
	}

	return diags
}

func checkType(key string, f schema.Field) (diag.Diagnostic, bool) {
	var ok bool
	switch f.Type {
	case schema.TypeString:
		_, ok = f.Value.(string)
	case schema.TypeNumber:
		ok = isNumber(f.Value)
	case schema.TypeBoolean:
		_, ok = f.Value.(bool)
	case schema.TypeArray:
		ok = isArray(f.Value)
	case schema.TypeObject:
		ok = isObject(f.Value)
	case schema.TypeUnknown:
		return diag.NewUnknownType(key, f.DeclaredType()), false
	default:
		panic("resolve: unhandled schema type " + f.Type.String())
	}

	if ok {
		return diag.Diagnostic{}, true
	}
	return diag.NewTypeMismatch(key, f.DeclaredType(), diag.Display(key, f.Value, f.Secret)), false
}

func isNumber(v any) bool {
	switch n := v.(type) {
	case float64:
		return !math.IsNaN(n)
	case float32:
		return !math.IsNaN(float64(n))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		f, err := n.Float64()
		return err == nil && !math.IsNaN(f)
	default:
		return false
	}
}

func isArray(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// isObject accepts string-keyed maps only, so arrays never pass.
func isObject(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}
