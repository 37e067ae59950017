// Package render encodes resolved values for output.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/resolve"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatEnv  Format = "env"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatEnv}

// ErrUnknownFormat indicates an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", errors.WithHint(
		errors.Wrapf(ErrUnknownFormat, "%q", name),
		"supported formats: json, yaml, toml, env",
	)
}

// Encode renders values in format f. JSON and YAML keep unresolved keys as
// null; TOML and env omit them since neither can express a null.
func Encode(values resolve.Values, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return encodeJSON(values)
	case FormatYAML:
		return encodeYAML(values)
	case FormatTOML:
		data, err := toml.Marshal(map[string]any(values.Defined()))
		return data, errors.Wrap(err, "encoding toml")
	case FormatEnv:
		return encodeEnv(values)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", f)
	}
}

func encodeJSON(values resolve.Values) ([]byte, error) {
	out := make(map[string]any, len(values))
	for k, v := range values {
		// JSON has no NaN; report it as null like an unresolved key.
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			v = nil
		}
		out[k] = v
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding json")
	}
	return append(data, '\n'), nil
}

func encodeYAML(values resolve.Values) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(values)); err != nil {
		return nil, errors.Wrap(err, "encoding yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding yaml")
	}
	return buf.Bytes(), nil
}

func encodeEnv(values resolve.Values) ([]byte, error) {
	env := make(gotenv.Env, len(values))
	for _, k := range values.Keys() {
		v := values[k]
		if v == nil {
			continue
		}
		s, err := EnvString(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", k)
		}
		env[EnvName(k)] = s
	}

	out, err := gotenv.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "encoding env")
	}
	if out == "" {
		return nil, nil
	}
	return []byte(out + "\n"), nil
}

// EnvName converts a key into a conventional variable name:
// upper case, with anything but letters and digits replaced by "_".
func EnvName(key string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, key)
}

// EnvString renders a value the way the environment stage reads it back:
// arrays are comma-joined and objects are JSON.
func EnvString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case []string:
		return strings.Join(x, ","), nil
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			s, err := EnvString(item)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), nil
	case map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return "", errors.Wrap(err, "encoding object")
		}
		return string(data), nil
	default:
		return fmt.Sprint(v), nil
	}
}
