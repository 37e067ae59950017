package schema

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/pkg/fileutil"
)

// Format identifies a schema file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ErrInvalidSchema indicates a schema file that cannot be turned into fields.
var ErrInvalidSchema = errors.New("invalid schema")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.Wrapf(ErrInvalidSchema, "unsupported schema extension %q", filepath.Ext(path))
	}
}

// Load reads and parses a schema file from fs.
func Load(fs afero.Fs, path string) (Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Schema{}, err
	}

	data, err := fileutil.ReadFileWithLimit(fs, path)
	if err != nil {
		return Schema{}, errors.Wrapf(err, "reading schema %s", path)
	}

	s, err := Parse(data, format)
	if err != nil {
		return Schema{}, errors.Wrapf(err, "parsing schema %s", path)
	}
	return s, nil
}

// Parse decodes schema content. YAML and JSON keep the file's key order;
// TOML keys are sorted because the decoder does not expose document order.
func Parse(data []byte, format Format) (Schema, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatJSON:
		return parseJSON(data)
	case FormatTOML:
		return parseTOML(data)
	default:
		return Schema{}, errors.Wrapf(ErrInvalidSchema, "unknown format %q", format)
	}
}

func parseYAML(data []byte) (Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(0), nil
		}
		return Schema{}, errors.Wrap(err, "invalid YAML")
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Schema{}, errors.Wrap(ErrInvalidSchema, "a schema file holds a single YAML document")
	}

	// Empty document
	if len(doc.Content) == 0 {
		return New(0), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Schema{}, errors.Wrap(ErrInvalidSchema, "top level must be a mapping of keys")
	}

	s := New(len(root.Content) / 2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if s.Has(key) {
			return Schema{}, errors.Wrapf(ErrInvalidSchema, "duplicate key %q", key)
		}

		var entry map[string]any
		if err := root.Content[i+1].Decode(&entry); err != nil {
			return Schema{}, errors.Wrapf(ErrInvalidSchema, "key %q: %v", key, err)
		}

		f, err := fieldFromEntry(key, entry)
		if err != nil {
			return Schema{}, err
		}
		s.Set(key, f)
	}
	return s, nil
}

func parseJSON(data []byte) (Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(0), nil
		}
		return Schema{}, errors.Wrap(err, "invalid JSON")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Schema{}, errors.Wrap(ErrInvalidSchema, "top level must be an object of keys")
	}

	s := New(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Schema{}, errors.Wrap(err, "invalid JSON")
		}
		key, _ := tok.(string)
		if s.Has(key) {
			return Schema{}, errors.Wrapf(ErrInvalidSchema, "duplicate key %q", key)
		}

		var entry map[string]any
		if err := dec.Decode(&entry); err != nil {
			return Schema{}, errors.Wrapf(ErrInvalidSchema, "key %q: %v", key, err)
		}

		f, err := fieldFromEntry(key, entry)
		if err != nil {
			return Schema{}, err
		}
		s.Set(key, f)
	}

	if _, err := dec.Token(); err != nil {
		return Schema{}, errors.Wrap(err, "invalid JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Schema{}, errors.Wrap(ErrInvalidSchema, "unexpected content after the top-level object")
	}
	return s, nil
}

func parseTOML(data []byte) (Schema, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Schema{}, errors.Wrap(err, "invalid TOML")
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	s := New(len(keys))
	for _, key := range keys {
		entry, ok := doc[key].(map[string]any)
		if !ok {
			return Schema{}, errors.Wrapf(ErrInvalidSchema, "key %q: expected a table", key)
		}
		f, err := fieldFromEntry(key, entry)
		if err != nil {
			return Schema{}, err
		}
		s.Set(key, f)
	}
	return s, nil
}

// fieldFromEntry converts one decoded field object into a Field.
// Unknown type names are kept so the pipeline can report them per key.
func fieldFromEntry(key string, entry map[string]any) (Field, error) {
	var f Field
	invalid := func(format string, args ...any) error {
		return errors.Wrapf(ErrInvalidSchema, "key %q: "+format, append([]any{key}, args...)...)
	}

	for attr, raw := range entry {
		switch attr {
		case "type":
			name, ok := raw.(string)
			if !ok {
				return Field{}, invalid("type must be a string")
			}
			f.TypeName = name
			f.Type = ParseType(name)
		case "required":
			b, ok := raw.(bool)
			if !ok {
				return Field{}, invalid("required must be a boolean")
			}
			f.Required = b
		case "validate":
			b, ok := raw.(bool)
			if !ok {
				return Field{}, invalid("validate must be a boolean")
			}
			f.Validate = Bool(b)
		case "env":
			switch v := raw.(type) {
			case string:
				f.Env = EnvBinding{Name: v}
			case bool:
				f.Env = EnvBinding{UseKey: v}
			case nil:
			default:
				return Field{}, invalid("env must be a string or a boolean")
			}
		case "namespace":
			tags, err := namespaceTags(raw)
			if err != nil {
				return Field{}, invalid("%v", err)
			}
			f.Namespace = tags
		case "default":
			if raw != nil {
				f = f.WithValue(raw, OriginDefault)
			}
		case "description":
			d, ok := raw.(string)
			if !ok {
				return Field{}, invalid("description must be a string")
			}
			f.Description = d
		case "secret":
			b, ok := raw.(bool)
			if !ok {
				return Field{}, invalid("secret must be a boolean")
			}
			f.Secret = b
		default:
			return Field{}, invalid("unknown attribute %q", attr)
		}
	}

	return f, nil
}

func namespaceTags(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			tag, ok := item.(string)
			if !ok {
				return nil, errors.Newf("namespace entries must be strings, got %T", item)
			}
			tags = append(tags, tag)
		}
		return tags, nil
	default:
		return nil, errors.Newf("namespace must be a list of strings, got %T", raw)
	}
}
