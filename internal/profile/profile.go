// Package profile supplies the override values applied before environment
// resolution.
//
// A [Source] is one of three things: an already materialized [Data] map, a
// [Named] profile read from disk, or [None] when no profile should be applied.
package profile

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/pkg/fileutil"
)

// EnvVar is the conventional variable callers read a profile name from.
const EnvVar = "PROFILE"

// Sentinel errors for profile loading.
var (
	// ErrProfileNotFound indicates no file exists for the profile name.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrScriptProfile indicates a script module profile, which cannot be evaluated.
	ErrScriptProfile = errors.New("script profiles are not supported")

	// ErrInvalidProfile indicates profile content that is not a flat mapping.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Data is a flat mapping from configuration key to override value.
type Data map[string]any

// Source produces profile data.
type Source interface {
	Load(ctx context.Context) (Data, error)
}

// Load returns d itself.
func (d Data) Load(context.Context) (Data, error) {
	return d, nil
}

// Lookup returns the override for key. Nil values count as absent.
func (d Data) Lookup(key string) (any, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

type none struct{}

func (none) Load(context.Context) (Data, error) {
	return nil, nil
}

// None applies no profile at all.
var None Source = none{}

// IsNone reports whether src is None or nil.
func IsNone(src Source) bool {
	return src == nil || src == None
}

// extensions lists candidate files in lookup order. A script module wins if
// present, matching the historical lookup, and is then rejected.
var extensions = []string{".js", ".yaml", ".yml", ".toml", ".json"}

// Named loads a profile file called <Name>.<ext> from Dir.
type Named struct {
	Name string
	Dir  string
	Fs   afero.Fs
}

// NewNamed returns a Named source reading from the OS filesystem.
func NewNamed(name, dir string) Named {
	return Named{Name: name, Dir: dir, Fs: afero.NewOsFs()}
}

// Path returns the first existing candidate file for the profile.
func (n Named) Path() (string, error) {
	if n.Name == "" {
		return "", errors.Wrap(ErrProfileNotFound, "empty profile name")
	}

	fs := n.fs()
	for _, ext := range extensions {
		candidate := filepath.Join(n.Dir, n.Name+ext)
		ok, err := fileutil.Exists(fs, candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}

	return "", errors.WithHint(
		errors.Wrapf(ErrProfileNotFound, "%q in %s", n.Name, n.Dir),
		"profiles are looked up as <name>.yaml, <name>.yml, <name>.toml or <name>.json",
	)
}

// Load reads and decodes the profile file.
func (n Named) Load(ctx context.Context) (Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := n.Path()
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) == ".js" {
		return nil, errors.Wrapf(ErrScriptProfile, "%s", path)
	}

	content, err := fileutil.ReadFileWithLimit(n.fs(), path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading profile %s", path)
	}

	data, err := Decode(content, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing profile %s", path)
	}
	return data, nil
}

func (n Named) fs() afero.Fs {
	if n.Fs == nil {
		return afero.NewOsFs()
	}
	return n.Fs
}

// Decode parses profile content according to a file extension.
// The document must be a top-level mapping; an empty document yields empty Data.
func Decode(content []byte, ext string) (Data, error) {
	var raw any
	var err error

	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &raw)
	case ".toml":
		var m map[string]any
		err = toml.Unmarshal(content, &m)
		raw = m
	case ".json":
		err = json.Unmarshal(content, &raw)
	default:
		return nil, errors.Wrapf(ErrInvalidProfile, "unsupported extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	switch m := raw.(type) {
	case nil:
		return Data{}, nil
	case map[string]any:
		return Data(m), nil
	default:
		return nil, errors.Wrapf(ErrInvalidProfile, "expected a mapping, got %T", raw)
	}
}
