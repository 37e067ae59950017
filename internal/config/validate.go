package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/render"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidFormat indicates an unrecognized output format.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidNamespace indicates an empty namespace tag.
	ErrInvalidNamespace = errors.New("invalid namespace")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, &FieldError{
			Field: "version",
			Value: fmt.Sprint(cfg.Version),
			Err:   ErrUnsupportedVersion,
		})
	}

	if _, err := render.ParseFormat(cfg.OutputFormat); err != nil {
		errs = append(errs, &FieldError{
			Field: "output_format",
			Value: cfg.OutputFormat,
			Err:   ErrInvalidFormat,
		})
	}

	for _, p := range []struct{ field, path string }{
		{"schema", cfg.Schema},
		{"profile_dir", cfg.ProfileDir},
		{"env_file", cfg.EnvFile},
	} {
		if err := validatePath(p.path); err != nil {
			errs = append(errs, &FieldError{Field: p.field, Value: p.path, Err: err})
		}
	}

	for _, ns := range cfg.Namespaces {
		if strings.TrimSpace(ns) == "" {
			errs = append(errs, &FieldError{Field: "namespaces", Value: ns, Err: ErrInvalidNamespace})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	if filepath.Clean(path) == "" {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an error for a specific config field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.Field, e.Err.Error(), e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
