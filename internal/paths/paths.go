package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/confpipe/internal/errors"
)

// AppName is the directory name used under the XDG config home.
const AppName = "confpipe"

// ConfigDirEnv overrides the application config directory when set.
const ConfigDirEnv = "CONFPIPE_CONFIG_DIR"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns the directory holding confpipe's own config.yaml.
// CONFPIPE_CONFIG_DIR wins over <ConfigHome>/confpipe.
func AppConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// Resolve expands a leading "~" and makes path absolute relative to base.
// An empty base means the current working directory.
func Resolve(path, base string) (string, error) {
	if path == "" || strings.ContainsRune(path, '\x00') {
		return "", errors.Wrapf(ErrInvalidPath, "%q", path)
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "getting working directory")
		}
		base = wd
	}
	return filepath.Join(base, path), nil
}
