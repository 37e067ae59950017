// Package fileutil provides file system helpers over afero: size-capped reads
// and atomic writes.
package fileutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/confpipe/internal/errors"
)

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Temp file in the same directory so the rename stays on one filesystem
	tmp, err := afero.TempFile(fs, dir, ".confpipe-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Only remove if rename failed (file still exists)
		if _, statErr := fs.Stat(tmpName); statErr == nil {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := fs.Chmod(tmpName, perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}

	if err := fs.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

// AppendNewline returns data with a trailing newline for POSIX compliance.
func AppendNewline(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return data
	}
	return append(data, '\n')
}
