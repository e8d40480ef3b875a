package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// WriteDirAtomic publishes a directory at path.
// fill writes the contents into a temporary sibling directory; the temporary
// directory then replaces path. If fill or the swap fails, path is left as it was.
func WriteDirAtomic(path string, fill func(dir string) error) (err error) {
	path = filepath.Clean(path)
	parent := filepath.Dir(path)

	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(tmp)
		}
	}()

	if err := fill(tmp); err != nil {
		return err
	}

	info, statErr := os.Stat(path)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("publishing %s: %w", path, err)
		}
		return nil
	case statErr != nil:
		return fmt.Errorf("checking %s: %w", path, statErr)
	case !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", path)
	}

	backup := tmp + ".old"
	if err := os.Rename(path, backup); err != nil {
		return fmt.Errorf("moving previous %s aside: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Rename(backup, path)
		return fmt.Errorf("publishing %s: %w", path, err)
	}
	_ = os.RemoveAll(backup)
	return nil
}

// WriteFileSync writes data to name and flushes it to disk before closing.
func WriteFileSync(name string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RemoveDir deletes the directory at path if it contains marker.
// Returns domain.ErrNotFound when marker is absent, so unrelated
// directories are never removed.
func RemoveDir(path, marker string) error {
	if _, err := os.Stat(filepath.Join(path, marker)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
