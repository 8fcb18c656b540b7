package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// FileMedium stores each key in <dir>/<key>.json.
// Writes go to a temp file that is synced and renamed over the target, so a
// failed write leaves the previous value intact. A flock on <dir>/.lock
// serializes writers from concurrent CLI invocations.
type FileMedium struct {
	dir string
}

// NewFileMedium creates dir (0700) if needed.
func NewFileMedium(dir string) (*FileMedium, error) {
	if dir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileMedium{dir: dir}, nil
}

func (m *FileMedium) Dir() string { return m.dir }

func (m *FileMedium) path(key string) string {
	return filepath.Join(m.dir, key+".json")
}

func (m *FileMedium) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(m.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read file: %w", err)
	}
	return string(b), true, nil
}

func (m *FileMedium) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return m.withLock(func() error {
		tmp, err := os.CreateTemp(m.dir, "."+key+"-*.tmp")
		if err != nil {
			return fmt.Errorf("create temp: %w", err)
		}
		tmpName := tmp.Name()
		defer os.Remove(tmpName)

		if _, err := tmp.WriteString(value); err != nil {
			tmp.Close()
			return fmt.Errorf("write file: %w", err)
		}
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			return fmt.Errorf("sync file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close file: %w", err)
		}
		if err := os.Chmod(tmpName, 0o600); err != nil {
			return fmt.Errorf("chmod: %w", err)
		}
		if err := os.Rename(tmpName, m.path(key)); err != nil {
			return fmt.Errorf("rename: %w", err)
		}
		return nil
	})
}

func (m *FileMedium) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return m.withLock(func() error {
		if err := os.Remove(m.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove: %w", err)
		}
		return nil
	})
}

// withLock runs fn holding an exclusive flock on the directory lock file.
func (m *FileMedium) withLock(fn func() error) error {
	lock, err := os.OpenFile(filepath.Join(m.dir, ".lock"), os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("open lock: %w", err)
	}
	defer lock.Close()

	if err := syscall.Flock(int(lock.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	defer syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)

	return fn()
}
