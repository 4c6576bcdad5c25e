// Package lockfile provides cross-process mutual exclusion backed by an
// exclusive-create marker file. At most one live lock exists system-wide:
// the marker's presence is the whole signal, enforced by the filesystem's
// "exactly one creator succeeds" guarantee rather than any in-memory state.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrAlreadyLocked is returned by Acquire when the marker file already
	// exists, meaning another instance holds the lock.
	ErrAlreadyLocked = errors.New("another instance already holds the lock")

	// ErrNotLocked is returned by Release when the marker is already gone.
	// Something else removed it, or the lock was released twice; either way
	// it is an anomaly, not a success.
	ErrNotLocked = errors.New("lock marker is already gone")
)

const markerName = "gondolin.lck"

// DefaultPath returns the well-known marker location in the system
// temporary directory.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), markerName)
}

// Lock is a held instance lock. It carries no payload; only the marker
// file's existence matters.
type Lock struct {
	path string
}

// Acquire creates the marker file at path with O_EXCL semantics. It makes
// exactly one attempt: success, ErrAlreadyLocked, or a wrapped I/O error.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrAlreadyLocked
		}
		return nil, fmt.Errorf("create lock marker %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close lock marker: %w", err)
	}

	return &Lock{path: path}, nil
}

// Release removes the marker file. A missing marker is reported as
// ErrNotLocked rather than being ignored.
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotLocked
	}
	return fmt.Errorf("remove lock marker %s: %w", l.path, err)
}

// Path returns the marker file location.
func (l *Lock) Path() string {
	return l.path
}
