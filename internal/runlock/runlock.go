// Package runlock keeps two scans from running at once on the same machine.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = "scan.lock"

// ErrAlreadyRunning is returned when another process holds the lock.
var ErrAlreadyRunning = errors.New("could not acquire scan lock, another instance may be running")

// Lock is a held scan lock.
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the scan lock in dir without blocking.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("could not create lock directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("could not acquire file lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return &Lock{flock: lock}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.flock.Path()
}

// Release unlocks. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
