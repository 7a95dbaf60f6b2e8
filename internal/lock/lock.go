package lock

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"

	"github.com/babytracker/btctl/internal/paths"
)

// The data directory is already claimed by another instance.
var ErrLocked = errors.New("data directory is locked by another instance")

// An advisory lock on a data directory.
//
// The lock is a flock(2) on a hidden file inside the directory, held for
// the lifetime of a foreground container and released on exit. It guards
// against two instances of this tool sharing one data directory; it cannot
// stop out-of-band engine invocations.
type Lock struct {
	fl *flock.Flock
}

// Claims the data directory, failing immediately when it is already held.
func Acquire(dataDir string) (*Lock, error) {
	fl := flock.New(paths.LockFile(dataDir))

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring data lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dataDir)
	}

	return &Lock{fl: fl}, nil
}

// Releases the lock. The lock file is left in place for the next holder.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}

// Path to the underlying lock file.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Checks that the data directory is free without keeping it.
//
// Used before starting a detached container, which outlives this process
// and therefore cannot sit behind a process-held lock.
func Probe(dataDir string) error {
	l, err := Acquire(dataDir)
	if err != nil {
		return err
	}
	return l.Release()
}
