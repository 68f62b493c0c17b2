// Package lock keeps two extcopy runs from writing into the same destination
// directory at once.
package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the destination lock.
var ErrLocked = errors.New("destination is locked by another run")

// DestinationLock is an advisory file lock keyed by a destination directory.
// The lock file lives in the OS temp directory so nothing is written into
// the destination itself.
type DestinationLock struct {
	flock *flock.Flock
	dest  string
	path  string
}

// LockPath returns the lock file path used for dest.
func LockPath(dest string) (string, error) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination: %w", err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(os.TempDir(), "extcopy-"+hex.EncodeToString(sum[:])[:16]+".lock"), nil
}

// NewDestinationLock creates a lock for dest. The lock is not acquired
// until AcquireOrFail is called.
func NewDestinationLock(dest string) (*DestinationLock, error) {
	path, err := LockPath(dest)
	if err != nil {
		return nil, err
	}
	return &DestinationLock{
		flock: flock.New(path),
		dest:  dest,
		path:  path,
	}, nil
}

// AcquireOrFail takes the lock without blocking.
// Returns ErrLocked if another process is holding it.
func (l *DestinationLock) AcquireOrFail() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !acquired {
		return fmt.Errorf("%w: %s", ErrLocked, l.dest)
	}
	return nil
}

// Release unlocks and closes the lock file. Releasing an unheld lock is a no-op.
func (l *DestinationLock) Release() error {
	if !l.IsHeld() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// IsHeld reports whether this instance holds the lock.
func (l *DestinationLock) IsHeld() bool {
	return l.flock.Locked()
}

// Path returns the lock file path.
func (l *DestinationLock) Path() string {
	return l.path
}
