package copier

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/extcopy/internal/config"
)

// Namer produces destination file names of the form <prefix>_<base>.
// attempt starts at 0 and grows while the returned name already exists in
// the destination.
type Namer interface {
	Name(base string, attempt int) string
}

// SequenceNamer prefixes files with a per-run counter starting at 1. Every
// call consumes a number, so names never repeat within a run.
type SequenceNamer struct {
	next uint64
}

// NewSequenceNamer creates a counter-based namer.
func NewSequenceNamer() *SequenceNamer {
	return &SequenceNamer{next: 1}
}

// Name returns the next sequence-prefixed name.
func (n *SequenceNamer) Name(base string, attempt int) string {
	prefix := n.next
	n.next++
	return strconv.FormatUint(prefix, 10) + "_" + base
}

// TimestampNamer prefixes files with the current Unix time in seconds.
// Same-second collisions fall back to <seconds>-<attempt>.
type TimestampNamer struct {
	now func() time.Time
}

// NewTimestampNamer creates a namer using the wall clock.
func NewTimestampNamer() *TimestampNamer {
	return &TimestampNamer{now: time.Now}
}

// Name returns a timestamp-prefixed name.
func (n *TimestampNamer) Name(base string, attempt int) string {
	secs := n.now().Unix()
	if attempt == 0 {
		return fmt.Sprintf("%d_%s", secs, base)
	}
	return fmt.Sprintf("%d-%d_%s", secs, attempt, base)
}

// UUIDNamer prefixes files with a random UUID.
type UUIDNamer struct{}

// Name returns a UUID-prefixed name.
func (UUIDNamer) Name(base string, attempt int) string {
	return uuid.NewString() + "_" + base
}

// NewNamer returns the namer for a configured prefix strategy.
func NewNamer(strategy string) (Namer, error) {
	switch strategy {
	case config.PrefixSequence, "":
		return NewSequenceNamer(), nil
	case config.PrefixTimestamp:
		return NewTimestampNamer(), nil
	case config.PrefixUUID:
		return UUIDNamer{}, nil
	default:
		return nil, fmt.Errorf("unknown prefix strategy %q", strategy)
	}
}
