// Package selector obtains the subset of extensions a run should copy.
package selector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidIndex is returned when a selection token is not an integer.
	ErrInvalidIndex = errors.New("invalid selection index")
	// ErrIndexOutOfRange is returned when a selection index is outside [1, n].
	ErrIndexOutOfRange = errors.New("selection index out of range")
)

// Provider returns the extensions chosen from available. An empty result
// means nothing was selected.
type Provider interface {
	Select(ctx context.Context, available []string) ([]string, error)
}

// ParseSelection converts a line of comma-separated 1-based indices into
// the matching extensions. Repeated indices yield repeated extensions.
// An empty or blank line yields an empty selection.
func ParseSelection(line string, available []string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	tokens := strings.Split(line, ",")
	selected := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		idx, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIndex, token)
		}
		if idx < 1 || idx > len(available) {
			return nil, fmt.Errorf("%w: %d (valid range 1-%d)", ErrIndexOutOfRange, idx, len(available))
		}
		selected = append(selected, available[idx-1])
	}
	return selected, nil
}

// StaticProvider answers with a selection line supplied up front, for
// non-interactive runs and tests.
type StaticProvider struct {
	Line string
}

// Select parses the stored line against available.
func (p StaticProvider) Select(ctx context.Context, available []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseSelection(p.Line, available)
}
