package selector

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptProviderSelect(t *testing.T) {
	var out bytes.Buffer
	p := NewPromptProvider(strings.NewReader("3,1\n"), &out, map[string]int{".txt": 4, ".jpg": 2, "": 1, ".go": 9})

	got, err := p.Select(context.Background(), available)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ".txt"}, got)

	listing := out.String()
	assert.Contains(t, listing, "Available file extensions:")
	assert.Contains(t, listing, ".jpg")
	assert.Contains(t, listing, "(none)")
	assert.Contains(t, listing, "Files")
	assert.Contains(t, listing, PromptText)
	// Listing follows the order given.
	assert.Less(t, strings.Index(listing, ".txt"), strings.Index(listing, ".jpg"))
	assert.Less(t, strings.Index(listing, ".jpg"), strings.Index(listing, ".go"))
}

func TestPromptProviderWithoutCounts(t *testing.T) {
	var out bytes.Buffer
	p := NewPromptProvider(strings.NewReader("2\n"), &out, nil)

	got, err := p.Select(context.Background(), available)
	require.NoError(t, err)
	assert.Equal(t, []string{".jpg"}, got)
	assert.NotContains(t, out.String(), "Files")
}

func TestPromptProviderEOFWithoutNewline(t *testing.T) {
	p := NewPromptProvider(strings.NewReader("4"), io.Discard, nil)

	got, err := p.Select(context.Background(), available)
	require.NoError(t, err)
	assert.Equal(t, []string{".go"}, got)
}

func TestPromptProviderEmptyInput(t *testing.T) {
	p := NewPromptProvider(strings.NewReader(""), io.Discard, nil)

	got, err := p.Select(context.Background(), available)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPromptProviderOutOfRange(t *testing.T) {
	p := NewPromptProvider(strings.NewReader("0\n"), io.Discard, nil)

	_, err := p.Select(context.Background(), available)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestPromptProviderCancelWhileWaiting(t *testing.T) {
	// The pipe never receives data, so only cancellation can unblock Select.
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewPromptProvider(r, io.Discard, nil)
	_, err := p.Select(ctx, available)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
