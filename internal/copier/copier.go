// Package copier copies the files of selected extensions into a destination
// directory under collision-free names.
package copier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dbsmedya/extcopy/internal/logger"
	"github.com/dbsmedya/extcopy/internal/progress"
	"github.com/dbsmedya/extcopy/internal/scanner"
)

// maxNameAttempts bounds the search for a free destination name.
const maxNameAttempts = 1000

// CopyStats contains statistics about one copy pass.
// Total always equals Copied + Failed.
type CopyStats struct {
	Total    int           // Files attempted
	Copied   int           // Files copied successfully
	Failed   int           // Files that could not be copied
	Bytes    int64         // Bytes written by successful copies
	Duration time.Duration // Time taken for the copy pass
}

// Copier copies scanned files into a destination directory.
type Copier struct {
	dest     string
	namer    Namer
	logger   *logger.Logger
	reporter progress.Reporter
}

// Option configures a Copier.
type Option func(*Copier)

// WithNamer sets the destination naming strategy.
func WithNamer(n Namer) Option {
	return func(c *Copier) { c.namer = n }
}

// WithLogger sets the logger for per-file outcomes.
func WithLogger(l *logger.Logger) Option {
	return func(c *Copier) { c.logger = l }
}

// WithReporter sets the progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(c *Copier) { c.reporter = r }
}

// New creates a Copier writing into dest. Without options it uses a
// sequence namer, a no-op logger and no progress output.
func New(dest string, opts ...Option) (*Copier, error) {
	if dest == "" {
		return nil, fmt.Errorf("destination is empty")
	}

	c := &Copier{
		dest:     dest,
		namer:    NewSequenceNamer(),
		logger:   logger.NewNop(),
		reporter: progress.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// EstimateTotal sums the file counts of every selected extension, once per
// occurrence in selected.
func EstimateTotal(result *scanner.Result, selected []string) int {
	total := 0
	for _, ext := range selected {
		total += len(result.Files(ext))
	}
	return total
}

// Copy copies every file of the selected extensions, in selection order.
// Individual file failures are logged and counted; only failing to create
// the destination directory, or cancellation, returns an error.
func (c *Copier) Copy(ctx context.Context, result *scanner.Result, selected []string) (*CopyStats, error) {
	startTime := time.Now()
	stats := &CopyStats{}

	if err := os.MkdirAll(c.dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	estimate := EstimateTotal(result, selected)
	defer c.reporter.Finish()

	c.logger.Debugf("Starting copy pass for %d extensions (%d files)", len(selected), estimate)

	for _, ext := range selected {
		extLogger := c.logger.WithExtension(ext)

		for _, src := range result.Files(ext) {
			if err := ctx.Err(); err != nil {
				stats.Duration = time.Since(startTime)
				return stats, fmt.Errorf("copy interrupted: %w", err)
			}

			dst, n, err := c.copyOne(src)
			if err != nil {
				extLogger.Errorw("Failed to copy file",
					"source", src,
					"destination", dst,
					"error", err,
				)
				stats.Failed++
			} else {
				extLogger.Infow("Copied file",
					"source", src,
					"destination", dst,
					"bytes", n,
				)
				stats.Copied++
				stats.Bytes += n
			}

			stats.Total++
			c.reporter.Update(stats.Total, estimate, filepath.Base(src))
		}
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// copyOne copies src under a fresh name and returns the destination path.
// The destination is empty when the copy failed before a file was created.
func (c *Copier) copyOne(src string) (string, int64, error) {
	// Only regular files; opening a FIFO blocks until a writer appears.
	info, err := os.Stat(src)
	if err != nil {
		return "", 0, err
	}
	if !info.Mode().IsRegular() {
		return "", 0, fmt.Errorf("%s is not a regular file (%s)", src, info.Mode().Type())
	}

	in, err := os.Open(src)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	base := filepath.Base(src)
	out, dst, err := c.createUnique(base, info.Mode().Perm())
	if err != nil {
		return dst, 0, err
	}

	n, err := io.Copy(out, in)
	if err == nil {
		// Creation mode is filtered by umask; apply the source bits exactly.
		err = out.Chmod(info.Mode().Perm())
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return dst, 0, err
	}

	return dst, n, nil
}

// createUnique opens a new file in the destination without replacing an
// existing one, asking the namer again on every collision.
func (c *Copier) createUnique(base string, perm fs.FileMode) (*os.File, string, error) {
	var dst string
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		dst = filepath.Join(c.dest, c.namer.Name(base, attempt))

		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, dst, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, dst, err
		}
	}
	return nil, dst, fmt.Errorf("no free destination name for %s after %d attempts", base, maxNameAttempts)
}
