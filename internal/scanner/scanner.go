// Package scanner walks a directory tree and groups the files it finds by
// extension.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/elliotchance/orderedmap/v2"
)

// Options controls which files are reported.
type Options struct {
	// ExcludeSubstrings skips files whose base name contains any element
	// (case-sensitive literal match).
	ExcludeSubstrings []string
	// ExcludePatterns skips files whose base name matches any doublestar glob.
	ExcludePatterns []string
	// SortPaths sorts every bucket by path once the walk is complete.
	SortPaths bool
}

// Result groups discovered file paths by extension. Extensions are kept in
// first-seen order and paths in traversal order.
type Result struct {
	buckets *orderedmap.OrderedMap[string, []string]
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{buckets: orderedmap.NewOrderedMap[string, []string]()}
}

// Add appends path to the bucket for ext.
func (r *Result) Add(ext, path string) {
	files, _ := r.buckets.Get(ext)
	r.buckets.Set(ext, append(files, path))
}

// Extensions returns the extension keys in first-seen order.
func (r *Result) Extensions() []string {
	return r.buckets.Keys()
}

// Files returns the paths stored for ext, or nil if ext was never seen.
func (r *Result) Files(ext string) []string {
	files, _ := r.buckets.Get(ext)
	return files
}

// Counts returns the number of files per extension.
func (r *Result) Counts() map[string]int {
	counts := make(map[string]int, r.buckets.Len())
	for el := r.buckets.Front(); el != nil; el = el.Next() {
		counts[el.Key] = len(el.Value)
	}
	return counts
}

// Len returns the number of distinct extensions.
func (r *Result) Len() int {
	return r.buckets.Len()
}

// TotalFiles returns the number of files across all extensions.
func (r *Result) TotalFiles() int {
	total := 0
	for el := r.buckets.Front(); el != nil; el = el.Next() {
		total += len(el.Value)
	}
	return total
}

// SortPaths sorts the paths inside every bucket. Key order is unchanged.
func (r *Result) SortPaths() {
	for el := r.buckets.Front(); el != nil; el = el.Next() {
		sort.Strings(el.Value)
	}
}

// Extension returns the suffix of name after its final dot, dot included,
// or "" when name has no dot.
func Extension(name string) string {
	return filepath.Ext(name)
}

// Scan recursively walks root and groups every file by extension.
// Any traversal error aborts the scan; no partial result is returned.
func Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	for _, pattern := range opts.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	result := NewResult()

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if isExcluded(name, opts) {
			return nil
		}

		result.Add(Extension(name), path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	if opts.SortPaths {
		result.SortPaths()
	}

	return result, nil
}

// isExcluded checks the base name against substrings and glob patterns.
func isExcluded(name string, opts Options) bool {
	for _, sub := range opts.ExcludeSubstrings {
		if sub != "" && strings.Contains(name, sub) {
			return true
		}
	}
	for _, pattern := range opts.ExcludePatterns {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
