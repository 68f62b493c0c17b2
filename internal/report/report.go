// Package report writes a machine-readable summary of a copy run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/extcopy/internal/copier"
)

// Report is the persisted summary of one run.
type Report struct {
	Root        string    `json:"root" yaml:"root"`
	Destination string    `json:"destination" yaml:"destination"`
	Selected    []string  `json:"selected" yaml:"selected"`
	Prefix      string    `json:"prefix" yaml:"prefix"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Summary     Summary   `json:"summary" yaml:"summary"`
}

// Summary mirrors copier.CopyStats.
type Summary struct {
	Total    int    `json:"total" yaml:"total"`
	Copied   int    `json:"copied" yaml:"copied"`
	Failed   int    `json:"failed" yaml:"failed"`
	Bytes    int64  `json:"bytes" yaml:"bytes"`
	Duration string `json:"duration" yaml:"duration"`
}

// SummaryFromStats converts copy statistics for reporting.
func SummaryFromStats(stats *copier.CopyStats) Summary {
	if stats == nil {
		return Summary{Duration: "0s"}
	}
	return Summary{
		Total:    stats.Total,
		Copied:   stats.Copied,
		Failed:   stats.Failed,
		Bytes:    stats.Bytes,
		Duration: stats.Duration.Round(time.Millisecond).String(),
	}
}

// Marshal encodes r as YAML for .yaml/.yml paths and as indented JSON otherwise.
func Marshal(path string, r Report) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(r)
	default:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Write encodes r and writes it to path atomically.
func Write(path string, r Report) error {
	data, err := Marshal(path, r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return atomicWrite(path, data)
}

// atomicWrite writes data to a temp file beside path and renames it into place,
// so readers never see a partial report.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-report-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}
