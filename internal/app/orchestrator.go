// Package app sequences a full extcopy run: scan, select, copy, summarize.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dbsmedya/extcopy/internal/config"
	"github.com/dbsmedya/extcopy/internal/copier"
	"github.com/dbsmedya/extcopy/internal/logger"
	"github.com/dbsmedya/extcopy/internal/progress"
	"github.com/dbsmedya/extcopy/internal/report"
	"github.com/dbsmedya/extcopy/internal/scanner"
	"github.com/dbsmedya/extcopy/internal/selector"
)

var (
	// ErrNoFiles is returned when the scan finds nothing to offer.
	ErrNoFiles = errors.New("no files found in the specified root folder")
	// ErrNothingSelected is returned when the selection is empty.
	ErrNothingSelected = errors.New("no extensions selected for copying")
)

// ProviderFactory builds the selection provider once the scan is known, so
// interactive listings can show per-extension file counts.
type ProviderFactory func(result *scanner.Result) selector.Provider

// RunResult describes a completed run.
type RunResult struct {
	Root        string
	Destination string
	Extensions  []string // available, in first-seen order
	Selected    []string
	Stats       *copier.CopyStats
	StartedAt   time.Time
	CompletedAt time.Time
}

// Orchestrator wires the scanner, a selection provider and the copier.
type Orchestrator struct {
	cfg        *config.Config
	logger     *logger.Logger
	providers  ProviderFactory
	reporter   progress.Reporter
	reportPath string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger shared by every stage.
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithReporter sets the copy progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithReportPath writes a run report to path after the copy pass.
func WithReportPath(path string) Option {
	return func(o *Orchestrator) { o.reportPath = path }
}

// NewOrchestrator creates an orchestrator. providers must not be nil.
func NewOrchestrator(cfg *config.Config, providers ProviderFactory, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if providers == nil {
		return nil, fmt.Errorf("selection provider is nil")
	}

	o := &Orchestrator{
		cfg:       cfg,
		logger:    logger.NewNop(),
		providers: providers,
		reporter:  progress.Nop{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes one copy run. Every stage failure is returned wrapped with
// its stage; per-file copy failures only show up in the statistics.
func (o *Orchestrator) Run(ctx context.Context, root, dest string) (*RunResult, error) {
	res := &RunResult{
		Root:        root,
		Destination: dest,
		StartedAt:   time.Now(),
	}
	log := o.logger.WithRoot(root).WithDestination(dest)

	namer, err := copier.NewNamer(o.cfg.Copy.Prefix)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Debugw("Scanning root folder",
		"exclude", o.cfg.Scan.Exclude,
		"exclude_patterns", o.cfg.Scan.ExcludePatterns,
	)
	scan, err := scanner.Scan(ctx, root, scanner.Options{
		ExcludeSubstrings: o.cfg.Scan.Exclude,
		ExcludePatterns:   o.cfg.Scan.ExcludePatterns,
		SortPaths:         o.cfg.Scan.SortPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directories: %w", err)
	}

	res.Extensions = scan.Extensions()
	if len(res.Extensions) == 0 {
		return nil, ErrNoFiles
	}
	log.Infow("Scan complete",
		"extensions", len(res.Extensions),
		"files", scan.TotalFiles(),
	)

	selected, err := o.providers(scan).Select(ctx, res.Extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to get selected extensions: %w", err)
	}
	if len(selected) == 0 {
		return nil, ErrNothingSelected
	}
	res.Selected = selected
	log.Infow("Extensions selected", "selected", selected)

	c, err := copier.New(dest,
		copier.WithNamer(namer),
		copier.WithLogger(log.WithFields(map[string]interface{}{"prefix": o.prefix()})),
		copier.WithReporter(o.reporter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create copier: %w", err)
	}

	stats, err := c.Copy(ctx, scan, selected)
	res.Stats = stats
	res.CompletedAt = time.Now()
	if err != nil {
		return res, fmt.Errorf("failed to copy files: %w", err)
	}

	log.Infow("Statistics",
		"total", stats.Total,
		"copied", stats.Copied,
		"failed", stats.Failed,
		"bytes", stats.Bytes,
		"duration", stats.Duration,
	)

	if o.reportPath != "" {
		if err := report.Write(o.reportPath, o.buildReport(res)); err != nil {
			return res, fmt.Errorf("failed to write report: %w", err)
		}
		log.Infow("Report written", "path", o.reportPath)
	}

	return res, nil
}

// prefix returns the naming strategy in effect.
func (o *Orchestrator) prefix() string {
	if o.cfg.Copy.Prefix == "" {
		return config.PrefixSequence
	}
	return o.cfg.Copy.Prefix
}

func (o *Orchestrator) buildReport(res *RunResult) report.Report {
	return report.Report{
		Root:        res.Root,
		Destination: res.Destination,
		Selected:    res.Selected,
		Prefix:      o.prefix(),
		StartedAt:   res.StartedAt,
		FinishedAt:  res.CompletedAt,
		Summary:     report.SummaryFromStats(res.Stats),
	}
}
