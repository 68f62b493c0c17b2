package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/extcopy/internal/app"
	"github.com/dbsmedya/extcopy/internal/config"
	"github.com/dbsmedya/extcopy/internal/copier"
	"github.com/dbsmedya/extcopy/internal/lock"
	"github.com/dbsmedya/extcopy/internal/logger"
	"github.com/dbsmedya/extcopy/internal/progress"
	"github.com/dbsmedya/extcopy/internal/scanner"
	"github.com/dbsmedya/extcopy/internal/selector"
	"github.com/dbsmedya/extcopy/internal/shutdown"
)

// loggedError marks an error that has already been written to the run log.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }

func (e *loggedError) Unwrap() error { return e.err }

func runCopy(cmd *cobra.Command, args []string) (err error) {
	root, dest := args[0], args[1]
	// Arguments parsed; usage is no longer helpful for failures below.
	cmd.SilenceUsage = true

	// Load configuration
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	defer func() {
		if err != nil {
			log.Error(err.Error())
			err = &loggedError{err: err}
		}
	}()

	log.Debugw("Starting extcopy",
		"root", root,
		"destination", dest,
		"config", GetConfigFile(),
	)

	// Keep a second run from writing into the same destination
	if !force {
		destLock, err := lock.NewDestinationLock(dest)
		if err != nil {
			return err
		}
		if err := destLock.AcquireOrFail(); err != nil {
			if errors.Is(err, lock.ErrLocked) {
				return fmt.Errorf("another extcopy run is writing to %s (use --force to override)", dest)
			}
			return err
		}
		defer destLock.Release()
		log.Debugw("Acquired destination lock", "lock_file", destLock.Path())
	} else {
		log.Warnw("Skipping destination lock (--force flag used)", "destination", dest)
	}

	// Handle graceful shutdown
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := shutdown.SetupSignalHandlerWithCallback(parent, func(sig os.Signal) {
		log.Warnw("Received shutdown signal - stopping after the current file...", "signal", sig.String())
	})
	defer stop()

	out := cmd.OutOrStdout()
	orch, err := app.NewOrchestrator(cfg, providerFactory(cmd, out),
		app.WithLogger(log),
		app.WithReporter(progress.ForTerminal(os.Stderr, cfg.Progress.Enabled, cfg.Progress.Width)),
		app.WithReportPath(reportFile),
	)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	result, err := orch.Run(ctx, root, dest)
	if result != nil && result.Stats != nil {
		printSummary(out, result)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("run cancelled by user: %w", err)
		}
		return err
	}

	return nil
}

// providerFactory prompts on stdin unless --select was given.
func providerFactory(cmd *cobra.Command, out io.Writer) app.ProviderFactory {
	if cmd.Flags().Changed("select") {
		line := selection
		return func(*scanner.Result) selector.Provider {
			return selector.StaticProvider{Line: line}
		}
	}
	in := cmd.InOrStdin()
	return func(r *scanner.Result) selector.Provider {
		return selector.NewPromptProvider(in, out, r.Counts())
	}
}

func printSummary(out io.Writer, result *app.RunResult) {
	stats := result.Stats
	fmt.Fprintf(out, "\n=== Copy Complete ===\n")
	fmt.Fprintf(out, "Destination: %s\n", result.Destination)
	fmt.Fprintf(out, "Duration: %s\n", stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Total Files: %d\n", stats.Total)
	fmt.Fprintf(out, "Copied: %s\n", color.Green.Sprint(stats.Copied))
	fmt.Fprintf(out, "Failed: %s\n", failedColor(stats).Sprint(stats.Failed))
	fmt.Fprintf(out, "Bytes Copied: %d\n", stats.Bytes)
}

func failedColor(stats *copier.CopyStats) color.Color {
	if stats.Failed > 0 {
		return color.Red
	}
	return color.Normal
}
