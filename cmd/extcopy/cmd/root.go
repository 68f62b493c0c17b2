package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/extcopy/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile         string
	logLevel        string
	logFormat       string
	logOutput       string
	excludes        []string
	excludePatterns []string
	prefix          string
	sortPaths       bool
	noProgress      bool
)

// Run flags
var (
	selection  string
	reportFile string
	force      bool
)

var rootCmd = &cobra.Command{
	Use:   "extcopy <root> <destination>",
	Short: "Find files by extension and copy them into one folder",
	Long: `extcopy scans a directory tree, groups the files it finds by extension,
asks which extensions to copy, and copies every matching file into a single
destination directory. Copied files get a unique prefix so files sharing a
name never overwrite each other.

The run proceeds in these steps:
  1. Scan the root folder recursively, skipping excluded file names
  2. List the extensions found and read the selection (e.g. "1,3")
  3. Copy the selected files as <prefix>_<name> into the destination
  4. Print the statistics (total, copied, failed)

Individual copy failures are logged and counted but do not stop the run.

Example:
  extcopy ~/Pictures /mnt/backup/photos --exclude thumb --exclude .tmp
  extcopy ./src ./out --select 1,2 --prefix uuid --report run.json`,
	Args:    cobra.ExactArgs(2),
	Version: Version,
	RunE:    runCopy,
	// Fatal errors are reported once by Execute or the run logger.
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var logged *loggedError
		if !errors.As(err, &logged) {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.Red.Sprint("Error:"), err)
		}
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to optional configuration file (YAML)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "",
		"Override log output (stdout, stderr, or file path)")

	// Scan overrides
	rootCmd.Flags().StringSliceVarP(&excludes, "exclude", "e", nil,
		"Skip files whose name contains this substring (repeatable, comma-separated)")
	rootCmd.Flags().StringSliceVar(&excludePatterns, "exclude-pattern", nil,
		"Skip files whose name matches this glob (repeatable, comma-separated)")
	rootCmd.Flags().BoolVar(&sortPaths, "sort", false,
		"Sort files by path within each extension before copying")

	// Copy overrides
	rootCmd.Flags().StringVar(&prefix, "prefix", "",
		"Override name prefix strategy (sequence, timestamp, uuid)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false,
		"Disable the progress bar")

	// Run options
	rootCmd.Flags().StringVar(&selection, "select", "",
		"Select extensions without prompting (comma-separated indices, e.g. \"1,3\")")
	rootCmd.Flags().StringVar(&reportFile, "report", "",
		"Write a run report to this file (.json, .yaml or .yml)")
	rootCmd.Flags().BoolVar(&force, "force", false,
		"Run even if another extcopy run holds the destination lock (use with caution)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides is re-exported for callers of GetCLIOverrides.
type CLIOverrides = config.CLIOverrides

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:        logLevel,
		LogFormat:       logFormat,
		LogOutput:       logOutput,
		Exclude:         excludes,
		ExcludePatterns: excludePatterns,
		Prefix:          prefix,
		SortPaths:       sortPaths,
		NoProgress:      noProgress,
	}
}
