package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/extcopy/internal/app"
	"github.com/dbsmedya/extcopy/internal/config"
	"github.com/dbsmedya/extcopy/internal/copier"
	"github.com/dbsmedya/extcopy/internal/lock"
	"github.com/dbsmedya/extcopy/internal/selector"
)

// resetFlags restores every flag to its default between executions.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	t.Cleanup(func() {
		resetFlags(t)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
	return root
}

func destEntries(t *testing.T, dest string) []string {
	t.Helper()
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRootCommandStructure(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.True(t, strings.HasPrefix(rootCmd.Use, "extcopy"))
	assert.NotEmpty(t, rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "Example:")
	assert.NotNil(t, rootCmd.RunE)
}

func TestRootCommandFlags(t *testing.T) {
	flags := rootCmd.Flags()
	for _, name := range []string{"exclude", "exclude-pattern", "select", "prefix", "sort", "report", "no-progress", "force"} {
		assert.NotNil(t, flags.Lookup(name), "flag %s should exist", name)
	}
	assert.Equal(t, "e", flags.Lookup("exclude").Shorthand)

	persistent := rootCmd.PersistentFlags()
	for _, name := range []string{"config", "log-level", "log-format", "log-output"} {
		assert.NotNil(t, persistent.Lookup(name), "persistent flag %s should exist", name)
	}
}

func TestGetConfigFile(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	cfgFile = "/path/to/my config.yaml"
	assert.Equal(t, "/path/to/my config.yaml", GetConfigFile())
}

func TestGetCLIOverrides(t *testing.T) {
	resetFlags(t)
	defer resetFlags(t)

	require.NoError(t, rootCmd.ParseFlags([]string{
		"--log-level", "debug",
		"--log-format", "json",
		"--log-output", "/tmp/x.log",
		"-e", "tmp,bak",
		"--exclude", "~",
		"--exclude-pattern", "*.part",
		"--prefix", "uuid",
		"--sort",
		"--no-progress",
	}))

	assert.Equal(t, config.CLIOverrides{
		LogLevel:        "debug",
		LogFormat:       "json",
		LogOutput:       "/tmp/x.log",
		Exclude:         []string{"tmp", "bak", "~"},
		ExcludePatterns: []string{"*.part"},
		Prefix:          "uuid",
		SortPaths:       true,
		NoProgress:      true,
	}, GetCLIOverrides())
}

func TestRunWithSelectFlag(t *testing.T) {
	root := writeTree(t, "a.txt", "b.jpg", "nested/c.txt", "skip-me.txt")
	dest := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, "", root, dest, "--select", "1", "--sort", "--exclude", "skip", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "=== Copy Complete ===")
	assert.Contains(t, out, "Total Files: 2")

	names := destEntries(t, dest)
	assert.Len(t, names, 2)
	for _, n := range names {
		assert.True(t, strings.HasSuffix(n, ".txt"), n)
		assert.NotContains(t, n, "skip")
	}
}

func TestRunInteractiveSelection(t *testing.T) {
	root := writeTree(t, "a.txt", "b.jpg")
	dest := t.TempDir()

	out, err := execute(t, "1,2\n", root, dest, "--sort", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, selector.PromptText)
	assert.Contains(t, out, "Total Files: 2")
	assert.Len(t, destEntries(t, dest), 2)
}

func TestRunNoFilesFound(t *testing.T) {
	_, err := execute(t, "", t.TempDir(), t.TempDir(), "--select", "1", "--log-level", "error")
	assert.ErrorIs(t, err, app.ErrNoFiles)
}

func TestRunEmptySelection(t *testing.T) {
	root := writeTree(t, "a.txt")

	_, err := execute(t, "\n", root, t.TempDir(), "--log-level", "error")
	assert.ErrorIs(t, err, app.ErrNothingSelected)
}

func TestRunSelectionOutOfRange(t *testing.T) {
	root := writeTree(t, "a.txt")
	dest := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "", root, dest, "--select", "2", "--log-level", "error")
	assert.ErrorIs(t, err, selector.ErrIndexOutOfRange)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingRoot(t *testing.T) {
	_, err := execute(t, "", filepath.Join(t.TempDir(), "missing"), t.TempDir(), "--select", "1", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan directories")

	var logged *loggedError
	assert.True(t, errors.As(err, &logged), "fatal run errors are logged once")
}

func TestRunWrongArgumentCount(t *testing.T) {
	_, err := execute(t, "", t.TempDir())
	assert.Error(t, err)
}

func TestRunInvalidPrefix(t *testing.T) {
	root := writeTree(t, "a.txt")

	_, err := execute(t, "", root, t.TempDir(), "--select", "1", "--prefix", "random")
	require.Error(t, err)

	var verrs config.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestRunLockedDestination(t *testing.T) {
	root := writeTree(t, "a.txt")
	dest := t.TempDir()

	held, err := lock.NewDestinationLock(dest)
	require.NoError(t, err)
	require.NoError(t, held.AcquireOrFail())
	defer held.Release()

	_, err = execute(t, "", root, dest, "--select", "1", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Empty(t, destEntries(t, dest))

	_, err = execute(t, "", root, dest, "--select", "1", "--force", "--log-level", "error")
	require.NoError(t, err)
	assert.Len(t, destEntries(t, dest), 1)
}

func TestRunReleasesDestinationLock(t *testing.T) {
	root := writeTree(t, "a.txt")
	dest := t.TempDir()

	_, err := execute(t, "", root, dest, "--select", "1", "--log-level", "error")
	require.NoError(t, err)

	after, err := lock.NewDestinationLock(dest)
	require.NoError(t, err)
	require.NoError(t, after.AcquireOrFail())
	assert.True(t, after.IsHeld())
	require.NoError(t, after.Release())
}

func TestRunWithConfigFileAndReport(t *testing.T) {
	root := writeTree(t, "keep.log", "drop.log", "x.md")
	dest := t.TempDir()
	dir := t.TempDir()

	configPath := filepath.Join(dir, "extcopy.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
scan:
  exclude: ["drop"]
copy:
  prefix: uuid
logging:
  level: error
`), 0644))
	reportPath := filepath.Join(dir, "run.yaml")

	_, err := execute(t, "", root, dest, "--config", configPath, "--select", "1,2", "--report", reportPath)
	require.NoError(t, err)

	assert.Len(t, destEntries(t, dest), 2)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "prefix: uuid")
	assert.Contains(t, string(data), "copied: 2")
}

func TestRunMissingConfigFile(t *testing.T) {
	root := writeTree(t, "a.txt")

	_, err := execute(t, "", root, t.TempDir(), "--config", "/nonexistent/extcopy.yaml", "--select", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestPrintSummaryOutput(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, &app.RunResult{
		Destination: "/dest",
		Stats:       &copier.CopyStats{Total: 3, Copied: 2, Failed: 1, Bytes: 42, Duration: 1500 * time.Millisecond},
	})

	summary := out.String()
	assert.Contains(t, summary, "Destination: /dest")
	assert.Contains(t, summary, "Duration: 1.5s")
	assert.Contains(t, summary, "Total Files: 3")
	assert.Contains(t, summary, "Bytes Copied: 42")
}
