// Package config provides configuration structures and loading for extcopy.
package config

// Prefix strategies for naming copied files.
const (
	PrefixSequence  = "sequence"
	PrefixTimestamp = "timestamp"
	PrefixUUID      = "uuid"
)

// Config represents the complete application configuration.
type Config struct {
	Scan     ScanConfig     `yaml:"scan" mapstructure:"scan"`
	Copy     CopyConfig     `yaml:"copy" mapstructure:"copy"`
	Progress ProgressConfig `yaml:"progress" mapstructure:"progress"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// ScanConfig controls which files the scanner reports.
type ScanConfig struct {
	Exclude         []string `yaml:"exclude" mapstructure:"exclude"`                   // substrings matched against base names
	ExcludePatterns []string `yaml:"exclude_patterns" mapstructure:"exclude_patterns"` // doublestar globs matched against base names
	SortPaths       bool     `yaml:"sort_paths" mapstructure:"sort_paths"`
}

// CopyConfig controls how selected files are written to the destination.
type CopyConfig struct {
	Prefix string `yaml:"prefix" mapstructure:"prefix"` // sequence, timestamp or uuid
}

// ProgressConfig controls the terminal progress bar.
type ProgressConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Width   int  `yaml:"width" mapstructure:"width"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format     string `yaml:"format" mapstructure:"format"` // json or text
	Output     string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Exclude:         []string{},
			ExcludePatterns: []string{},
			SortPaths:       false,
		},
		Copy: CopyConfig{
			Prefix: PrefixSequence,
		},
		Progress: ProgressConfig{
			Enabled: true,
			Width:   50,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   false,
		},
	}
}

// CLIOverrides contains flag values that override config file settings.
// Zero values leave the loaded configuration untouched.
type CLIOverrides struct {
	LogLevel        string
	LogFormat       string
	LogOutput       string
	Exclude         []string
	ExcludePatterns []string
	Prefix          string
	SortPaths       bool
	NoProgress      bool
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Exclusions from flags are appended to the ones from the config file.
func (c *Config) ApplyOverrides(o CLIOverrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.LogOutput != "" {
		c.Logging.Output = o.LogOutput
	}
	if len(o.Exclude) > 0 {
		c.Scan.Exclude = append(c.Scan.Exclude, o.Exclude...)
	}
	if len(o.ExcludePatterns) > 0 {
		c.Scan.ExcludePatterns = append(c.Scan.ExcludePatterns, o.ExcludePatterns...)
	}
	if o.Prefix != "" {
		c.Copy.Prefix = o.Prefix
	}
	if o.SortPaths {
		c.Scan.SortPaths = true
	}
	if o.NoProgress {
		c.Progress.Enabled = false
	}
}
