// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading and validation errors wrap this package's sentinel errors.
package config

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"
)

// Config contains process configuration shared by the server and the CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxUploadMB caps the size of one POST /merge body and of any single
	// decompressed archive member.
	MaxUploadMB int `koanf:"max_upload_mb"`

	// MaxFiles caps the number of files in one batch after archive expansion.
	MaxFiles int `koanf:"max_files"`

	// MaxArchiveEntries caps the number of members read from one zip archive.
	MaxArchiveEntries int `koanf:"max_archive_entries"`

	// ParseWorkers bounds per-batch parallel file parsing.
	ParseWorkers int `koanf:"parse_workers"`

	// XLSCharset is the text encoding used for legacy .xls files.
	XLSCharset string `koanf:"xls_charset"`

	// OutputFilename names the exported workbook attachment.
	OutputFilename string `koanf:"output_filename"`

	// SkillHeaderAliases and LevelHeaderAliases extend the built-in column
	// header synonyms. Env vars accept comma separated lists.
	SkillHeaderAliases []string `koanf:"skill_header_aliases"`
	LevelHeaderAliases []string `koanf:"level_header_aliases"`

	// MetricsEnabled turns Prometheus collection on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace, MetricsSubsystem and MetricsPrefix build metric
	// names: <namespace>_<subsystem>_<prefix>_<name>.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`
	MetricsPrefix    string `koanf:"metrics_prefix"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsLatencyBucketsMS overrides the latency histogram buckets.
	MetricsLatencyBucketsMS []float64 `koanf:"metrics_latency_buckets_ms"`
}

// metricName matches valid Prometheus metric and label name parts.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		MaxUploadMB:       32,
		MaxFiles:          200,
		MaxArchiveEntries: 500,
		ParseWorkers:      runtime.NumCPU(),
		XLSCharset:        "utf-8",
		OutputFilename:    "final_master.xlsx",
		MetricsEnabled:    true,
		MetricsNamespace:  "skillmerge",
		MetricsSubsystem:  "merge",
	}
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxUploadMB <= 0:
		return fmt.Errorf("%w: max_upload_mb must be positive", ErrInvalidConfig)
	case c.MaxFiles <= 0:
		return fmt.Errorf("%w: max_files must be positive", ErrInvalidConfig)
	case c.MaxArchiveEntries <= 0:
		return fmt.Errorf("%w: max_archive_entries must be positive", ErrInvalidConfig)
	case c.ParseWorkers <= 0:
		return fmt.Errorf("%w: parse_workers must be positive", ErrInvalidConfig)
	case !strings.HasSuffix(strings.ToLower(c.OutputFilename), ".xlsx"):
		return fmt.Errorf("%w: output_filename must end in .xlsx", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return c.validateMetrics()
}

func (c *Config) validateMetrics() error {
	for key, v := range map[string]string{
		"metrics_namespace": c.MetricsNamespace,
		"metrics_subsystem": c.MetricsSubsystem,
		"metrics_prefix":    c.MetricsPrefix,
	} {
		if v != "" && !metricName.MatchString(v) {
			return fmt.Errorf("%w: %s %q is not a valid metric name part", ErrInvalidConfig, key, v)
		}
	}
	for name := range c.MetricsLabels {
		if !metricName.MatchString(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("%w: metrics_labels key %q is not a valid label name", ErrInvalidConfig, name)
		}
	}
	for i := 1; i < len(c.MetricsLatencyBucketsMS); i++ {
		if c.MetricsLatencyBucketsMS[i] <= c.MetricsLatencyBucketsMS[i-1] {
			return fmt.Errorf("%w: metrics_latency_buckets_ms must be strictly increasing", ErrInvalidConfig)
		}
	}
	return nil
}
