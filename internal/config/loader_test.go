package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/skillmerge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxFiles, convey.ShouldEqual, 200)
				convey.So(cfg.OutputFilename, convey.ShouldEqual, "final_master.xlsx")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SKILLMERGE_ADDR", ":8080")
			_ = os.Setenv("SKILLMERGE_MAX_UPLOAD_MB", "8")
			_ = os.Setenv("SKILLMERGE_PARSE_WORKERS", "3")
			_ = os.Setenv("SKILLMERGE_LOG_FORMAT", "json")
			_ = os.Setenv("SKILLMERGE_SKILL_HEADER_ALIASES", "capability, ability ,")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxUploadMB, convey.ShouldEqual, 8)
				convey.So(cfg.ParseWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.SkillHeaderAliases, convey.ShouldResemble, []string{"capability", "ability"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# batch limits
addr: ":9090"
max_files: 50
xls_charset: "windows-1252"
level_header_aliases:
  - grade
  - mark
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLMERGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxFiles, convey.ShouldEqual, 50)
				convey.So(cfg.XLSCharset, convey.ShouldEqual, "windows-1252")
				convey.So(cfg.LevelHeaderAliases, convey.ShouldResemble, []string{"grade", "mark"})
				convey.So(cfg.MaxArchiveEntries, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When loading metrics settings from YAML and env", func() {
			yamlContent := `
metrics_namespace: acme
metrics_prefix: v2
metrics_labels:
  site: eu
metrics_latency_buckets_ms: [5, 50, 500]
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLMERGE_CONFIG", tmpFile)
			_ = os.Setenv("SKILLMERGE_METRICS_ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then every metrics key is populated", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "acme")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "merge")
				convey.So(cfg.MetricsPrefix, convey.ShouldEqual, "v2")
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"site": "eu"})
				convey.So(cfg.MetricsLatencyBucketsMS, convey.ShouldResemble, []float64{5, 50, 500})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_files: 50
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLMERGE_CONFIG", tmpFile)
			_ = os.Setenv("SKILLMERGE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxFiles, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLMERGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SKILLMERGE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SKILLMERGE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SKILLMERGE_MAX_FILES", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive worker count", func() {
			_ = os.Setenv("SKILLMERGE_PARSE_WORKERS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SKILLMERGE_CONFIG",
		"SKILLMERGE_ADDR",
		"SKILLMERGE_MAX_UPLOAD_MB",
		"SKILLMERGE_MAX_FILES",
		"SKILLMERGE_PARSE_WORKERS",
		"SKILLMERGE_LOG_FORMAT",
		"SKILLMERGE_SKILL_HEADER_ALIASES",
		"SKILLMERGE_METRICS_ENABLED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "skillmerge-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
