package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/fairshare/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FAIRSHARE_ADDR", ":8080")
			_ = os.Setenv("FAIRSHARE_LOG_LEVEL", "debug")
			_ = os.Setenv("FAIRSHARE_MAX_BODY_BYTES", "1024")
			_ = os.Setenv("FAIRSHARE_MAX_RESULT_LIMIT", "50")
			_ = os.Setenv("FAIRSHARE_PARALLEL_THRESHOLD", "0")
			_ = os.Setenv("FAIRSHARE_WORKER_COUNT", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(1024))
				convey.So(cfg.MaxResultLimit, convey.ShouldEqual, 50)
				convey.So(cfg.ParallelThreshold, convey.ShouldEqual, 0)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
# comments are fine
addr: ":9090"
log_format: json
max_result_limit: 200
worker_count: 24
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FAIRSHARE_CONFIG", tmpFile)
			_ = os.Setenv("FAIRSHARE_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should override the file and the file the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxResultLimit, convey.ShouldEqual, 200)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(32<<20))
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FAIRSHARE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FAIRSHARE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FAIRSHARE_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("FAIRSHARE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When loading config with a non-positive worker count", func() {
			_ = os.Setenv("FAIRSHARE_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cases := map[string]func(c *config.Config){
			"max_body_bytes":     func(c *config.Config) { c.MaxBodyBytes = 0 },
			"max_result_limit":   func(c *config.Config) { c.MaxResultLimit = -1 },
			"parallel_threshold": func(c *config.Config) { c.ParallelThreshold = -1 },
		}
		for field, mutate := range cases {
			convey.Convey("When "+field+" is out of range", func() {
				cfg := config.New()
				mutate(cfg)

				convey.Convey("Then validation should name it", func() {
					err := cfg.Validate()
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, field)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FAIRSHARE_CONFIG",
		"FAIRSHARE_ADDR",
		"FAIRSHARE_LOG_LEVEL",
		"FAIRSHARE_LOG_FORMAT",
		"FAIRSHARE_MAX_BODY_BYTES",
		"FAIRSHARE_MAX_RESULT_LIMIT",
		"FAIRSHARE_PARALLEL_THRESHOLD",
		"FAIRSHARE_WORKER_COUNT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "fairshare-config-*.yaml")
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
