// Package config defines service configuration and its loading.
//
// Conventions:
// - New() returns the defaults; Load layers file and env on top.
// - Errors returned from Load wrap one of this package's sentinel kinds.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxBodyBytes bounds the size of a POST /solve request body.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MaxResultLimit caps POST /solve?limit.
	MaxResultLimit int `koanf:"max_result_limit"`

	// ParallelThreshold is the leaf count from which subtrees are scored
	// concurrently. Zero disables the parallel walk.
	ParallelThreshold int `koanf:"parallel_threshold"`

	// WorkerCount bounds the goroutines used by a parallel walk.
	WorkerCount int `koanf:"worker_count"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		MaxBodyBytes:      32 << 20,
		MaxResultLimit:    10_000,
		ParallelThreshold: 50_000,
		WorkerCount:       runtime.NumCPU(),
	}
}
