package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/fairshare/pkg/logger"
)

// ErrFailed is returned by Run when any request failed or any ranking
// differed from the local solve.
var ErrFailed = errors.New("load test failed")

// Run executes the complete load test and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting fairshare load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("trees", config.Trees),
		logger.Int("leaves", config.Leaves),
		logger.Int("limit", config.Limit),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	if err := checkServiceHealth(ctx, config); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	trees, err := generateTrees(ctx, config, stats)
	if err != nil {
		return nil, fmt.Errorf("tree generation failed: %w", err)
	}

	submitTrees(ctx, config, trees, newVerifier(config.Limit), stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.Failed > 0 || stats.Mismatched > 0 {
		return stats, fmt.Errorf("%w: %d failed, %d mismatched", ErrFailed, stats.Failed, stats.Mismatched)
	}
	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The service answers /healthz with its Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var treesPerSecond float64
	if stats.Duration > 0 {
		treesPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("treesGenerated", stats.TreesGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("mismatched", stats.Mismatched),
		logger.Duration("p50", stats.P50),
		logger.Duration("p99", stats.P99),
		logger.Duration("duration", stats.Duration),
		logger.Float64("treesPerSecond", treesPerSecond))
}
