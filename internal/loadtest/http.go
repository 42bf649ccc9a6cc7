package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fairshare/pkg/logger"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = time.Second
)

// httpClient wraps http.Client with timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *httpClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *httpClient) Post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// solveURL returns the POST /solve target for config.
func solveURL(config *Config) string {
	url := config.BaseURL + "/solve"
	if config.Limit > 0 {
		url += "?limit=" + strconv.Itoa(config.Limit)
	}
	return url
}

// submitTrees posts every payload with a pool of workers and verifies each
// ranking with verify. It fills the submission counters and latency
// percentiles of stats.
func submitTrees(ctx context.Context, config *Config, trees []payload, verify verifier, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting trees", logger.Int("trees", len(trees)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := solveURL(config)

	var (
		submitted  atomic.Int64
		successful atomic.Int64
		failed     atomic.Int64
		mismatched atomic.Int64
		lastReport atomic.Int64

		mu        sync.Mutex
		latencies = make([]time.Duration, 0, len(trees))
	)

	treeChan := make(chan payload, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for p := range treeChan {
				start := time.Now()
				resp, err := submitSingleTree(ctx, client, url, p.body)
				elapsed := time.Since(start)
				submitted.Add(1)

				switch {
				case err != nil:
					failed.Add(1)
					if config.Verbose {
						log.Warn(ctx, "solve request failed", logger.Any("seed", p.seed), logger.Error(err))
					}
				default:
					mu.Lock()
					latencies = append(latencies, elapsed)
					mu.Unlock()

					if err := verify(ctx, p.body, resp); err != nil {
						mismatched.Add(1)
						if config.Verbose {
							log.Warn(ctx, "ranking mismatch", logger.Any("seed", p.seed), logger.Error(err))
						}
					} else {
						successful.Add(1)
					}
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Int("submitted", int(submitted.Load())),
						logger.Int("total", len(trees)),
						logger.Int("failed", int(failed.Load())),
						logger.Int("mismatched", int(mismatched.Load())))
				}
			}
		}()
	}

	go func() {
		defer close(treeChan)
		for _, p := range trees {
			select {
			case <-ctx.Done():
				return
			case treeChan <- p:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Successful = int(successful.Load())
	stats.Failed = int(failed.Load())
	stats.Mismatched = int(mismatched.Load())
	stats.P50, stats.P99 = percentiles(latencies)
}

// submitSingleTree posts one tree and decodes the ranking.
func submitSingleTree(ctx context.Context, client *httpClient, url string, body []byte) (*SolveResponse, error) {
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var out SolveResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// percentiles returns the 50th and 99th percentile of ds.
func percentiles(ds []time.Duration) (p50, p99 time.Duration) {
	if len(ds) == 0 {
		return 0, 0
	}
	slices.Sort(ds)
	at := func(q float64) time.Duration {
		return ds[min(len(ds)-1, int(q*float64(len(ds))))]
	}
	return at(0.50), at(0.99)
}
