// Package loadtest drives a running fairshare server with generated trees and
// checks every ranking it returns against a local solve.
package loadtest

import "time"

// Config holds configuration for a load test run.
type Config struct {
	BaseURL string        // Base URL of the service
	Trees   int           // Number of trees to generate and submit
	Leaves  int           // Leaves per generated tree
	Limit   int           // limit query parameter; 0 requests the full ranking
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Seed    uint64        // Seed of the first tree; tree i uses Seed+i
	Verbose bool          // Log every mismatch
}

// Entry is one ranked leaf as returned by POST /solve.
type Entry struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SolveResponse is the body of a successful POST /solve.
type SolveResponse struct {
	Count   int     `json:"count"`
	Results []Entry `json:"results"`
}

// Stats holds load test statistics.
type Stats struct {
	TreesGenerated int
	Submitted      int
	Successful     int
	Failed         int
	Mismatched     int
	P50            time.Duration
	P99            time.Duration
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
