// Package service ties the tree loader, the score propagator and the ranking
// aggregator together behind a single Solve call used by the HTTP API and the
// CLI.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/okian/fairshare/internal/domain/ranking"
	"github.com/okian/fairshare/internal/domain/scoring"
	"github.com/okian/fairshare/internal/domain/tree"
	"github.com/okian/fairshare/pkg/logger"
	"github.com/okian/fairshare/pkg/metrics"
)

const defaultParallelThreshold = 50_000

// Service solves ranking requests. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	parallelThreshold int
	workerCount       int

	logger logger.Logger

	solves    atomic.Int64
	failures  atomic.Int64
	leaves    atomic.Int64
	lastNanos atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithParallelThreshold sets the leaf count from which subtrees are scored
// concurrently. Zero disables the parallel walk.
func WithParallelThreshold(leaves int) Option {
	return func(s *Service) {
		if leaves >= 0 {
			s.parallelThreshold = leaves
		}
	}
}

// WithWorkerCount bounds the goroutines used by a parallel walk.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// New constructs a Service. Without WithLogger it uses the global logger.
func New(opts ...Option) *Service {
	s := &Service{
		parallelThreshold: defaultParallelThreshold,
		workerCount:       runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Solve parses a {"root": ...} document, scores every leaf and returns the
// ranked set. It fails with a *tree.ParseError for bad input and with a
// *ranking.DomainError if any leaf's score is NaN; no partial result is
// ever returned.
func (s *Service) Solve(ctx context.Context, data []byte) (*ranking.Set, error) {
	start := time.Now()
	root, err := tree.Load(data)
	if err != nil {
		s.fail(ctx, start, metrics.OutcomeParseError, err)
		return nil, err
	}
	return s.solve(ctx, root, start)
}

// SolveTree is Solve for a tree that has already been built.
func (s *Service) SolveTree(ctx context.Context, root tree.Node) (*ranking.Set, error) {
	start := time.Now()
	if root == nil {
		err := &tree.ParseError{Err: tree.ErrNilNode}
		s.fail(ctx, start, metrics.OutcomeParseError, err)
		return nil, err
	}
	return s.solve(ctx, root, start)
}

func (s *Service) solve(ctx context.Context, root tree.Node, start time.Time) (*ranking.Set, error) {
	if err := ctx.Err(); err != nil {
		s.fail(ctx, start, metrics.OutcomeCancelled, err)
		return nil, err
	}

	leaves, depth := tree.Size(root), tree.Depth(root)
	metrics.RecordTreeShape(leaves, depth)

	var (
		set *ranking.Set
		err error
	)
	if s.parallel(leaves) {
		metrics.RecordParallelWalk()
		var results []scoring.Result
		results, err = scoring.WalkParallel(ctx, root, 0, s.workerCount)
		if err != nil {
			s.fail(ctx, start, metrics.OutcomeCancelled, err)
			return nil, err
		}
		set, err = ranking.CollectSlice(results)
	} else {
		set, err = ranking.Collect(scoring.Walk(root, 0))
	}
	if err != nil {
		s.fail(ctx, start, metrics.OutcomeDomainError, err)
		return nil, err
	}

	elapsed := time.Since(start)
	s.solves.Add(1)
	s.leaves.Add(int64(leaves))
	s.lastNanos.Store(int64(elapsed))
	metrics.RecordSolve(metrics.OutcomeOK)
	metrics.RecordSolveLatency(float64(elapsed.Microseconds()) / 1000)

	s.logger.Debug(ctx, "tree solved",
		logger.Int("leaves", leaves),
		logger.Int("depth", depth),
		logger.Bool("parallel", s.parallel(leaves)),
		logger.Duration("elapsed", elapsed),
	)
	return set, nil
}

func (s *Service) parallel(leaves int) bool {
	return s.parallelThreshold > 0 && s.workerCount > 1 && leaves >= s.parallelThreshold
}

func (s *Service) fail(ctx context.Context, start time.Time, outcome string, err error) {
	s.failures.Add(1)
	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordSolve(outcome)
	metrics.RecordErrorByComponent("service", outcome)
	metrics.RecordErrorLatency("service", outcome, ms)

	level := s.logger.Info
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		level = s.logger.Debug
	}
	level(ctx, "solve rejected", logger.String("outcome", outcome), logger.Error(err))
}

// GetStats returns counters describing the work done so far.
func (s *Service) GetStats() map[string]any {
	return map[string]any{
		"solves":            s.solves.Load(),
		"failures":          s.failures.Load(),
		"leavesScored":      s.leaves.Load(),
		"lastSolve":         time.Duration(s.lastNanos.Load()).String(),
		"parallelThreshold": s.parallelThreshold,
		"workerCount":       s.workerCount,
		"parallelEnabled":   s.parallelThreshold > 0 && s.workerCount > 1,
	}
}

