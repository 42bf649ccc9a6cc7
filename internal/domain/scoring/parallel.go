package scoring

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/okian/fairshare/internal/domain/tree"
)

// cancelCheckInterval is how many leaves a worker emits between context checks.
const cancelCheckInterval = 1024

// WalkParallel computes the same results as Walk, in the same order, but
// scores the subtrees under n's children concurrently with at most workers
// goroutines. Siblings never share state, so only the final merge is ordered.
func WalkParallel(ctx context.Context, n tree.Node, curr float64, workers int) ([]Result, error) {
	in, ok := n.(*tree.Internal)
	if !ok || workers <= 1 || len(in.Children()) < 2 {
		return walkChecked(ctx, n, curr)
	}

	next := curr + share(in)
	children := in.Children()
	parts := make([][]Result, len(children))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range children {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part, err := walkChecked(gctx, c, next)
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel walk: %w", err)
	}

	out := make([]Result, 0, tree.Size(in))
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// walkChecked runs Walk to completion unless ctx is cancelled first.
func walkChecked(ctx context.Context, n tree.Node, curr float64) ([]Result, error) {
	out := make([]Result, 0, tree.Size(n))
	for r := range Walk(n, curr) {
		if len(out)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out = append(out, r)
	}
	return out, nil
}
