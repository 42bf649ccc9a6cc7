package loadtest

import (
	"context"
	"errors"
	"fmt"

	app "github.com/okian/fairshare/internal/app"
	"github.com/okian/fairshare/internal/domain/ranking"
	"github.com/okian/fairshare/pkg/logger"
)

// ErrMismatch reports a server ranking that differs from the local one.
var ErrMismatch = errors.New("ranking mismatch")

// verifier checks the server's answer for the posted document body.
type verifier func(ctx context.Context, body []byte, got *SolveResponse) error

// newVerifier solves every document locally on the sequential path and
// compares it entry by entry with the server's answer.
func newVerifier(limit int) verifier {
	local := app.New(app.WithLogger(logger.Nop()), app.WithParallelThreshold(0))

	return func(ctx context.Context, body []byte, got *SolveResponse) error {
		set, err := local.Solve(ctx, body)
		if err != nil {
			return fmt.Errorf("local solve: %w", err)
		}
		if got.Count != set.Len() {
			return fmt.Errorf("%w: count %d, want %d", ErrMismatch, got.Count, set.Len())
		}

		var want []ranking.Ranked
		if limit > 0 {
			if want, err = set.TopN(limit); err != nil {
				return err
			}
		} else {
			want = set.Drain()
		}

		if err := verifyOrdering(got.Results); err != nil {
			return err
		}
		return compareRankings(want, got.Results)
	}
}

// verifyOrdering checks that scores never increase and ranks are dense.
func verifyOrdering(results []Entry) error {
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if cur.Score > prev.Score {
			return fmt.Errorf("%w: entry %d (%s) outscores entry %d (%s)", ErrMismatch, i, cur.Name, i-1, prev.Name)
		}
		wantRank := prev.Rank + 1
		if cur.Score == prev.Score {
			wantRank = prev.Rank
		}
		if cur.Rank != wantRank {
			return fmt.Errorf("%w: entry %d has rank %d, want %d", ErrMismatch, i, cur.Rank, wantRank)
		}
	}
	return nil
}

func compareRankings(want []ranking.Ranked, got []Entry) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: %d results, want %d", ErrMismatch, len(got), len(want))
	}
	for i, w := range want {
		g := got[i]
		if g.Name != w.Name || g.Rank != w.Rank || g.Score != w.Score.Float() {
			return fmt.Errorf("%w: entry %d is %d/%s/%v, want %d/%s/%v",
				ErrMismatch, i, g.Rank, g.Name, g.Score, w.Rank, w.Name, w.Score)
		}
	}
	return nil
}
