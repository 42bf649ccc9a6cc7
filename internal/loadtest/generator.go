package loadtest

import (
	"context"
	"fmt"

	"github.com/okian/fairshare/internal/domain/tree"
	"github.com/okian/fairshare/internal/treegen"
	"github.com/okian/fairshare/pkg/logger"
)

// payload is one encoded tree ready to be posted.
type payload struct {
	seed uint64
	body []byte
}

// generateTrees builds config.Trees documents with consecutive seeds.
func generateTrees(ctx context.Context, config *Config, stats *Stats) ([]payload, error) {
	logger.Get().Info(ctx, "generating trees",
		logger.Int("trees", config.Trees),
		logger.Int("leaves", config.Leaves))

	out := make([]payload, 0, config.Trees)
	for i := range config.Trees {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed := config.Seed + uint64(i)
		root := treegen.Generate(treegen.WithLeaves(config.Leaves), treegen.WithSeed(seed))
		body, err := tree.Encode(root)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		out = append(out, payload{seed: seed, body: body})
	}

	stats.TreesGenerated = len(out)
	return out, nil
}
