package cli

import (
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/fairshare/internal/loadtest"
	"github.com/okian/fairshare/pkg/logger"
)

func (c *CLI) loadtestCommand() *cobra.Command {
	cfg := loadtest.Config{}

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive a running server with generated trees",
		Long:  `Post generated trees to a running fairshare server and verify every ranking against a local solve.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Progress is reported at info level.
			if !c.verbose {
				_ = logger.SetLevelString("info")
			}
			cfg.Verbose = c.verbose
			_, err := loadtest.Run(cmd.Context(), &cfg)
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	cmd.Flags().IntVar(&cfg.Trees, "trees", 100, "number of trees to submit")
	cmd.Flags().IntVar(&cfg.Leaves, "leaves", 1000, "leaves per tree")
	cmd.Flags().IntVarP(&cfg.Limit, "limit", "n", 0, "limit requested per solve (0 for the full ranking)")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "number of concurrent workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 1, "seed of the first tree")

	return cmd
}
