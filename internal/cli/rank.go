package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	app "github.com/okian/fairshare/internal/app"
	"github.com/okian/fairshare/internal/domain/ranking"
	"github.com/okian/fairshare/pkg/logger"
)

type rankOptions struct {
	limit             int
	json              bool
	workers           int
	parallelThreshold int
}

type rankOutput struct {
	Count   int              `json:"count"`
	Results []ranking.Ranked `json:"results"`
}

func (c *CLI) rankCommand() *cobra.Command {
	opts := rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank [file|-]",
		Short: "Rank the leaves of a JSON tree",
		Long:  `Read a {"root": ...} tree document from a file or standard input and print its leaves by descending fair-proportion score.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRank(cmd, path, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "print only the first N leaves")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the ranking as JSON")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "goroutines used for large trees")
	cmd.Flags().IntVar(&opts.parallelThreshold, "parallel-threshold", 50_000, "leaf count from which subtrees are scored concurrently (0 disables)")

	return cmd
}

func (c *CLI) runRank(cmd *cobra.Command, path string, opts rankOptions) error {
	if opts.limit < 0 {
		return fmt.Errorf("invalid --limit %d", opts.limit)
	}

	data, err := c.readInput(path)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(logger.Named("rank")),
		app.WithWorkerCount(opts.workers),
		app.WithParallelThreshold(opts.parallelThreshold),
	)
	set, err := svc.Solve(cmd.Context(), data)
	if err != nil {
		return err
	}

	out := rankOutput{Count: set.Len()}
	if opts.limit > 0 {
		if out.Results, err = set.TopN(opts.limit); err != nil {
			return err
		}
	} else {
		out.Results = set.Drain()
	}

	if opts.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return writeTable(c.out, out.Results)
}

func (c *CLI) readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(c.in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeTable(w io.Writer, rows []ranking.Ranked) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tSCORE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Rank, r.Name, r.Score)
	}
	return tw.Flush()
}
