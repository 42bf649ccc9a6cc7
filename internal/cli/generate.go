package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/fairshare/internal/domain/tree"
	"github.com/okian/fairshare/internal/treegen"
)

type generateOptions struct {
	leaves      int
	maxChildren int
	maxLength   float64
	seed        uint64
}

func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Emit a random tree document",
		Long:  `Generate a random tree with the given number of leaves and print it as a {"root": ...} JSON document. The same seed always yields the same tree.`,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if opts.leaves < 1 {
				return fmt.Errorf("invalid --leaves %d", opts.leaves)
			}
			if opts.maxChildren < 2 {
				return fmt.Errorf("invalid --max-children %d", opts.maxChildren)
			}
			root := treegen.Generate(
				treegen.WithLeaves(opts.leaves),
				treegen.WithMaxChildren(opts.maxChildren),
				treegen.WithMaxLength(opts.maxLength),
				treegen.WithSeed(opts.seed),
			)
			data, err := tree.Encode(root)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, string(data))
			return err
		},
	}

	cmd.Flags().IntVarP(&opts.leaves, "leaves", "l", 100, "number of leaves")
	cmd.Flags().IntVar(&opts.maxChildren, "max-children", 4, "maximum children per internal node")
	cmd.Flags().Float64Var(&opts.maxLength, "max-length", 10, "upper bound of edge lengths")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "random seed")

	return cmd
}
