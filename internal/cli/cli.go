// Package cli implements the fairshare command-line interface.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/fairshare/pkg/logger"
)

// CLI holds shared state for all commands.
type CLI struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	verbose bool
}

// New creates a CLI reading from in, printing results to out and logging to
// errOut.
func New(in io.Reader, out, errOut io.Writer) *CLI {
	return &CLI{in: in, out: out, err: errOut}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fairshare",
		Short:         "fairshare ranks the leaves of a weighted tree by fair proportion",
		Long:          `fairshare splits every edge length of a tree evenly among the leaves below it and ranks the leaves by the sum of their shares.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := logger.InitWithWriter(c.err, logger.FormatText); err != nil {
				return err
			}
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			return logger.SetLevelString(level)
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.err)

	root.AddCommand(c.rankCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.loadtestCommand())

	return root
}
