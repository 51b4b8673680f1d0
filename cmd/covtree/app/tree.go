package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/covtree/internal/report"
)

// NewTreeCommand creates the "tree" subcommand.
func NewTreeCommand(opts *globalOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "tree REPORT",
		Short: "Print the coverage tree of a report.",
		Long: `Build the coverage tree of a genhtml report and print it.

REPORT is a report directory, its index.html, or a snapshot file (.covtree).

Examples:
  # Print the tree as YAML
  covtree tree build/coverage-html

  # Print the tree of a snapshot as JSON
  covtree tree before.covtree --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(opts.cfg, args[0])
			if err != nil {
				return err
			}

			reporter, err := newReporter(opts.cfg, format)
			if err != nil {
				return err
			}

			if output != "" {
				return report.SaveTree(reporter, output, tree)
			}
			return reporter.Tree(cmd.OutOrStdout(), tree)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: yaml or json (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}
