package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/covtree/internal/coverage"
	"github.com/zjy-dev/covtree/internal/diff"
	"github.com/zjy-dev/covtree/internal/logger"
	"github.com/zjy-dev/covtree/internal/report"
)

// NewDiffCommand creates the "diff" subcommand.
func NewDiffCommand(opts *globalOptions) *cobra.Command {
	var (
		format       string
		output       string
		include      []string
		exclude      []string
		failOnChange bool
	)

	cmd := &cobra.Command{
		Use:   "diff BEFORE AFTER",
		Short: "Diff two coverage reports.",
		Long: `Compare two genhtml reports entry by entry, keyed by path relative to each
report's base directory.

Each differing path is reported once as added, removed or changed, with the
per-category statistic deltas (after minus before). Unchanged entries are
omitted; a removed directory is reported without its former contents.

BEFORE and AFTER are report directories, index files or snapshot files (.covtree).

Include/exclude patterns use doublestar syntax (e.g. "src/**", "**/*.h") and
are matched against relative paths. Flags are added to the patterns from the
config file.

Examples:
  # Diff two reports
  covtree diff base/html head/html

  # Only compare sources under src/, ignoring headers
  covtree diff base/html head/html --include 'src/**' --exclude '**/*.h'

  # Fail a CI step when coverage changed
  covtree diff base.covtree head/html --fail-on-change`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := opts.cfg.Filter.CoverageFilter()
			filter.Include = append(filter.Include, include...)
			filter.Exclude = append(filter.Exclude, exclude...)
			if err := filter.Validate(); err != nil {
				return err
			}

			before, err := loadTree(opts.cfg, args[0])
			if err != nil {
				return err
			}
			after, err := loadTree(opts.cfg, args[1])
			if err != nil {
				return err
			}

			result := diff.Trees(coverage.Prune(before, filter), coverage.Prune(after, filter))
			summary := result.Summary()
			logger.Info("files: %d added, %d removed, %d changed",
				summary.Files.Added, summary.Files.Removed, summary.Files.Changed)

			reporter, err := newReporter(opts.cfg, format)
			if err != nil {
				return err
			}
			if output != "" {
				err = report.SaveDiff(reporter, output, result)
			} else {
				err = reporter.Diff(cmd.OutOrStdout(), result)
			}
			if err != nil {
				return err
			}

			if failOnChange && !result.Empty() {
				return errChanged
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: yaml or json (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringArrayVar(&include, "include", nil, "Only compare entries matching this pattern (repeatable)")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Skip entries matching this pattern (repeatable)")
	cmd.Flags().BoolVar(&failOnChange, "fail-on-change", false, "Exit with status 2 when the reports differ")

	return cmd
}
