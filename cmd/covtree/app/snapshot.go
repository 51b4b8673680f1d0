package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/covtree/internal/logger"
	"github.com/zjy-dev/covtree/internal/snapshot"
)

// NewSnapshotCommand creates the "snapshot" subcommand.
func NewSnapshotCommand(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot REPORT",
		Short: "Save the coverage tree of a report for later diffs.",
		Long: `Build the coverage tree of a genhtml report and save it as a compressed
snapshot. Snapshots can be passed to "tree" and "diff" in place of a report,
so the HTML report does not need to be kept around.

Examples:
  # Snapshot the baseline report
  covtree snapshot base/html -o base.covtree`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !snapshot.IsSnapshot(output) {
				return fmt.Errorf("output file must have the %s extension", snapshot.Ext)
			}

			tree, err := loadTree(opts.cfg, args[0])
			if err != nil {
				return err
			}
			if err := snapshot.Save(output, tree); err != nil {
				return err
			}

			digest, err := snapshot.Digest(tree)
			if err != nil {
				return err
			}
			logger.Info("snapshot saved to %s (%d files, blake3 %s)", output, len(tree.Files()), digest[:16])
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Snapshot file to write (must end in .covtree)")
	cmd.MarkFlagRequired("output")

	return cmd
}
