package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/covtree/internal/config"
	"github.com/zjy-dev/covtree/internal/logger"
)

// errChanged is returned by "diff --fail-on-change" when the trees differ.
var errChanged = errors.New("coverage reports differ")

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if errors.Is(err, errChanged) {
		return 2
	}
	return 1
}

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configFile string
	logLevel   string

	cfg *config.Config
}

// load reads the configuration and initializes the logger.
func (o *globalOptions) load() error {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFile(o.configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	logger.Init(cfg.LogLevel)
	logger.SetLevel(cfg.LogLevel)
	if cfg.LogDir != "" {
		if err := logger.InitWithFile(cfg.LogLevel, cfg.LogDir); err != nil {
			return err
		}
		logger.Debug("logging to %s", logger.GetLogFilePath())
	}

	o.cfg = cfg
	return nil
}

// NewCovtreeCommand creates the root command for the covtree tool.
func NewCovtreeCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "covtree",
		Short: "Parse genhtml coverage reports into trees and diff them.",
		Long: `covtree reads the HTML line-coverage reports written by genhtml, rebuilds the
directory/file hierarchy with per-node statistics, and computes the structural
difference between two reports (added, removed and changed entries with deltas).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Configuration file (default: configs/covtree.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(NewTreeCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))

	return cmd
}
