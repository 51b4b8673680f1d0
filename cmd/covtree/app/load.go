package app

import (
	"fmt"

	"github.com/zjy-dev/covtree/internal/config"
	"github.com/zjy-dev/covtree/internal/coverage"
	"github.com/zjy-dev/covtree/internal/document"
	"github.com/zjy-dev/covtree/internal/locate"
	"github.com/zjy-dev/covtree/internal/logger"
	"github.com/zjy-dev/covtree/internal/report"
	"github.com/zjy-dev/covtree/internal/snapshot"
)

// loadTree returns the tree for a report location or a snapshot file.
func loadTree(cfg *config.Config, path string) (*coverage.Tree, error) {
	if snapshot.IsSnapshot(path) {
		logger.Debug("loading snapshot %s", path)
		return snapshot.Load(path)
	}

	locator := locate.NewLocator(cfg.IndexFile)
	root, err := locator.Resolve(path)
	if err != nil {
		return nil, err
	}
	logger.Info("building tree from %s", root.Document)

	builder := coverage.NewBuilder(
		document.NewFileLoader(),
		locator,
		coverage.NewExtractor(cfg.Layout, cfg.StrictNumbers),
	)
	tree, err := builder.Build(root.Document, root.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree for %s: %w", path, err)
	}
	logger.Debug("%s: %d files", path, len(tree.Files()))
	return tree, nil
}

// newReporter resolves the output format from the flag, falling back to config.
func newReporter(cfg *config.Config, flagFormat string) (report.Reporter, error) {
	name := flagFormat
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return report.New(format)
}
