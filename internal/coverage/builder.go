package coverage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zjy-dev/covtree/internal/document"
	"github.com/zjy-dev/covtree/internal/logger"
)

// ErrNoSummary is returned when the root document has no parseable summary table.
var ErrNoSummary = errors.New("no coverage summary found")

// Loader opens a report document.
type Loader interface {
	Load(location string) (*document.Document, error)
}

// Locator finds the report document of a subdirectory.
// It must return an error when the directory has no report document.
type Locator interface {
	LocateSubdirectoryReport(dir string) (string, error)
}

// Builder materializes report trees by walking a root document and
// recursing into the documents of its subdirectories.
type Builder struct {
	loader    Loader
	locator   Locator
	extractor *Extractor
}

// NewBuilder creates a Builder.
func NewBuilder(loader Loader, locator Locator, extractor *Extractor) *Builder {
	return &Builder{
		loader:    loader,
		locator:   locator,
		extractor: extractor,
	}
}

// Build parses the report rooted at rootDocument. All relative paths are expressed
// against baseDir. It returns ErrNoSummary if the root document has no summary;
// any failure below the root aborts the whole build.
func (b *Builder) Build(rootDocument, baseDir string) (*Tree, error) {
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	doc, err := b.loader.Load(rootDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load root document: %w", err)
	}

	stats, err := b.extractor.Statistics(doc)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, fmt.Errorf("%s: %w", rootDocument, ErrNoSummary)
	}

	children, err := b.children(doc, baseDir, baseDir)
	if err != nil {
		return nil, err
	}

	return &Tree{
		BaseDir: baseDir,
		Root: &Node{
			Kind:       KindDirectory,
			Path:       FilePath{Absolute: baseDir, Relative: "."},
			Statistics: stats,
			Children:   children,
		},
	}, nil
}

// children builds the nodes listed by doc. currentDir is the directory the
// document describes; baseDir is the root base directory.
func (b *Builder) children(doc *document.Document, currentDir, baseDir string) ([]*Node, error) {
	entries, err := b.extractor.Entries(doc)
	if err != nil {
		return nil, err
	}
	logger.Debug("%s: %d entries", doc.Location(), len(entries))

	nodes := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		path, err := resolvePath(entry.Path, currentDir, baseDir)
		if err != nil {
			return nil, err
		}

		switch entry.Kind {
		case KindFile:
			nodes = append(nodes, &Node{
				Kind:       KindFile,
				Path:       path,
				Statistics: entry.Statistics,
			})
		case KindDirectory:
			node, err := b.directory(path, entry.Statistics, baseDir)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		default:
			return nil, fmt.Errorf("entry %s has unknown kind %q", entry.Path, entry.Kind)
		}
	}
	return nodes, nil
}

// directory builds a directory node. Its statistics come from the parent's row;
// the subdirectory document only contributes children.
func (b *Builder) directory(path FilePath, stats Statistics, baseDir string) (*Node, error) {
	node := &Node{
		Kind:       KindDirectory,
		Path:       path,
		Statistics: stats,
	}

	location, err := b.locator.LocateSubdirectoryReport(path.Absolute)
	if err != nil {
		return nil, fmt.Errorf("failed to locate report for %s: %w", path.Relative, err)
	}
	doc, err := b.loader.Load(location)
	if err != nil {
		return nil, fmt.Errorf("failed to load report for %s: %w", path.Relative, err)
	}

	summary, err := b.extractor.Statistics(doc)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		logger.Warn("%s: no coverage summary, skipping contents of %s", location, path.Relative)
		return node, nil
	}

	children, err := b.children(doc, path.Absolute, baseDir)
	if err != nil {
		return nil, err
	}
	node.Children = children
	return node, nil
}

// resolvePath makes name absolute against currentDir and relative against baseDir.
func resolvePath(name, currentDir, baseDir string) (FilePath, error) {
	abs := name
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(currentDir, name)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(baseDir, abs)
	if err != nil {
		return FilePath{}, fmt.Errorf("failed to relativize %s: %w", abs, err)
	}
	return FilePath{Absolute: abs, Relative: filepath.ToSlash(rel)}, nil
}
