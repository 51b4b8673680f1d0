// Package locate finds genhtml report documents on disk.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIndexName is the file genhtml writes for every directory page.
const DefaultIndexName = "index.html"

// ErrReportNotFound is returned when no report document exists at a location.
var ErrReportNotFound = errors.New("report document not found")

// Root is a resolved report: the document to parse and the directory all
// relative paths are expressed against.
type Root struct {
	Document string
	BaseDir  string
}

// Locator resolves report locations on the local filesystem.
type Locator struct {
	indexName string
}

// NewLocator creates a Locator. An empty indexName selects DefaultIndexName.
func NewLocator(indexName string) *Locator {
	if indexName == "" {
		indexName = DefaultIndexName
	}
	return &Locator{indexName: indexName}
}

// Resolve turns a user-supplied path into a Root. A file is used as-is; a
// directory is searched for the shallowest index document beneath it.
func (l *Locator) Resolve(path string) (Root, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Root{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Root{}, fmt.Errorf("%s: %w", path, ErrReportNotFound)
		}
		return Root{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return Root{Document: abs, BaseDir: filepath.Dir(abs)}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(abs), "**/"+l.indexName)
	if err != nil {
		return Root{}, fmt.Errorf("failed to search %s: %w", path, err)
	}
	if len(matches) == 0 {
		return Root{}, fmt.Errorf("no %s under %s: %w", l.indexName, path, ErrReportNotFound)
	}

	sort.Slice(matches, func(i, j int) bool {
		di, dj := strings.Count(matches[i], "/"), strings.Count(matches[j], "/")
		if di != dj {
			return di < dj
		}
		return matches[i] < matches[j]
	})

	doc := filepath.Join(abs, filepath.FromSlash(matches[0]))
	return Root{Document: doc, BaseDir: filepath.Dir(doc)}, nil
}

// LocateSubdirectoryReport returns the index document of dir.
func (l *Locator) LocateSubdirectoryReport(dir string) (string, error) {
	doc := filepath.Join(dir, l.indexName)
	info, err := os.Stat(doc)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", doc, ErrReportNotFound)
		}
		return "", fmt.Errorf("failed to stat %s: %w", doc, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", doc, ErrReportNotFound)
	}
	return doc, nil
}
