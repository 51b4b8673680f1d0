package locate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0644))
}

func TestResolve_File(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "report", "index.html")
	writeFile(t, doc)

	root, err := NewLocator("").Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, root.Document)
	assert.Equal(t, filepath.Join(dir, "report"), root.BaseDir)
}

func TestResolve_DirectoryPicksShallowestIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "out", "html", "src", "index.html"))
	writeFile(t, filepath.Join(dir, "out", "html", "index.html"))
	writeFile(t, filepath.Join(dir, "out", "html", "lib", "deep", "index.html"))

	root, err := NewLocator("").Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "html", "index.html"), root.Document)
	assert.Equal(t, filepath.Join(dir, "out", "html"), root.BaseDir)
}

func TestResolve_CustomIndexName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"))
	writeFile(t, filepath.Join(dir, "sub", "index-sort-l.html"))

	root, err := NewLocator("index-sort-l.html").Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "index-sort-l.html"), root.Document)
}

func TestResolve_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLocator("").Resolve(dir)
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = NewLocator("").Resolve(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestLocateSubdirectoryReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "index.html"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0755))

	l := NewLocator("")

	doc, err := l.LocateSubdirectoryReport(filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src", "index.html"), doc)

	_, err = l.LocateSubdirectoryReport(filepath.Join(dir, "empty"))
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = l.LocateSubdirectoryReport(filepath.Join(dir, "nope"))
	assert.ErrorIs(t, err, ErrReportNotFound)
}
