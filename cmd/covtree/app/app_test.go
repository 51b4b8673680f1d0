package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/covtree/internal/coverage/coveragetest"
)

func writeReport(t *testing.T, aHit string, extra ...coveragetest.Row) string {
	t.Helper()

	rows := []coveragetest.Row{
		{Name: "a.c", Coverage: aHit + "0.0 %", Tier: "coverPerMed", Numbers: []string{"10", aHit}},
		{Name: "b.c", Coverage: "50.0 %", Tier: "coverPerMed", Numbers: []string{"4", "2"}},
	}
	rows = append(rows, extra...)

	site := coveragetest.Site{
		"index.html": {
			Kind:    "Directory",
			Header:  coveragetest.Header,
			Summary: []string{"50.0 %", "14", "7"},
			Rows: []coveragetest.Row{
				{Name: "src", Coverage: "50.0 %", Numbers: []string{"14", "7"}},
			},
		},
		"src/index.html": {
			Kind:    "Filename",
			Header:  coveragetest.Header,
			Summary: []string{"50.0 %", "14", "7"},
			Rows:    rows,
		},
	}

	dir := filepath.Join(t.TempDir(), "html")
	require.NoError(t, site.Write(dir))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCovtreeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

type diffOutput struct {
	Summary struct {
		Files struct{ Added, Removed, Changed int }
	}
	Root     map[string]float64
	Children []struct {
		Change   string
		Kind     string
		Path     string
		Delta    map[string]float64
		Children []struct {
			Change string
			Kind   string
			Path   string
			Delta  map[string]float64
		}
	}
}

func TestDiffCommand(t *testing.T) {
	before := writeReport(t, "5")
	after := writeReport(t, "7", coveragetest.Row{Name: "c.c", Coverage: "100.0 %", Numbers: []string{"3", "3"}})

	out, err := run(t, "diff", before, after, "--format", "json")
	require.NoError(t, err)

	var got diffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	// Summary and directory rows are identical in both fixtures.
	assert.Nil(t, got.Root)
	require.Len(t, got.Children, 1)

	src := got.Children[0]
	assert.Equal(t, "changed", src.Change)
	assert.Equal(t, "Directory", src.Kind)
	assert.Equal(t, "src", src.Path)
	assert.Nil(t, src.Delta)

	require.Len(t, src.Children, 2)
	assert.Equal(t, "changed", src.Children[0].Change)
	assert.Equal(t, "src/a.c", src.Children[0].Path)
	assert.Equal(t, 2.0, src.Children[0].Delta["Hit"])
	assert.Equal(t, 20.0, src.Children[0].Delta["Coverage"])

	assert.Equal(t, "added", src.Children[1].Change)
	assert.Equal(t, "src/c.c", src.Children[1].Path)
	assert.Equal(t, 3.0, src.Children[1].Delta["Total"])

	assert.Equal(t, 1, got.Summary.Files.Added)
	assert.Equal(t, 1, got.Summary.Files.Changed)
}

func TestDiffCommand_FailOnChange(t *testing.T) {
	before := writeReport(t, "5")
	after := writeReport(t, "7")

	_, err := run(t, "diff", before, after, "--fail-on-change")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))

	_, err = run(t, "diff", before, before, "--fail-on-change")
	assert.NoError(t, err)
}

func TestDiffCommand_Filters(t *testing.T) {
	before := writeReport(t, "5")
	after := writeReport(t, "7")

	out, err := run(t, "diff", before, after, "--format", "json", "--exclude", "**/a.c")
	require.NoError(t, err)

	var got diffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.Children)

	_, err = run(t, "diff", before, after, "--include", "src/[a-")
	assert.ErrorContains(t, err, "invalid pattern")
}

func TestSnapshotThenDiff(t *testing.T) {
	report := writeReport(t, "5")
	snap := filepath.Join(t.TempDir(), "base.covtree")

	_, err := run(t, "snapshot", report, "-o", snap)
	require.NoError(t, err)

	out, err := run(t, "diff", snap, filepath.Join(report, "index.html"), "--format", "json")
	require.NoError(t, err)

	var got diffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.Children)
	assert.Nil(t, got.Root)

	_, err = run(t, "snapshot", report, "-o", filepath.Join(t.TempDir(), "base.json"))
	assert.ErrorContains(t, err, ".covtree")
}

func TestTreeCommand(t *testing.T) {
	report := writeReport(t, "5")

	out, err := run(t, "tree", report, "--format", "json")
	require.NoError(t, err)

	var got struct {
		BaseDir string `json:"base_dir"`
		Root    struct {
			Kind     string
			Children []struct {
				Path     struct{ Relative string }
				Children []struct {
					Path       struct{ Relative string }
					Statistics map[string]float64
				}
			}
		}
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, report, got.BaseDir)
	assert.Equal(t, "Directory", got.Root.Kind)
	require.Len(t, got.Root.Children, 1)
	assert.Equal(t, "src", got.Root.Children[0].Path.Relative)
	require.Len(t, got.Root.Children[0].Children, 2)
	assert.Equal(t, "src/b.c", got.Root.Children[0].Children[1].Path.Relative)
	assert.Equal(t, 4.0, got.Root.Children[0].Children[1].Statistics["Total"])
}

func TestMissingReport(t *testing.T) {
	_, err := run(t, "tree", filepath.Join(t.TempDir(), "nothing"))
	assert.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestOutputFlag(t *testing.T) {
	before := writeReport(t, "5")
	after := writeReport(t, "7")
	dir := t.TempDir()

	diffPath := filepath.Join(dir, "out", "diff.json")
	out, err := run(t, "diff", before, after, "--format", "json", "-o", diffPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(diffPath)
	require.NoError(t, err)
	var got diffOutput
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got.Summary.Files.Changed)

	treePath := filepath.Join(dir, "tree.yaml")
	out, err = run(t, "tree", before, "-o", treePath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err = os.ReadFile(treePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "relative: src/a.c")
}

func TestLogDirFromConfig(t *testing.T) {
	report := writeReport(t, "5")
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")

	configPath := filepath.Join(dir, "covtree.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("covtree:\n  log_dir: "+logDir+"\n"), 0644))

	_, err := run(t, "tree", report, "--config", configPath)
	require.NoError(t, err)

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "covtree_"))
}
