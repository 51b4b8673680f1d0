package snapshot

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/covtree/internal/coverage"
)

func sampleTree() *coverage.Tree {
	return &coverage.Tree{
		BaseDir: "/report",
		Root: &coverage.Node{
			Kind:       coverage.KindDirectory,
			Path:       coverage.FilePath{Absolute: "/report", Relative: "."},
			Statistics: coverage.Statistics{coverage.CategoryCoverage: 85.7, coverage.CategoryTotal: 14, coverage.CategoryHit: 12},
			Children: []*coverage.Node{
				{
					Kind:       coverage.KindDirectory,
					Path:       coverage.FilePath{Absolute: "/report/src", Relative: "src"},
					Statistics: coverage.Statistics{coverage.CategoryCoverage: 85.7, coverage.CategoryTotal: 14, coverage.CategoryHit: 12, coverage.CategoryGainedNew: 2},
					Children: []*coverage.Node{
						{
							Kind:       coverage.KindFile,
							Path:       coverage.FilePath{Absolute: "/report/src/a.c", Relative: "src/a.c"},
							Statistics: coverage.Statistics{coverage.CategoryCoverage: 85.7, coverage.CategoryTotal: 14, coverage.CategoryHit: 12},
						},
					},
				},
			},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "base.covtree")
	require.NoError(t, Save(path, sampleTree()))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleTree(), got)
}

func TestDigestIsStable(t *testing.T) {
	d1, err := Digest(sampleTree())
	require.NoError(t, err)
	d2, err := Digest(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)

	changed := sampleTree()
	changed.Root.Children[0].Children[0].Statistics[coverage.CategoryHit] = 13
	d3, err := Digest(changed)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func TestDecode_DigestMismatch(t *testing.T) {
	treeJSON, err := json.Marshal(sampleTree())
	require.NoError(t, err)

	env, err := json.Marshal(envelope{Version: formatVersion, Digest: "00", Tree: treeJSON})
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(compress(t, env)))
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	treeJSON, err := json.Marshal(sampleTree())
	require.NoError(t, err)

	env, err := json.Marshal(envelope{Version: 99, Digest: digest(treeJSON), Tree: treeJSON})
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(compress(t, env)))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_NotASnapshot(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("<html></html>")))
	assert.Error(t, err)
}

func TestEncode_RejectsNaN(t *testing.T) {
	tree := sampleTree()
	tree.Root.Children[0].Children[0].Statistics[coverage.CategoryHit] = math.NaN()

	var buf bytes.Buffer
	err := Encode(&buf, tree)
	assert.ErrorIs(t, err, ErrUnparsedValue)
	assert.ErrorContains(t, err, "src/a.c")
	assert.Zero(t, buf.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.covtree"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsSnapshot(t *testing.T) {
	assert.True(t, IsSnapshot("base.covtree"))
	assert.True(t, IsSnapshot("/tmp/BASE.COVTREE"))
	assert.False(t, IsSnapshot("report/index.html"))
	assert.False(t, IsSnapshot("report"))
}
