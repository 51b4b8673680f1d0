// Package snapshot persists built report trees so they can be diffed later
// without the original HTML report.
//
// A snapshot is a zstd-compressed JSON envelope holding the tree and the
// BLAKE3 digest of the tree's JSON encoding.
package snapshot

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"

	"github.com/zjy-dev/covtree/internal/coverage"
)

// Ext is the file extension of snapshot files.
const Ext = ".covtree"

const formatVersion = 1

var (
	// ErrDigestMismatch is returned when a snapshot's content does not match its digest.
	ErrDigestMismatch = errors.New("snapshot digest mismatch")
	// ErrUnsupportedVersion is returned for snapshots written by an incompatible version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

type envelope struct {
	Version int             `json:"version"`
	Digest  string          `json:"digest"`
	Tree    json.RawMessage `json:"tree"`
}

// IsSnapshot reports whether path names a snapshot file.
func IsSnapshot(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// Digest returns the hex BLAKE3 digest of the tree's JSON encoding.
func Digest(t *coverage.Tree) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tree: %w", err)
	}
	return digest(data), nil
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ErrUnparsedValue is returned when encoding a tree built in lenient mode that
// still holds values which failed to parse.
var ErrUnparsedValue = errors.New("tree holds unparsed values")

// Encode writes t to w as a compressed snapshot.
func Encode(w io.Writer, t *coverage.Tree) error {
	if t != nil && t.Root != nil {
		var bad string
		coverage.Walk(t.Root, func(n *coverage.Node) bool {
			if bad == "" && n.Statistics.HasNaN() {
				bad = n.Path.Relative
			}
			return bad == ""
		})
		if bad != "" {
			return fmt.Errorf("%w: %s", ErrUnparsedValue, bad)
		}
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}
	env, err := json.Marshal(envelope{
		Version: formatVersion,
		Digest:  digest(data),
		Tree:    data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	encoder, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	if _, err := encoder.Write(env); err != nil {
		encoder.Close()
		return fmt.Errorf("compressing: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}
	return nil
}

// Decode reads a snapshot from r and verifies its digest.
func Decode(r io.Reader) (*coverage.Tree, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if env.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if digest(env.Tree) != env.Digest {
		return nil, ErrDigestMismatch
	}

	var t coverage.Tree
	if err := json.Unmarshal(env.Tree, &t); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot tree: %w", err)
	}
	if t.Root == nil {
		return nil, fmt.Errorf("snapshot has no root node")
	}
	return &t, nil
}

// Save writes t to path, creating parent directories as needed.
func Save(path string, t *coverage.Tree) error {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot at path.
func Load(path string) (*coverage.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
