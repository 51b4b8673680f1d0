// Package report serializes coverage trees and diffs for external consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjy-dev/covtree/internal/coverage"
	"github.com/zjy-dev/covtree/internal/diff"
)

// Format selects the output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// Reporter writes diffs and trees in one encoding.
type Reporter interface {
	// Diff writes a diff result together with its summary.
	Diff(w io.Writer, r *diff.Result) error

	// Tree writes a fully materialized report tree.
	Tree(w io.Writer, t *coverage.Tree) error
}

// New returns the reporter for format.
func New(format Format) (Reporter, error) {
	switch format {
	case FormatYAML:
		return &YAMLReporter{}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// diffDocument is the serialized shape of a diff.
type diffDocument struct {
	Summary  diff.Summary `json:"summary" yaml:"summary"`
	Root     diff.Delta   `json:"root,omitempty" yaml:"root,omitempty"`
	Children []*diff.Node `json:"children,omitempty" yaml:"children,omitempty"`
}

func newDiffDocument(r *diff.Result) diffDocument {
	if r == nil {
		return diffDocument{}
	}
	return diffDocument{
		Summary:  r.Summary(),
		Root:     r.Root,
		Children: r.Children,
	}
}

// YAMLReporter writes YAML documents.
type YAMLReporter struct{}

// Diff implements Reporter.
func (y *YAMLReporter) Diff(w io.Writer, r *diff.Result) error {
	return y.encode(w, newDiffDocument(r))
}

// Tree implements Reporter.
func (y *YAMLReporter) Tree(w io.Writer, t *coverage.Tree) error {
	return y.encode(w, t)
}

func (y *YAMLReporter) encode(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// JSONReporter writes indented JSON documents.
type JSONReporter struct{}

// Diff implements Reporter.
func (j *JSONReporter) Diff(w io.Writer, r *diff.Result) error {
	return j.encode(w, newDiffDocument(r))
}

// Tree implements Reporter.
func (j *JSONReporter) Tree(w io.Writer, t *coverage.Tree) error {
	return j.encode(w, t)
}

func (j *JSONReporter) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// SaveDiff writes r to path, creating parent directories as needed.
func SaveDiff(reporter Reporter, path string, r *diff.Result) error {
	return save(path, func(w io.Writer) error { return reporter.Diff(w, r) })
}

// SaveTree writes t to path, creating parent directories as needed.
func SaveTree(reporter Reporter, path string, t *coverage.Tree) error {
	return save(path, func(w io.Writer) error { return reporter.Tree(w, t) })
}

func save(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
