// Package diff computes structural differences between two coverage report trees.
package diff

import "github.com/zjy-dev/covtree/internal/coverage"

// Change classifies a differing path.
type Change string

const (
	ChangeAdded   Change = "added"
	ChangeRemoved Change = "removed"
	ChangeChanged Change = "changed"
)

// Delta holds after-minus-before values per category.
type Delta map[coverage.Category]float64

// Node reports one path that differs between the two trees.
// Removed nodes carry neither a delta nor children.
type Node struct {
	Change   Change        `json:"change" yaml:"change"`
	Kind     coverage.Kind `json:"kind" yaml:"kind"`
	Path     string        `json:"path" yaml:"path"`
	Delta    Delta         `json:"delta,omitempty" yaml:"delta,omitempty"`
	Children []*Node       `json:"children,omitempty" yaml:"children,omitempty"`
}

// Result is the diff of two trees: the root statistics delta, if any, and
// the differing entries below the root.
type Result struct {
	Root     Delta   `json:"root,omitempty" yaml:"root,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Empty reports whether the two trees were identical.
func (r *Result) Empty() bool {
	return r == nil || (len(r.Root) == 0 && len(r.Children) == 0)
}

// Counts tallies differing nodes of one kind.
type Counts struct {
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
	Changed int `json:"changed" yaml:"changed"`
}

// Summary aggregates a Result over all nesting levels.
type Summary struct {
	Files       Counts `json:"files" yaml:"files"`
	Directories Counts `json:"directories" yaml:"directories"`
}

// Summary counts every node of the result by change and kind.
func (r *Result) Summary() Summary {
	var s Summary
	if r == nil {
		return s
	}
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			counts := &s.Files
			if n.Kind == coverage.KindDirectory {
				counts = &s.Directories
			}
			switch n.Change {
			case ChangeAdded:
				counts.Added++
			case ChangeRemoved:
				counts.Removed++
			case ChangeChanged:
				counts.Changed++
			}
			visit(n.Children)
		}
	}
	visit(r.Children)
	return s
}
