// Package coverage reconstructs genhtml line-coverage reports as typed trees.
package coverage

import (
	"math"
	"sort"
)

// Category names one statistic column of a report.
type Category string

// Mandatory categories. Any document with a summary carries all three.
const (
	CategoryCoverage Category = "Coverage"
	CategoryTotal    Category = "Total"
	CategoryHit      Category = "Hit"
)

// Optional differential-coverage categories, present only when the summary header declares them.
const (
	CategoryUncoveredNew              Category = "UNC"
	CategoryLostBaseline              Category = "LBC"
	CategoryUncoveredIncluded         Category = "UIC"
	CategoryUncoveredBaseline         Category = "UBC"
	CategoryGainedBaseline            Category = "GBC"
	CategoryGainedIncluded            Category = "GIC"
	CategoryGainedNew                 Category = "GNC"
	CategoryCoveredBaseline           Category = "CBC"
	CategoryExcludedUncoveredBaseline Category = "EUB"
	CategoryExcludedCoveredBaseline   Category = "ECB"
	CategoryDeletedUncoveredBaseline  Category = "DUB"
	CategoryDeletedCoveredBaseline    Category = "DCB"
)

// MandatoryCategories lists the categories every summary must carry.
var MandatoryCategories = []Category{CategoryCoverage, CategoryTotal, CategoryHit}

// OptionalCategories lists the known optional categories in genhtml column order.
var OptionalCategories = []Category{
	CategoryUncoveredNew,
	CategoryLostBaseline,
	CategoryUncoveredIncluded,
	CategoryUncoveredBaseline,
	CategoryGainedBaseline,
	CategoryGainedIncluded,
	CategoryGainedNew,
	CategoryCoveredBaseline,
	CategoryExcludedUncoveredBaseline,
	CategoryExcludedCoveredBaseline,
	CategoryDeletedUncoveredBaseline,
	CategoryDeletedCoveredBaseline,
}

// IsMandatory reports whether c is one of Coverage, Total or Hit; only these
// decide whether two statistics differ.
func (c Category) IsMandatory() bool {
	return c == CategoryCoverage || c == CategoryTotal || c == CategoryHit
}

// Statistics maps categories to their values. Coverage is a percentage (0-100),
// the other categories are line counts.
type Statistics map[Category]float64

// Coverage returns the coverage percentage.
func (s Statistics) Coverage() float64 { return s[CategoryCoverage] }

// Total returns the number of instrumented lines.
func (s Statistics) Total() float64 { return s[CategoryTotal] }

// Hit returns the number of covered lines.
func (s Statistics) Hit() float64 { return s[CategoryHit] }

// Categories returns the categories present in s: mandatory ones first,
// then known optional ones in column order, then unknown ones sorted by name.
func (s Statistics) Categories() []Category {
	out := make([]Category, 0, len(s))
	seen := make(map[Category]bool, len(s))
	for _, group := range [][]Category{MandatoryCategories, OptionalCategories} {
		for _, c := range group {
			if _, ok := s[c]; ok {
				out = append(out, c)
				seen[c] = true
			}
		}
	}

	var extra []Category
	for c := range s {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// HasNaN reports whether any value failed to parse in lenient mode.
func (s Statistics) HasNaN() bool {
	for _, v := range s {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of s.
func (s Statistics) Clone() Statistics {
	if s == nil {
		return nil
	}
	out := make(Statistics, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Kind tags the variant of a Node.
type Kind string

const (
	KindFile      Kind = "File"
	KindDirectory Kind = "Directory"
)

// FilePath locates a report entry both on disk and relative to the root report's base directory.
// Relative is always against the root base directory, never against the parent directory.
type FilePath struct {
	Absolute string `json:"absolute" yaml:"absolute"`
	Relative string `json:"relative" yaml:"relative"`
}

// Node is one entry of a report tree. Kind selects the variant:
// KindFile nodes never have children; KindDirectory nodes hold their entries in row order.
type Node struct {
	Kind       Kind       `json:"kind" yaml:"kind"`
	Path       FilePath   `json:"path" yaml:"path"`
	Statistics Statistics `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	Children   []*Node    `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsDir reports whether n is a directory node.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// Tree is a fully materialized report. Root is always a directory node.
type Tree struct {
	BaseDir string `json:"base_dir" yaml:"base_dir"`
	Root    *Node  `json:"root" yaml:"root"`
}

// Walk visits n and its descendants depth-first in row order.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// Files returns every file node of the tree in row order.
func (t *Tree) Files() []*Node {
	var files []*Node
	if t == nil {
		return files
	}
	Walk(t.Root, func(n *Node) bool {
		if n.Kind == KindFile {
			files = append(files, n)
		}
		return true
	})
	return files
}
