package coverage

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter selects tree entries by glob patterns over their relative paths.
// An empty include list matches everything; exclude always wins.
type Filter struct {
	Include []string
	Exclude []string
}

// Validate checks that every pattern is well formed.
func (f Filter) Validate() error {
	for _, group := range [][]string{f.Include, f.Exclude} {
		for _, pattern := range group {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid pattern %q", pattern)
			}
		}
	}
	return nil
}

// IsZero reports whether the filter keeps everything.
func (f Filter) IsZero() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

func (f Filter) excluded(path string) bool {
	return matchAny(f.Exclude, path)
}

func (f Filter) included(path string) bool {
	return len(f.Include) == 0 || matchAny(f.Include, path)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Prune returns a copy of t holding only the entries selected by f. A directory
// survives when it keeps at least one child or is itself included. The root is
// always kept and its statistics are left untouched.
func Prune(t *Tree, f Filter) *Tree {
	if t == nil || t.Root == nil || f.IsZero() {
		return t
	}

	root := *t.Root
	root.Children = pruneChildren(t.Root.Children, f)
	return &Tree{BaseDir: t.BaseDir, Root: &root}
}

func pruneChildren(nodes []*Node, f Filter) []*Node {
	var kept []*Node
	for _, n := range nodes {
		if f.excluded(n.Path.Relative) {
			continue
		}

		switch n.Kind {
		case KindFile:
			if f.included(n.Path.Relative) {
				kept = append(kept, n)
			}
		case KindDirectory:
			children := pruneChildren(n.Children, f)
			if len(children) == 0 && !f.included(n.Path.Relative) {
				continue
			}
			dir := *n
			dir.Children = children
			kept = append(kept, &dir)
		}
	}
	return kept
}
