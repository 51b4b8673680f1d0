package diff

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zjy-dev/covtree/internal/coverage"
)

// Trees computes the diff from before to after.
func Trees(before, after *coverage.Tree) *Result {
	var beforeRoot, afterRoot *coverage.Node
	if before != nil {
		beforeRoot = before.Root
	}
	if after != nil {
		afterRoot = after.Root
	}

	r := &Result{}
	if beforeRoot != nil && afterRoot != nil {
		r.Root = Statistics(beforeRoot.Statistics, afterRoot.Statistics)
	}
	r.Children = Children(childrenOf(beforeRoot), childrenOf(afterRoot))
	return r
}

func childrenOf(n *coverage.Node) []*coverage.Node {
	if n == nil {
		return nil
	}
	return n.Children
}

// Children reconciles two child collections by relative path. Output follows the
// row order of before, then the paths that only exist in after, in their row order.
func Children(before, after []*coverage.Node) []*Node {
	beforeByPath := make(map[string]*coverage.Node, len(before))
	afterByPath := make(map[string]*coverage.Node, len(after))
	var keys []string
	for _, n := range before {
		if _, ok := beforeByPath[n.Path.Relative]; !ok {
			keys = append(keys, n.Path.Relative)
			beforeByPath[n.Path.Relative] = n
		}
	}
	for _, n := range after {
		if _, ok := afterByPath[n.Path.Relative]; ok {
			continue
		}
		afterByPath[n.Path.Relative] = n
		if _, ok := beforeByPath[n.Path.Relative]; !ok {
			keys = append(keys, n.Path.Relative)
		}
	}

	var out []*Node
	for _, key := range keys {
		b, a := beforeByPath[key], afterByPath[key]
		switch {
		case a == nil:
			out = append(out, removed(b))
		case b == nil:
			out = append(out, added(a))
		case b.Kind != a.Kind:
			out = append(out, removed(b), added(a))
		default:
			if n := changed(b, a); n != nil {
				out = append(out, n)
			}
		}
	}
	return out
}

func removed(n *coverage.Node) *Node {
	return &Node{Change: ChangeRemoved, Kind: n.Kind, Path: n.Path.Relative}
}

// added reports n and, for directories, every descendant as added with
// deltas taken against an all-zero baseline.
func added(n *coverage.Node) *Node {
	out := &Node{
		Change: ChangeAdded,
		Kind:   n.Kind,
		Path:   n.Path.Relative,
		Delta:  fromZero(n.Statistics),
	}
	if n.Kind == coverage.KindDirectory {
		out.Children = Children(nil, n.Children)
	}
	return out
}

// changed compares two nodes of the same kind; nil means no difference.
func changed(b, a *coverage.Node) *Node {
	delta := Statistics(b.Statistics, a.Statistics)

	var children []*Node
	if a.Kind == coverage.KindDirectory {
		children = Children(b.Children, a.Children)
	}
	if delta == nil && len(children) == 0 {
		return nil
	}
	return &Node{
		Change:   ChangeChanged,
		Kind:     a.Kind,
		Path:     a.Path.Relative,
		Delta:    delta,
		Children: children,
	}
}

// Statistics returns the per-category delta from before to after, or nil when
// coverage, total and hit are all unchanged. Two NaN values count as equal.
func Statistics(before, after coverage.Statistics) Delta {
	delta := make(Delta, len(after))
	changed := false
	for _, c := range union(before, after) {
		if c.IsMandatory() && !sameValue(before[c], after[c]) {
			changed = true
		}
		delta[c] = subtract(after[c], before[c])
	}
	if !changed {
		return nil
	}
	return delta
}

// union lists the categories of after followed by those only present in before.
func union(before, after coverage.Statistics) []coverage.Category {
	out := after.Categories()
	for _, c := range before.Categories() {
		if _, ok := after[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func fromZero(s coverage.Statistics) Delta {
	return Delta(s.Clone())
}

// subtract returns a-b computed on the shortest decimal form of each operand,
// so textually equal report values diff to exactly zero and 85.7-85.6 is 0.1.
// Two unparsed (NaN) values diff to zero.
func subtract(a, b float64) float64 {
	if math.IsNaN(a) && math.IsNaN(b) {
		return 0
	}
	ra, okA := decimal(a)
	rb, okB := decimal(b)
	if !okA || !okB {
		return a - b
	}
	f, _ := new(big.Rat).Sub(ra, rb).Float64()
	return f
}

func decimal(v float64) (*big.Rat, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return new(big.Rat).SetString(strconv.FormatFloat(v, 'g', -1, 64))
}
