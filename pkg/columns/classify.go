package columns

import (
	"bytes"

	"github.com/matzehuels/sidedock/pkg/tree"
)

// HeaderLevel reports whether h sits in the header region of the tree: the
// part above the columns, where splits run along the header axis.
//
// The Root is header-level. Any other node is header-level when its parent
// is header-level and passes the header through: the parent is the Root, a
// Node oriented along the header axis, or a Node with an invisible child.
// The last rule lets a column survive its sibling being hidden: the parent
// of a lone visible child is skipped as if it were not there.
func HeaderLevel(t *tree.Tree, side tree.Side, h tree.Handle) bool {
	if t.Kind(h) == tree.KindRoot {
		return true
	}
	p := t.Parent(h)
	if p == tree.Nil {
		return false
	}
	return passesHeader(t, side, p) && HeaderLevel(t, side, p)
}

func passesHeader(t *tree.Tree, side tree.Side, p tree.Handle) bool {
	switch t.Kind(p) {
	case tree.KindRoot:
		return true
	case tree.KindNode:
		return !t.BothVisible(p) || t.Orientation(p) == side.HeaderAxis()
	}
	return false
}

// IsColumnRoot reports whether h is the root of a column: a header-level
// Node split along the column axis with both children visible, or a
// header-level visible Leaf forming a single-cell column.
func IsColumnRoot(t *tree.Tree, side tree.Side, h tree.Handle) bool {
	if !HeaderLevel(t, side, h) {
		return false
	}
	switch t.Kind(h) {
	case tree.KindLeaf:
		return t.Visible(h)
	case tree.KindNode:
		return t.BothVisible(h) && t.Orientation(h) == side.ColumnAxis()
	}
	return false
}

// IsHeaderDivider reports whether h is a Node in the header region whose
// divider separates columns.
func IsHeaderDivider(t *tree.Tree, side tree.Side, h tree.Handle) bool {
	return t.Kind(h) == tree.KindNode &&
		t.BothVisible(h) &&
		t.Orientation(h) == side.HeaderAxis() &&
		HeaderLevel(t, side, h)
}

// Score returns the ordering key of h: one byte per ancestor edge from the
// Root down to h, 1 when the edge descends through the "second" child and
// 0 otherwise. In the header region the second child is the one farther
// from the fixed edge, which depends on the side; below header level it is
// always the right (bottom) child.
//
// Keys of disjoint subtrees compare lexicographically in head-to-tail
// order, whatever the imbalance of the tree.
func Score(t *tree.Tree, side tree.Side, h tree.Handle) []byte {
	var rev []byte
	for cur := h; ; {
		p := t.Parent(cur)
		if p == tree.Nil || t.Kind(p) == tree.KindRoot {
			break
		}
		second := t.Right(p) == cur
		if side.Reversed() && headerEdges(t, side, p) {
			second = !second
		}
		if second {
			rev = append(rev, 1)
		} else {
			rev = append(rev, 0)
		}
		cur = p
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// before reports whether score a orders before score b.
func before(a, b []byte) bool { return bytes.Compare(a, b) < 0 }

// headerEdges reports whether the edges from h to its children belong to
// the header region.
func headerEdges(t *tree.Tree, side tree.Side, h tree.Handle) bool {
	return passesHeader(t, side, h) && HeaderLevel(t, side, h)
}

// First returns the child of Node h nearer the fixed edge (header region)
// or the leading child (below header level).
func First(t *tree.Tree, side tree.Side, h tree.Handle) tree.Handle {
	if side.Reversed() && headerEdges(t, side, h) {
		return t.Right(h)
	}
	return t.Left(h)
}

// Second returns the other child of Node h.
func Second(t *tree.Tree, side tree.Side, h tree.Handle) tree.Handle {
	if side.Reversed() && headerEdges(t, side, h) {
		return t.Left(h)
	}
	return t.Right(h)
}

// SizeOf computes the preferred and minimum size of the visible content
// below h, with gap pixels between every pair of visible siblings.
func SizeOf(t *tree.Tree, h tree.Handle, gap int) (pref, minimum tree.Size) {
	if h == tree.Nil || !t.Visible(h) {
		return tree.Size{}, tree.Size{}
	}
	switch t.Kind(h) {
	case tree.KindLeaf:
		return t.Preferred(h), t.Minimum(h)
	case tree.KindRoot:
		return SizeOf(t, t.Child(h), gap)
	case tree.KindNode:
		if !t.BothVisible(h) {
			if t.Visible(t.Left(h)) {
				return SizeOf(t, t.Left(h), gap)
			}
			return SizeOf(t, t.Right(h), gap)
		}
		o := t.Orientation(h)
		lp, lm := SizeOf(t, t.Left(h), gap)
		rp, rm := SizeOf(t, t.Right(h), gap)
		return combine(o, lp, rp, gap), combine(o, lm, rm, gap)
	}
	return tree.Size{}, tree.Size{}
}

func combine(o tree.Orientation, a, b tree.Size, gap int) tree.Size {
	return tree.SizeOf(o, a.Along(o)+b.Along(o)+gap, max(a.Across(o), b.Across(o)))
}

// countGaps returns the number of dividers (Nodes with two visible
// children) below and including h.
func countGaps(t *tree.Tree, h tree.Handle) int {
	n := 0
	t.WalkFrom(h, func(c tree.Handle, _ int) bool {
		if !t.Visible(c) {
			return false
		}
		if t.Kind(c) == tree.KindNode && t.BothVisible(c) {
			n++
		}
		return true
	})
	return n
}
