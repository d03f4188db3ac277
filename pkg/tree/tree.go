package tree

import (
	"math"

	"github.com/matzehuels/sidedock/pkg/errors"
)

// Handle addresses a node in a Tree's arena. Handles stay valid until the
// node is removed; they are never reused.
type Handle int32

// Nil is the absent handle.
const Nil Handle = -1

// ContentID is the stable identity of a piece of content, assigned by the
// host. Persistent sizes are keyed by it, never by tree position.
type ContentID int64

// Kind distinguishes the four node variants of the partition tree.
type Kind uint8

const (
	// KindRoot is the single top node; it has one child slot.
	KindRoot Kind = iota
	// KindNode splits its area between two children.
	KindNode
	// KindLeaf holds one piece of content.
	KindLeaf
	// KindPlaceholder is a dead slot remembering which content used to live
	// there, so that content can reclaim the position later.
	KindPlaceholder

	kindFree
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindNode:
		return "node"
	case KindLeaf:
		return "leaf"
	case KindPlaceholder:
		return "placeholder"
	}
	return "free"
}

type node struct {
	kind   Kind
	parent Handle

	// Root uses left as its only child slot.
	left, right Handle
	orientation Orientation
	ratio       float64

	content   ContentID
	preferred Size
	minimum   Size
	visible   bool

	bounds Rect
}

// Tree is a binary spatial partition tree stored as an arena. Parent links
// are handles, so there are no pointer cycles.
//
// Every structural mutation (insert, remove, visibility change) increments
// Version. Derived structures such as the column map are memoized on it.
//
// The zero value is not usable; use New. Tree is not safe for concurrent use.
type Tree struct {
	nodes   []node
	version uint64
}

// New creates a tree holding an empty Root.
func New() *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, node{kind: KindRoot, parent: Nil, left: Nil, right: Nil})
	return t
}

// Version returns the structural version counter.
func (t *Tree) Version() uint64 { return t.version }

// Len returns the number of live nodes, Root included.
func (t *Tree) Len() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].kind != kindFree {
			n++
		}
	}
	return n
}

// Root returns the Root handle.
func (t *Tree) Root() Handle { return 0 }

func (t *Tree) at(h Handle) *node {
	if h < 0 || int(h) >= len(t.nodes) || t.nodes[h].kind == kindFree {
		panic(errors.New(errors.ErrCodeInvalidNode, "unknown handle %d", h))
	}
	return &t.nodes[h]
}

func (t *Tree) expect(h Handle, kinds ...Kind) *node {
	n := t.at(h)
	for _, k := range kinds {
		if n.kind == k {
			return n
		}
	}
	panic(errors.New(errors.ErrCodeInvalidNode, "handle %d is a %s, want %v", h, n.kind, kinds))
}

// Valid reports whether h addresses a live node.
func (t *Tree) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(t.nodes) && t.nodes[h].kind != kindFree
}

// Kind returns the kind of h.
func (t *Tree) Kind(h Handle) Kind { return t.at(h).kind }

// Parent returns the parent of h, or Nil for the Root.
func (t *Tree) Parent(h Handle) Handle { return t.at(h).parent }

// Child returns the Root's child (possibly Nil).
func (t *Tree) Child(h Handle) Handle { return t.expect(h, KindRoot).left }

// Left returns the first child of a Node.
func (t *Tree) Left(h Handle) Handle { return t.expect(h, KindNode).left }

// Right returns the second child of a Node.
func (t *Tree) Right(h Handle) Handle { return t.expect(h, KindNode).right }

// Children returns the child slots of h in order: one for the Root, two for
// a Node, none for leaves and placeholders. Nil slots are omitted.
func (t *Tree) Children(h Handle) []Handle {
	n := t.at(h)
	var out []Handle
	switch n.kind {
	case KindRoot:
		if n.left != Nil {
			out = append(out, n.left)
		}
	case KindNode:
		if n.left != Nil {
			out = append(out, n.left)
		}
		if n.right != Nil {
			out = append(out, n.right)
		}
	}
	return out
}

// Orientation returns the split orientation of a Node.
func (t *Tree) Orientation(h Handle) Orientation { return t.expect(h, KindNode).orientation }

// Ratio returns the divider ratio of a Node, in [0,1].
func (t *Tree) Ratio(h Handle) float64 { return t.expect(h, KindNode).ratio }

// Content returns the content identity of a Leaf or Placeholder.
func (t *Tree) Content(h Handle) ContentID {
	return t.expect(h, KindLeaf, KindPlaceholder).content
}

// Preferred returns the preferred size of a Leaf's content.
func (t *Tree) Preferred(h Handle) Size { return t.expect(h, KindLeaf).preferred }

// Minimum returns the minimum size of a Leaf's content.
func (t *Tree) Minimum(h Handle) Size { return t.expect(h, KindLeaf).minimum }

// Bounds returns the bounds assigned by the last layout pass.
func (t *Tree) Bounds(h Handle) Rect { return t.at(h).bounds }

// Visible reports whether h shows anything: a visible Leaf, or a Root/Node
// with at least one visible descendant. Placeholders are never visible.
func (t *Tree) Visible(h Handle) bool {
	if h == Nil {
		return false
	}
	n := t.at(h)
	switch n.kind {
	case KindRoot:
		return t.Visible(n.left)
	case KindNode:
		return t.Visible(n.left) || t.Visible(n.right)
	case KindLeaf:
		return n.visible
	}
	return false
}

// BothVisible reports whether h is a Node whose two children are visible.
func (t *Tree) BothVisible(h Handle) bool {
	n := t.at(h)
	return n.kind == KindNode && t.Visible(n.left) && t.Visible(n.right)
}

// LeafOf returns the Leaf holding content, or Nil.
func (t *Tree) LeafOf(content ContentID) Handle {
	for i := range t.nodes {
		if t.nodes[i].kind == KindLeaf && t.nodes[i].content == content {
			return Handle(i)
		}
	}
	return Nil
}

// PlaceholderOf returns the Placeholder remembering content, or Nil.
func (t *Tree) PlaceholderOf(content ContentID) Handle {
	for i := range t.nodes {
		if t.nodes[i].kind == KindPlaceholder && t.nodes[i].content == content {
			return Handle(i)
		}
	}
	return Nil
}

// Leaves returns every Leaf reachable from the Root, visible or not, in
// left-to-right order.
func (t *Tree) Leaves() []Handle {
	var out []Handle
	t.Walk(func(h Handle, _ int) bool {
		if t.nodes[h].kind == KindLeaf {
			out = append(out, h)
		}
		return true
	})
	return out
}

// Walk visits every node reachable from the Root in pre-order, left child
// first. Returning false from fn skips the children of that node.
func (t *Tree) Walk(fn func(h Handle, depth int) bool) {
	t.walk(t.Root(), 0, fn)
}

// WalkFrom is Walk restricted to the subtree rooted at h; depth is relative
// to h.
func (t *Tree) WalkFrom(h Handle, fn func(h Handle, depth int) bool) {
	t.walk(h, 0, fn)
}

func (t *Tree) walk(h Handle, depth int, fn func(Handle, int) bool) {
	if h == Nil {
		return
	}
	if !fn(h, depth) {
		return
	}
	for _, c := range t.Children(h) {
		t.walk(c, depth+1, fn)
	}
}

// SetRatio sets a Node's divider ratio, clamped to [0,1]. It is not a
// structural change and does not bump the version.
func (t *Tree) SetRatio(h Handle, ratio float64) {
	t.expect(h, KindNode).ratio = clampRatio(ratio)
}

// SetBounds records the bounds of h. Used by the layout engine.
func (t *Tree) SetBounds(h Handle, r Rect) { t.at(h).bounds = r }

// SetPreferred updates the preferred and minimum size of a Leaf's content.
// Sizes feed the column map, so the version is bumped.
func (t *Tree) SetPreferred(h Handle, preferred, minimum Size) {
	n := t.expect(h, KindLeaf)
	n.preferred, n.minimum = preferred, minimum
	t.version++
}

func clampRatio(r float64) float64 {
	if math.IsNaN(r) {
		return 0.5
	}
	return math.Max(0, math.Min(1, r))
}
