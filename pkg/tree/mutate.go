package tree

import "github.com/matzehuels/sidedock/pkg/errors"

func (t *Tree) alloc(n node) Handle {
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes) - 1)
}

// NewLeaf creates a detached, visible Leaf. Attach it with SetRootChild,
// NewNode or Split.
func (t *Tree) NewLeaf(content ContentID, preferred, minimum Size) Handle {
	return t.alloc(node{
		kind:      KindLeaf,
		parent:    Nil,
		left:      Nil,
		right:     Nil,
		content:   content,
		preferred: preferred,
		minimum:   minimum,
		visible:   true,
	})
}

// NewPlaceholder creates a detached Placeholder remembering content.
func (t *Tree) NewPlaceholder(content ContentID) Handle {
	return t.alloc(node{kind: KindPlaceholder, parent: Nil, left: Nil, right: Nil, content: content})
}

// NewNode creates a Node over two detached subtrees.
func (t *Tree) NewNode(o Orientation, ratio float64, left, right Handle) Handle {
	t.detached(left)
	t.detached(right)
	h := t.alloc(node{kind: KindNode, parent: Nil, left: left, right: right, orientation: o, ratio: clampRatio(ratio)})
	t.nodes[left].parent = h
	t.nodes[right].parent = h
	return h
}

func (t *Tree) detached(h Handle) {
	n := t.at(h)
	if n.kind == KindRoot || n.parent != Nil {
		panic(errors.New(errors.ErrCodeInvalidNode, "handle %d is already attached", h))
	}
}

// SetRootChild attaches a detached subtree as the Root's child, replacing
// (and freeing) any previous one.
func (t *Tree) SetRootChild(h Handle) {
	root := t.at(t.Root())
	if h != Nil {
		t.detached(h)
		t.nodes[h].parent = t.Root()
	}
	if root.left != Nil {
		t.free(root.left)
	}
	t.nodes[t.Root()].left = h
	t.version++
}

// SetVisible shows or hides a Leaf. Hidden leaves keep their position.
func (t *Tree) SetVisible(h Handle, visible bool) {
	n := t.expect(h, KindLeaf)
	if n.visible == visible {
		return
	}
	n.visible = visible
	t.version++
}

// Split replaces target with a new Node holding target and the detached
// subtree add. With before set, add becomes the left (or top) child.
// Splitting the Root means filling its empty slot, or splitting its child.
// The new Node's ratio is 0.5; the returned handle is the Node.
func (t *Tree) Split(target, add Handle, o Orientation, before bool) Handle {
	t.detached(add)
	if t.Kind(target) == KindRoot {
		if child := t.Child(target); child != Nil {
			target = child
		} else {
			t.SetRootChild(add)
			return add
		}
	}

	parent := t.Parent(target)
	t.nodes[target].parent = Nil
	var h Handle
	if before {
		h = t.NewNode(o, 0.5, add, target)
	} else {
		h = t.NewNode(o, 0.5, target, add)
	}
	t.replaceChild(parent, target, h)
	t.version++
	return h
}

// Remove takes a Leaf out of the tree. With keepPlaceholder the Leaf turns
// into a Placeholder in the same slot, so the content can reclaim the
// position; otherwise the Leaf's parent Node is replaced by the sibling.
func (t *Tree) Remove(h Handle, keepPlaceholder bool) {
	n := t.expect(h, KindLeaf)
	if keepPlaceholder {
		n.kind = KindPlaceholder
		n.visible = false
		t.version++
		return
	}

	parent := n.parent
	switch {
	case parent == Nil:
		t.free(h)
	case t.Kind(parent) == KindRoot:
		t.nodes[parent].left = Nil
		t.free(h)
	default:
		p := t.at(parent)
		sibling := p.left
		if sibling == h {
			sibling = p.right
		}
		grand := p.parent
		t.nodes[sibling].parent = Nil
		p.left, p.right = Nil, Nil
		t.replaceChild(grand, parent, sibling)
		t.free(parent)
		t.free(h)
	}
	t.version++
}

// Reclaim turns the Placeholder remembering content back into a visible
// Leaf. It returns Nil when there is no such placeholder.
func (t *Tree) Reclaim(content ContentID, preferred, minimum Size) Handle {
	h := t.PlaceholderOf(content)
	if h == Nil {
		return Nil
	}
	n := &t.nodes[h]
	n.kind = KindLeaf
	n.visible = true
	n.preferred, n.minimum = preferred, minimum
	t.version++
	return h
}

// Prune removes every Placeholder from the tree, collapsing the Nodes that
// held them.
func (t *Tree) Prune() int {
	var dead []Handle
	t.Walk(func(h Handle, _ int) bool {
		if t.nodes[h].kind == KindPlaceholder {
			dead = append(dead, h)
		}
		return true
	})
	for _, h := range dead {
		t.nodes[h].kind = KindLeaf
		t.Remove(h, false)
	}
	return len(dead)
}

func (t *Tree) replaceChild(parent, old, repl Handle) {
	if parent == Nil {
		return
	}
	p := t.at(parent)
	switch {
	case p.left == old:
		p.left = repl
	case p.right == old:
		p.right = repl
	default:
		panic(errors.New(errors.ErrCodeInvalidNode, "handle %d is not a child of %d", old, parent))
	}
	if repl != Nil {
		t.nodes[repl].parent = parent
	}
}

// free releases h and its subtree. Handles are not reused.
func (t *Tree) free(h Handle) {
	if h == Nil {
		return
	}
	n := &t.nodes[h]
	if n.kind == KindNode {
		t.free(n.left)
		t.free(n.right)
	}
	*n = node{kind: kindFree, parent: Nil, left: Nil, right: Nil}
}
