package station

import (
	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/observability"
	"github.com/matzehuels/sidedock/pkg/span"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Drop commits a placement: content is inserted next to req.Target as a new
// column (header placements) or a new cell (column placements). Content
// already in the tree is moved. The preview closes and the persistent
// sizes are remapped on the next query, so the new column starts at its
// preferred size while every other column keeps its own.
func (s *Station) Drop(req span.Request, content tree.ContentID, preferred, minimum tree.Size) (h tree.Handle, err error) {
	defer errors.Recover(&err)

	t := s.tree
	if !t.Valid(req.Target) {
		return tree.Nil, errors.New(errors.ErrCodeInvalidNode, "unknown drop target %d", req.Target)
	}
	if req.Target == t.Root() && t.Child(t.Root()) == tree.Nil {
		if old := t.PlaceholderOf(content); old != tree.Nil {
			t.Remove(t.Reclaim(content, preferred, minimum), false)
		}
		h = t.NewLeaf(content, preferred, minimum)
		t.SetRootChild(h)
		s.RequestLayout()
		return h, nil
	}
	if !t.Visible(req.Target) {
		return tree.Nil, errors.New(errors.ErrCodeInvalidInput, "drop target %d is hidden", req.Target)
	}
	anchor := req.Target
	if old := t.LeafOf(content); old != tree.Nil {
		if old == anchor {
			return tree.Nil, errors.New(errors.ErrCodeInvalidInput, "cannot drop content %d onto itself", content)
		}
		anchor = take(t, old, anchor)
	}
	if ph := t.PlaceholderOf(content); ph != tree.Nil {
		anchor = take(t, t.Reclaim(content, preferred, minimum), anchor)
	}

	// Resolve against the map without remapping: the moved content's old
	// sizes must still be on record when the drop is remapped.
	m := s.analyzer.Map()
	var target tree.Handle
	var o tree.Orientation
	var before bool
	if req.Side.Header() {
		col := m.ColumnOf(anchor)
		if col < 0 {
			return tree.Nil, errors.New(errors.ErrCodeNotFound, "drop target %d is not in a column", req.Target)
		}
		target = m.Column(col).Root
		o = s.opts.Side.HeaderAxis()
		before = req.Side.Before() != s.opts.Side.Reversed()
	} else {
		col, cell := m.CellOf(anchor)
		if col < 0 {
			return tree.Nil, errors.New(errors.ErrCodeNotFound, "drop target %d is not in a column", req.Target)
		}
		c := m.Column(col)
		switch {
		case cell >= 0:
			target = c.Cell(cell).Root
		case req.Side.Before():
			target = c.Cell(0).Root
		default:
			target = c.Cell(len(c.Cells) - 1).Root
		}
		o = s.opts.Side.ColumnAxis()
		before = req.Side.Before()
	}

	h = t.NewLeaf(content, preferred, minimum)
	t.Split(target, h, o, before)
	s.spans.Clear()
	s.RequestLayout()

	s.log.Debug("drop", "content", content, "target", req.Target, "placement", req.Side)
	observability.Station().OnDrop(s.opts.ID, int64(content), req.Side.String())
	return h, nil
}

// take removes leaf h from the tree. When anchor is the Node collapsed by
// the removal, the sibling taking its place is returned instead.
func take(t *tree.Tree, h, anchor tree.Handle) tree.Handle {
	p := t.Parent(h)
	if p == anchor && t.Kind(p) == tree.KindNode {
		anchor = t.Left(p)
		if anchor == h {
			anchor = t.Right(p)
		}
	}
	t.Remove(h, false)
	return anchor
}

// Remove takes content out of the station. With keepPlaceholder the slot
// stays in the tree so Restore can put the content back in place, and the
// content's persistent sizes are remembered.
func (s *Station) Remove(content tree.ContentID, keepPlaceholder bool) (err error) {
	defer errors.Recover(&err)

	h := s.tree.LeafOf(content)
	if h == tree.Nil {
		return errors.New(errors.ErrCodeNotFound, "content %d is not in the station", content)
	}
	s.tree.Remove(h, keepPlaceholder)
	s.RequestLayout()
	s.log.Debug("remove", "content", content, "placeholder", keepPlaceholder)
	return nil
}

// Restore puts content back into the slot it left with Remove.
func (s *Station) Restore(content tree.ContentID, preferred, minimum tree.Size) (err error) {
	defer errors.Recover(&err)

	if s.tree.Reclaim(content, preferred, minimum) == tree.Nil {
		return errors.New(errors.ErrCodeNotFound, "no placeholder for content %d", content)
	}
	s.RequestLayout()
	return nil
}

// SetVisible shows or hides content in place. Hidden content keeps its
// persistent sizes.
func (s *Station) SetVisible(content tree.ContentID, visible bool) (err error) {
	defer errors.Recover(&err)

	h := s.tree.LeafOf(content)
	if h == tree.Nil {
		return errors.New(errors.ErrCodeNotFound, "content %d is not in the station", content)
	}
	s.tree.SetVisible(h, visible)
	s.RequestLayout()
	return nil
}

// Prune drops every placeholder and forgets the sizes they remembered.
func (s *Station) Prune() int {
	n := s.tree.Prune()
	if n > 0 {
		s.RequestLayout()
	}
	return n
}
