package bounds

import (
	"fmt"
	"math"

	"github.com/matzehuels/sidedock/pkg/tree"
)

// Kind distinguishes the divider variants.
type Kind uint8

const (
	// Internal is the divider of a Node with two visible children.
	Internal Kind = iota
	// TrailingCell is the divider after the last cell of a column.
	TrailingCell
	// TrailingColumn is the divider past the outermost column.
	TrailingColumn
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case TrailingCell:
		return "trailing-cell"
	case TrailingColumn:
		return "trailing-column"
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Divider identifies something the user can drag. Node is set for Internal
// dividers, Column for TrailingCell ones; the other field is Nil or -1.
type Divider struct {
	Kind   Kind
	Node   tree.Handle
	Column int
}

// NodeDivider returns the divider of Node h.
func NodeDivider(h tree.Handle) Divider {
	return Divider{Kind: Internal, Node: h, Column: -1}
}

// CellEnd returns the trailing divider of column col.
func CellEnd(col int) Divider {
	return Divider{Kind: TrailingCell, Node: tree.Nil, Column: col}
}

// ColumnEnd returns the trailing divider past the outermost column.
func ColumnEnd() Divider {
	return Divider{Kind: TrailingColumn, Node: tree.Nil, Column: -1}
}

func (d Divider) String() string {
	switch d.Kind {
	case Internal:
		return fmt.Sprintf("node %d", d.Node)
	case TrailingCell:
		return fmt.Sprintf("end of column %d", d.Column)
	}
	return d.Kind.String()
}

// Policy bounds the ratio of a trailing cell divider. minimum is the ratio
// at which the trailing cell reaches its minimum size.
type Policy func(ratio, minimum float64) float64

// Unconstrained lets the trailing cell divider go anywhere.
func Unconstrained(ratio, _ float64) float64 { return ratio }

// KeepMinimum stops the trailing cell divider at the cell's minimum size.
func KeepMinimum(ratio, minimum float64) float64 { return math.Max(ratio, minimum) }

// Orientation returns the orientation of the split d controls: the Node's
// orientation, the column axis for a trailing cell divider or the header
// axis for the trailing column divider.
func (e *Engine) Orientation(f Frame, d Divider) tree.Orientation {
	switch d.Kind {
	case TrailingCell:
		return e.Side.ColumnAxis()
	case TrailingColumn:
		return e.Side.HeaderAxis()
	}
	return f.Map.Tree.Orientation(d.Node)
}

// RatioAt maps a pointer position to the ratio of d. The result is not
// validated.
func (e *Engine) RatioAt(f Frame, d Divider, p tree.Point) float64 {
	o := e.Orientation(f, d)
	base, ext, dir := e.axis(f, d)
	if ext <= 0 {
		return 0
	}
	return float64(dir*(p.Along(o)-base)) / float64(ext)
}

// PositionAt maps a ratio of d back to a pointer coordinate along its
// orientation.
func (e *Engine) PositionAt(f Frame, d Divider, ratio float64) int {
	base, ext, dir := e.axis(f, d)
	return base + dir*offset(ratio, ext, 0)
}

// axis returns the origin, extent and direction ratios of d are measured
// in. The trailing column divider measures from the fixed edge, which is
// the far end of the area for reversed sides.
func (e *Engine) axis(f Frame, d Divider) (base, ext, dir int) {
	switch d.Kind {
	case TrailingCell:
		c := e.Side.ColumnAxis()
		return f.Area.Start(c), f.Area.Extent(c), 1
	case TrailingColumn:
		h := e.Side.HeaderAxis()
		if e.Side.Reversed() {
			return f.Area.End(h), f.Area.Extent(h), -1
		}
		return f.Area.Start(h), f.Area.Extent(h), 1
	}
	t := f.Map.Tree
	o := t.Orientation(d.Node)
	r := t.Bounds(d.Node)
	return r.Start(o), r.Extent(o), 1
}

// DividerAt returns the divider whose strip contains p: the gap between the
// two children of a Node, the gap-wide strip after the last cell of a
// column, or the gap-wide strip past the outermost column. Trailing
// dividers only exist in size-driven layouts.
func (e *Engine) DividerAt(f Frame, p tree.Point) (Divider, bool) {
	t := f.Map.Tree
	found := tree.Nil
	t.Walk(func(h tree.Handle, _ int) bool {
		if found != tree.Nil || !t.Visible(h) {
			return false
		}
		if t.Kind(h) == tree.KindNode && t.BothVisible(h) && gapStrip(t, h).Contains(p) {
			found = h
			return false
		}
		return true
	})
	if found != tree.Nil {
		return NodeDivider(found), true
	}
	if !f.sizeDriven() {
		return Divider{}, false
	}

	c := e.Side.ColumnAxis()
	for i, col := range f.Map.Columns() {
		r := t.Bounds(col.Root)
		if r.Slice(c, r.End(c), e.Gap).Contains(p) {
			return CellEnd(i), true
		}
	}

	h := e.Side.HeaderAxis()
	station := t.Bounds(t.Root())
	strip := station.Slice(h, station.End(h), e.Gap)
	if e.Side.Reversed() {
		strip = station.Slice(h, station.Start(h)-e.Gap, e.Gap)
	}
	if f.Map.Len() > 0 && strip.Contains(p) {
		return ColumnEnd(), true
	}
	return Divider{}, false
}

// gapStrip returns the strip between the two children of Node h.
func gapStrip(t *tree.Tree, h tree.Handle) tree.Rect {
	o := t.Orientation(h)
	l, r := t.Bounds(t.Left(h)), t.Bounds(t.Right(h))
	return t.Bounds(h).Slice(o, l.End(o), r.Start(o)-l.End(o))
}
