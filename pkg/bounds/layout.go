package bounds

import (
	"github.com/matzehuels/sidedock/pkg/columns"
	"github.com/matzehuels/sidedock/pkg/persist"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Spans supplies the extra space opened at column and cell boundaries by a
// drag preview. Boundary i of n columns lies before column i; boundary n
// lies past the last column. Cell boundaries follow the same rule.
type Spans interface {
	ColumnGap(boundary int) int
	CellGap(column, boundary int) int
}

type noSpans struct{}

func (noSpans) ColumnGap(int) int    { return 0 }
func (noSpans) CellGap(int, int) int { return 0 }

// Frame is the input of one layout or validation pass.
type Frame struct {
	// Map is the column map of the tree being laid out.
	Map *columns.Map
	// Records are the persistent sizes, index-aligned with Map's columns.
	// Nil selects the ratio-driven layout.
	Records []persist.Column
	// Spans is optional.
	Spans Spans
	// Area is the rectangle offered by the host.
	Area tree.Rect
}

func (f Frame) sizeDriven() bool { return f.Records != nil }

func (f Frame) spans() Spans {
	if f.Spans == nil {
		return noSpans{}
	}
	return f.Spans
}

// Engine computes bounds and validates dividers for a station docked on
// Side with Gap pixels between adjacent regions.
type Engine struct {
	Side tree.Side
	Gap  int
	// Policy bounds trailing cell dividers; nil means Unconstrained.
	Policy Policy
}

// New returns an engine with the Unconstrained trailing cell policy.
func New(side tree.Side, gap int) *Engine {
	return &Engine{Side: side, Gap: gap, Policy: Unconstrained}
}

// UpdateBounds assigns bounds to every node of the tree and returns the
// rectangle the station occupies. Invisible nodes get an empty rectangle.
func (e *Engine) UpdateBounds(f Frame) tree.Rect {
	t := f.Map.Tree
	t.Walk(func(h tree.Handle, _ int) bool {
		t.SetBounds(h, tree.Rect{})
		return true
	})

	if !f.sizeDriven() {
		e.proportional(t, t.Root(), f.Area)
		return f.Area
	}

	station := e.stationRect(f)
	h, c := e.Side.HeaderAxis(), e.Side.ColumnAxis()
	leads, _ := e.columnLeads(f)
	for i, col := range f.Map.Columns() {
		size := e.columnSize(f, i)
		start := station.Start(h) + leads[i]
		if e.Side.Reversed() {
			start = station.End(h) - leads[i] - size
		}
		colRect := station.Slice(h, start, size)

		cells, _ := e.cellLeads(f, i)
		last := len(col.Cells) - 1
		for j, cell := range col.Cells {
			extent := e.cellSize(f, i, j)
			if j == last {
				extent = max(0, station.End(c)-f.spans().CellGap(i, last+1)-(colRect.Start(c)+cells[j]))
			}
			e.proportional(t, cell.Root, colRect.Slice(c, colRect.Start(c)+cells[j], extent))
		}
	}

	e.join(f.Map, t.Root())
	t.SetBounds(t.Root(), station)
	return station
}

// PreferredSize returns the size the station asks for: along the header
// axis the columns at their effective sizes plus gaps and open spans,
// along the column axis the tallest column.
func (e *Engine) PreferredSize(f Frame) tree.Size {
	if !f.sizeDriven() {
		pref, _ := columns.SizeOf(f.Map.Tree, f.Map.Tree.Root(), e.Gap)
		return pref
	}
	_, total := e.columnLeads(f)
	return tree.SizeOf(e.Side.HeaderAxis(), total, e.columnExtent(f))
}

func (e *Engine) stationRect(f Frame) tree.Rect {
	h, c := e.Side.HeaderAxis(), e.Side.ColumnAxis()
	_, total := e.columnLeads(f)
	extent := max(f.Area.Extent(c), e.columnExtent(f))

	start := f.Area.Start(h)
	if e.Side.Reversed() {
		start = f.Area.End(h) - total
	}
	return f.Area.Slice(h, start, total).Slice(c, f.Area.Start(c), extent)
}

// columnExtent returns the largest column-axis extent any column needs.
func (e *Engine) columnExtent(f Frame) int {
	extent := 0
	for i := range f.Map.Columns() {
		_, total := e.cellLeads(f, i)
		extent = max(extent, total)
	}
	return extent
}

// columnSize returns the effective size of column i, falling back to the
// column's preferred size when no record covers it.
func (e *Engine) columnSize(f Frame, i int) int {
	if i < len(f.Records) {
		if s := f.Records[i].Effective(); s > 0 {
			return s
		}
	}
	return f.Map.Column(i).Preferred.Along(e.Side.HeaderAxis())
}

// cellSize returns the effective size of cell j of column col.
func (e *Engine) cellSize(f Frame, col, j int) int {
	if col < len(f.Records) && j < len(f.Records[col].Cells) {
		if s := f.Records[col].Cells[j].Effective(); s > 0 {
			return s
		}
	}
	return f.Map.Column(col).Cell(j).PreferredTotal.Along(e.Side.ColumnAxis())
}

func (e *Engine) columnMinimum(f Frame, i int) int {
	if i < len(f.Records) {
		return f.Records[i].Minimum
	}
	return f.Map.Column(i).Minimum.Along(e.Side.HeaderAxis())
}

func (e *Engine) cellMinimum(f Frame, col, j int) int {
	if col < len(f.Records) && j < len(f.Records[col].Cells) {
		return f.Records[col].Cells[j].Minimum
	}
	return f.Map.Column(col).Cell(j).MinimumTotal.Along(e.Side.ColumnAxis())
}

// columnLeads returns the distance of every column from the fixed edge and
// the total header-axis extent, spans included.
func (e *Engine) columnLeads(f Frame) ([]int, int) {
	sp := f.spans()
	n := f.Map.Len()
	leads := make([]int, n)
	off := sp.ColumnGap(0)
	for i := range n {
		if i > 0 {
			off += e.Gap + sp.ColumnGap(i)
		}
		leads[i] = off
		off += e.columnSize(f, i)
	}
	return leads, off + sp.ColumnGap(n)
}

// cellLeads returns the offset of every cell of column col from the
// column's leading edge and the column's total extent, spans included.
func (e *Engine) cellLeads(f Frame, col int) ([]int, int) {
	sp := f.spans()
	n := len(f.Map.Column(col).Cells)
	leads := make([]int, n)
	off := sp.CellGap(col, 0)
	for j := range n {
		if j > 0 {
			off += e.Gap + sp.CellGap(col, j)
		}
		leads[j] = off
		off += e.cellSize(f, col, j)
	}
	return leads, off + sp.CellGap(col, n)
}

// proportional lays h out inside r by ratio.
func (e *Engine) proportional(t *tree.Tree, h tree.Handle, r tree.Rect) {
	if h == tree.Nil || !t.Visible(h) {
		return
	}
	t.SetBounds(h, r)
	switch t.Kind(h) {
	case tree.KindRoot:
		e.proportional(t, t.Child(h), r)
	case tree.KindNode:
		left, right := t.Left(h), t.Right(h)
		if !t.BothVisible(h) {
			e.proportional(t, left, r)
			e.proportional(t, right, r)
			return
		}
		a, b := e.split(r, t.Orientation(h), t.Ratio(h))
		e.proportional(t, left, a)
		e.proportional(t, right, b)
	}
}

func (e *Engine) split(r tree.Rect, o tree.Orientation, ratio float64) (a, b tree.Rect) {
	ext := r.Extent(o)
	left := offset(ratio, ext, e.Gap)
	left = max(0, min(left, ext-e.Gap))
	right := max(0, ext-left-e.Gap)
	return r.Slice(o, r.Start(o), left), r.Slice(o, r.Start(o)+left+e.Gap, right)
}

// join gives every visible node above the cells the union of its
// children's bounds and rewrites its ratio to the drawn divider position.
func (e *Engine) join(m *columns.Map, h tree.Handle) tree.Rect {
	t := m.Tree
	if h == tree.Nil || !t.Visible(h) {
		return tree.Rect{}
	}
	if _, cell := m.CellOf(h); cell >= 0 {
		return t.Bounds(h)
	}

	var r tree.Rect
	switch t.Kind(h) {
	case tree.KindRoot:
		r = e.join(m, t.Child(h))
	case tree.KindNode:
		a, b := e.join(m, t.Left(h)), e.join(m, t.Right(h))
		r = a.Union(b)
		if t.BothVisible(h) {
			o := t.Orientation(h)
			if ext := r.Extent(o); ext > 0 {
				mid := float64(a.End(o)+b.Start(o)) / 2
				t.SetRatio(h, (mid-float64(r.Start(o)))/float64(ext))
			}
		}
	default:
		r = t.Bounds(h)
	}
	t.SetBounds(h, r)
	return r
}
