package bounds

import (
	"math"

	"github.com/matzehuels/sidedock/pkg/columns"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Validate clamps a proposed ratio for d so that no protected region
// shrinks below its minimum. The result is always within [0,1]. It relies
// on the bounds of the last UpdateBounds pass; a Node without extent keeps
// its current ratio.
func (e *Engine) Validate(f Frame, d Divider, ratio float64) float64 {
	if math.IsNaN(ratio) {
		ratio = 0.5
	}
	switch d.Kind {
	case TrailingColumn:
		ratio = e.validateColumnEnd(f, ratio)
	case TrailingCell:
		ratio = e.validateCellEnd(f, d.Column, ratio)
	default:
		ratio = e.validateNode(f, d.Node, ratio)
	}
	return clamp01(ratio)
}

func (e *Engine) validateNode(f Frame, h tree.Handle, ratio float64) float64 {
	t := f.Map.Tree
	if !t.BothVisible(h) {
		return ratio
	}
	o := t.Orientation(h)
	ext := t.Bounds(h).Extent(o)
	if ext <= 0 {
		return t.Ratio(h)
	}
	gap := e.nodeGap(f, h)

	if f.sizeDriven() {
		if prot, ok := e.protectedMinimum(f, h); ok {
			if e.protectsLeft(f.Map, h) {
				return math.Max(ratio, ratioOf(prot, ext, gap))
			}
			return math.Min(ratio, ratioOf(ext-gap-prot, ext, gap))
		}
	}

	_, lmin := columns.SizeOf(t, t.Left(h), e.Gap)
	_, rmin := columns.SizeOf(t, t.Right(h), e.Gap)
	lo := ratioOf(lmin.Along(o), ext, gap)
	hi := ratioOf(ext-gap-rmin.Along(o), ext, gap)
	if e.protectsLeft(f.Map, h) {
		return math.Max(math.Min(ratio, hi), lo)
	}
	return math.Min(math.Max(ratio, lo), hi)
}

// nodeGap returns the width of the strip between the children of h: the
// drawn strip in size-driven layouts, the engine gap otherwise.
func (e *Engine) nodeGap(f Frame, h tree.Handle) int {
	if !f.sizeDriven() {
		return e.Gap
	}
	t := f.Map.Tree
	return max(0, gapStrip(t, h).Extent(t.Orientation(h)))
}

// protectsLeft reports whether the protected side of h is its tree-left
// child: always below header level, and in the header unless the side is
// reversed.
func (e *Engine) protectsLeft(m *columns.Map, h tree.Handle) bool {
	return columns.First(m.Tree, e.Side, h) == m.Tree.Left(h)
}

// protectedMinimum returns the smallest extent the protected side of a
// column or cell divider may take: the current sizes of the protected
// regions other than the one touching the divider, the gaps and spans
// between them, and the minimum of the touching region.
func (e *Engine) protectedMinimum(f Frame, h tree.Handle) (int, bool) {
	m := f.Map
	t := m.Tree
	switch {
	case m.IsHeaderDivider(h):
		prot := m.ColumnsUnder(columns.First(t, e.Side, h))
		if len(prot) == 0 {
			return 0, false
		}
		leads, _ := e.columnLeads(f)
		adj := prot[len(prot)-1]
		return leads[adj] - leads[prot[0]] + e.columnMinimum(f, adj), true

	case m.IsCellDivider(h):
		col, _ := m.CellOf(t.Left(h))
		if col < 0 {
			col = m.ColumnOf(h)
		}
		prot := m.CellsUnder(col, t.Left(h))
		if len(prot) == 0 {
			return 0, false
		}
		leads, _ := e.cellLeads(f, col)
		adj := prot[len(prot)-1]
		return leads[adj] - leads[prot[0]] + e.cellMinimum(f, col, adj), true
	}
	return 0, false
}

// validateColumnEnd keeps the outermost column at or above its minimum.
func (e *Engine) validateColumnEnd(f Frame, ratio float64) float64 {
	ext := f.Area.Extent(e.Side.HeaderAxis())
	n := f.Map.Len()
	if ext <= 0 || n == 0 {
		return ratio
	}
	leads, _ := e.columnLeads(f)
	need := leads[n-1] + e.columnMinimum(f, n-1) + f.spans().ColumnGap(n)
	return math.Max(ratio, ratioOf(need, ext, e.Gap))
}

func (e *Engine) validateCellEnd(f Frame, col int, ratio float64) float64 {
	ext := f.Area.Extent(e.Side.ColumnAxis())
	if ext <= 0 {
		return ratio
	}
	c := f.Map.Column(col)
	last := len(c.Cells) - 1
	leads, _ := e.cellLeads(f, col)
	need := leads[last] + e.cellMinimum(f, col, last) + f.spans().CellGap(col, last+1)
	minimum := ratioOf(need, ext, e.Gap)

	policy := e.Policy
	if policy == nil {
		policy = Unconstrained
	}
	return policy(ratio, minimum)
}

// Apply commits a validated ratio for d. In a size-driven frame the new
// size is written to the record of the region touching the divider and
// Apply reports true; otherwise the Node's ratio is set. Trailing dividers
// without records and Nodes without extent are ignored.
func (e *Engine) Apply(f Frame, d Divider, ratio float64) bool {
	m := f.Map
	t := m.Tree
	ratio = clamp01(ratio)

	switch d.Kind {
	case TrailingColumn:
		n := m.Len()
		if !f.sizeDriven() || n == 0 || n > len(f.Records) {
			return false
		}
		leads, _ := e.columnLeads(f)
		end := offset(ratio, f.Area.Extent(e.Side.HeaderAxis()), e.Gap)
		f.Records[n-1].Size = max(1, end-leads[n-1]-f.spans().ColumnGap(n))
		return true

	case TrailingCell:
		if !f.sizeDriven() || d.Column >= len(f.Records) {
			return false
		}
		rec := &f.Records[d.Column]
		last := len(m.Column(d.Column).Cells) - 1
		if last >= len(rec.Cells) {
			return false
		}
		leads, _ := e.cellLeads(f, d.Column)
		end := offset(ratio, f.Area.Extent(e.Side.ColumnAxis()), e.Gap)
		rec.Cells[last].Size = max(1, end-leads[last]-f.spans().CellGap(d.Column, last+1))
		return true
	}

	h := d.Node
	o := t.Orientation(h)
	ext := t.Bounds(h).Extent(o)
	if ext <= 0 {
		return false
	}
	if f.sizeDriven() && t.BothVisible(h) {
		gap := e.nodeGap(f, h)
		prot := offset(ratio, ext, gap)
		if !e.protectsLeft(m, h) {
			prot = ext - gap - prot
		}

		switch {
		case m.IsHeaderDivider(h):
			cols := m.ColumnsUnder(columns.First(t, e.Side, h))
			if len(cols) > 0 && cols[len(cols)-1] < len(f.Records) {
				leads, _ := e.columnLeads(f)
				adj := cols[len(cols)-1]
				f.Records[adj].Size = max(1, prot-(leads[adj]-leads[cols[0]]))
				return true
			}
		case m.IsCellDivider(h):
			col, _ := m.CellOf(t.Left(h))
			cells := m.CellsUnder(col, t.Left(h))
			if col >= 0 && col < len(f.Records) && len(cells) > 0 && cells[len(cells)-1] < len(f.Records[col].Cells) {
				leads, _ := e.cellLeads(f, col)
				adj := cells[len(cells)-1]
				f.Records[col].Cells[adj].Size = max(1, prot-(leads[adj]-leads[cells[0]]))
				return true
			}
		}
	}
	t.SetRatio(h, ratio)
	return false
}

// offset converts a ratio of extent into the extent of the region before a
// divider gap pixels wide. Every ratio to pixel conversion of the engine
// goes through it. The value is truncated; float error within epsilon of
// the next pixel counts as reaching it.
func offset(ratio float64, extent, gap int) int {
	return int(math.Floor(ratio*float64(extent) - float64(gap)/2 + epsilon))
}

// ratioOf is the inverse of offset: offset(ratioOf(px, extent, gap),
// extent, gap) == px for any positive extent.
func ratioOf(px, extent, gap int) float64 {
	return (float64(px) + float64(gap)/2) / float64(extent)
}

const epsilon = 1e-6

func clamp01(r float64) float64 {
	return math.Max(0, math.Min(1, r))
}
