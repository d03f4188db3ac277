package columns

import (
	"slices"
	"sort"

	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Cell is one piece of content inside a Column: a visible Leaf, or the
// covering sub-node below the column's column-axis splits.
type Cell struct {
	// Index is the position within the column, 0 at the leading end.
	Index int
	// Root is the Leaf or covering sub-node.
	Root tree.Handle
	// Leaves lists the visible leaves below Root, in order.
	Leaves []tree.Handle

	// Preferred and Minimum exclude the gaps inside the cell.
	Preferred tree.Size
	Minimum   tree.Size
	// Gaps is the number of dividers inside the cell.
	Gaps int

	// PreferredTotal and MinimumTotal include the inner gaps.
	PreferredTotal tree.Size
	MinimumTotal   tree.Size

	score []byte
}

// Column is an ordered group of cells sharing one position along the header
// axis.
type Column struct {
	// Index is the position along the header axis, 0 nearest the fixed edge.
	Index int
	// Root is the column-axis Node or the lone Leaf forming the column.
	Root  tree.Handle
	Cells []*Cell

	// Preferred and Minimum include every gap inside the column.
	Preferred tree.Size
	Minimum   tree.Size

	score []byte
}

// Cell returns the cell at index i. Out-of-range indices are caller bugs
// and panic.
func (c *Column) Cell(i int) *Cell {
	if i < 0 || i >= len(c.Cells) {
		panic(errors.New(errors.ErrCodeOutOfRange, "cell %d out of range [0,%d) in column %d", i, len(c.Cells), c.Index))
	}
	return c.Cells[i]
}

// Contents returns the content identities of every visible leaf of the
// column, cell by cell.
func (c *Column) Contents(t *tree.Tree) []tree.ContentID {
	var out []tree.ContentID
	for _, cell := range c.Cells {
		out = append(out, cell.Contents(t)...)
	}
	return out
}

// Contents returns the content identities of the cell's leaves.
func (c *Cell) Contents(t *tree.Tree) []tree.ContentID {
	out := make([]tree.ContentID, len(c.Leaves))
	for i, l := range c.Leaves {
		out[i] = t.Content(l)
	}
	return out
}

// Map is the derived Column/Cell view of a tree at one version. It must not
// be retained across structural mutations; ask the Analyzer again.
type Map struct {
	Tree    *tree.Tree
	Side    tree.Side
	Gap     int
	Version uint64

	columns []*Column
	colOf   map[tree.Handle]int // every handle below a column root
	cellOf  map[tree.Handle]int // every handle below a cell root
}

// Len returns the number of columns.
func (m *Map) Len() int { return len(m.columns) }

// Columns returns the columns in index order.
func (m *Map) Columns() []*Column { return m.columns }

// Column returns the column at index i. Out-of-range indices are caller
// bugs and panic.
func (m *Map) Column(i int) *Column {
	if i < 0 || i >= len(m.columns) {
		panic(errors.New(errors.ErrCodeOutOfRange, "column %d out of range [0,%d)", i, len(m.columns)))
	}
	return m.columns[i]
}

// ColumnOf returns the index of the column h belongs to.
//
// For a handle strictly inside the header (a header divider or a pass-through
// Node) it returns the column following that divider: the first column below
// the divider's second child, i.e. the column a header-level resize pushes.
// A pass-through Node with one hidden child resolves through the visible
// one. It returns -1 when there is no such column.
func (m *Map) ColumnOf(h tree.Handle) int {
	if i, ok := m.colOf[h]; ok {
		return i
	}
	t := m.Tree
	if !t.Valid(h) || t.Kind(h) != tree.KindNode || !HeaderLevel(t, m.Side, h) {
		return -1
	}
	next := Second(t, m.Side, h)
	if !t.BothVisible(h) {
		next = t.Left(h)
		if !t.Visible(next) {
			next = t.Right(h)
		}
	}
	under := m.ColumnsUnder(next)
	if len(under) == 0 {
		return -1
	}
	return under[0]
}

// CellOf returns the column and cell indices h belongs to, or -1, -1.
func (m *Map) CellOf(h tree.Handle) (column, cell int) {
	col, ok := m.colOf[h]
	if !ok {
		return -1, -1
	}
	if c, ok := m.cellOf[h]; ok {
		return col, c
	}
	return col, -1
}

// ColumnsUnder returns the sorted indices of the columns whose root is h or
// a descendant of h.
func (m *Map) ColumnsUnder(h tree.Handle) []int {
	var out []int
	for _, c := range m.columns {
		if m.isAncestor(h, c.Root) {
			out = append(out, c.Index)
		}
	}
	return out
}

// CellsUnder returns the sorted indices of the cells of column col whose
// root is h or a descendant of h.
func (m *Map) CellsUnder(col int, h tree.Handle) []int {
	var out []int
	for _, c := range m.Column(col).Cells {
		if m.isAncestor(h, c.Root) {
			out = append(out, c.Index)
		}
	}
	return out
}

// IsCellDivider reports whether h is a column-axis Node inside a column
// whose divider separates cells.
func (m *Map) IsCellDivider(h tree.Handle) bool {
	if _, ok := m.colOf[h]; !ok {
		return false
	}
	if _, inCell := m.cellOf[h]; inCell {
		return false
	}
	return m.Tree.Kind(h) == tree.KindNode && m.Tree.BothVisible(h)
}

// IsHeaderDivider reports whether h is a Node whose divider separates
// columns.
func (m *Map) IsHeaderDivider(h tree.Handle) bool {
	return IsHeaderDivider(m.Tree, m.Side, h)
}

func (m *Map) isAncestor(anc, h tree.Handle) bool {
	for cur := h; cur != tree.Nil; cur = m.Tree.Parent(cur) {
		if cur == anc {
			return true
		}
	}
	return false
}

// Build classifies the visible leaves of t into ordered columns and cells.
// It walks the tree once to find column roots, then collects the cells of
// each column; columns without visible cells are dropped.
func Build(t *tree.Tree, side tree.Side, gap int) *Map {
	m := &Map{
		Tree:    t,
		Side:    side,
		Gap:     gap,
		Version: t.Version(),
		colOf:   make(map[tree.Handle]int),
		cellOf:  make(map[tree.Handle]int),
	}

	t.Walk(func(h tree.Handle, _ int) bool {
		if !t.Visible(h) {
			return false
		}
		if IsColumnRoot(t, side, h) {
			m.columns = append(m.columns, m.buildColumn(h))
			return false
		}
		return true
	})

	m.columns = slices.DeleteFunc(m.columns, func(c *Column) bool { return len(c.Cells) == 0 })
	sort.SliceStable(m.columns, func(i, j int) bool {
		return before(m.columns[i].score, m.columns[j].score)
	})

	for i, c := range m.columns {
		c.Index = i
		t.WalkFrom(c.Root, func(h tree.Handle, _ int) bool {
			m.colOf[h] = i
			return true
		})
		for j, cell := range c.Cells {
			cell.Index = j
			t.WalkFrom(cell.Root, func(h tree.Handle, _ int) bool {
				m.cellOf[h] = j
				return true
			})
		}
	}
	return m
}

func (m *Map) buildColumn(root tree.Handle) *Column {
	t := m.Tree
	c := &Column{Root: root, score: Score(t, m.Side, root)}
	c.Preferred, c.Minimum = SizeOf(t, root, m.Gap)

	var collect func(h tree.Handle)
	collect = func(h tree.Handle) {
		if !t.Visible(h) {
			return
		}
		if t.Kind(h) == tree.KindNode {
			switch {
			case !t.BothVisible(h):
				collect(t.Left(h))
				collect(t.Right(h))
				return
			case t.Orientation(h) == m.Side.ColumnAxis():
				collect(t.Left(h))
				collect(t.Right(h))
				return
			}
		}
		c.Cells = append(c.Cells, m.buildCell(h))
	}
	collect(root)

	sort.SliceStable(c.Cells, func(i, j int) bool {
		return before(c.Cells[i].score, c.Cells[j].score)
	})
	return c
}

func (m *Map) buildCell(root tree.Handle) *Cell {
	t := m.Tree
	cell := &Cell{Root: root, score: Score(t, m.Side, root)}
	t.WalkFrom(root, func(h tree.Handle, _ int) bool {
		if !t.Visible(h) {
			return false
		}
		if t.Kind(h) == tree.KindLeaf {
			cell.Leaves = append(cell.Leaves, h)
		}
		return true
	})
	cell.Preferred, cell.Minimum = SizeOf(t, root, 0)
	cell.PreferredTotal, cell.MinimumTotal = SizeOf(t, root, m.Gap)
	cell.Gaps = countGaps(t, root)
	return cell
}

// Analyzer memoizes the column map of one tree, rebuilding it only when the
// tree's version changes.
type Analyzer struct {
	tree *tree.Tree
	side tree.Side
	gap  int

	cached *Map
}

// NewAnalyzer creates an analyzer for t docked on side with gap pixels
// between adjacent regions.
func NewAnalyzer(t *tree.Tree, side tree.Side, gap int) *Analyzer {
	return &Analyzer{tree: t, side: side, gap: gap}
}

// Map returns the column map for the current tree version.
func (a *Analyzer) Map() *Map {
	if a.cached == nil || a.cached.Version != a.tree.Version() {
		a.cached = Build(a.tree, a.side, a.gap)
	}
	return a.cached
}

// Stale reports whether the next call to Map will rebuild.
func (a *Analyzer) Stale() bool {
	return a.cached == nil || a.cached.Version != a.tree.Version()
}

// Invalidate drops the cached map.
func (a *Analyzer) Invalidate() { a.cached = nil }
