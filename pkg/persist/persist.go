// Package persist keeps user-chosen column and cell sizes alive across
// structural edits of the split tree.
//
// Records are keyed by content identity, never by tree position. After
// every rebuild of the column map the station calls Remap, which matches the
// new columns against the old records by shared content:
//
//   - one old column, superset of the new one: a split, the size carries over
//   - one old column, not a superset: max(new preferred, old size)
//   - several old columns: a merge, the largest size wins
//   - none: a new column starts at its preferred size
//
// Cells follow the simpler "largest observed" rule since a cell cannot be
// split or merged independently of its leaf.
package persist

import (
	"slices"

	"github.com/matzehuels/sidedock/pkg/columns"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Cell is the size memory of one cell, measured along the column axis.
type Cell struct {
	// Content is the identity of the cell's first leaf; Contents lists all.
	Content  tree.ContentID
	Contents []tree.ContentID
	// Size is the user-chosen size; non-positive means "use Preferred".
	Size      int
	Preferred int
	Minimum   int
}

// Effective returns Size when positive, else Preferred.
func (c Cell) Effective() int {
	if c.Size > 0 {
		return c.Size
	}
	return c.Preferred
}

// Column is the size memory of one column, measured along the header axis.
type Column struct {
	// Size is the user-chosen size; non-positive means "use Preferred".
	Size      int
	Preferred int
	Minimum   int
	Cells     []Cell

	// HiddenCells remembers cells whose leaves are hidden (or left behind a
	// placeholder). They still count as the column's content, so showing
	// the leaf again restores its sizes instead of starting fresh.
	HiddenCells []Cell
}

// Effective returns Size when positive, else Preferred.
func (c Column) Effective() int {
	if c.Size > 0 {
		return c.Size
	}
	return c.Preferred
}

// Contents returns every content identity of the column, hidden ones
// included, in cell order.
func (c Column) Contents() []tree.ContentID {
	var out []tree.ContentID
	for _, cell := range c.Cells {
		out = append(out, cell.Contents...)
	}
	for _, cell := range c.HiddenCells {
		out = append(out, cell.Contents...)
	}
	return out
}

// MinimumExtent returns the smallest column-axis extent of the column: the
// sum of the cell minimums plus the gaps between cells.
func (c Column) MinimumExtent(gap int) int {
	return sumCells(c.Cells, gap, func(cell Cell) int { return cell.Minimum })
}

// Extent returns the column-axis extent of the column at its effective cell
// sizes, including the gaps between cells.
func (c Column) Extent(gap int) int {
	return sumCells(c.Cells, gap, Cell.Effective)
}

func sumCells(cells []Cell, gap int, size func(Cell) int) int {
	if len(cells) == 0 {
		return 0
	}
	total := gap * (len(cells) - 1)
	for _, c := range cells {
		total += size(c)
	}
	return total
}

// FromMap creates fresh records for every column of m. Sizes are left at
// zero so that they follow the preferred sizes until the user resizes
// something or Remap carries an older size over.
func FromMap(m *columns.Map) []Column {
	header, col := m.Side.HeaderAxis(), m.Side.ColumnAxis()
	out := make([]Column, m.Len())
	for i, c := range m.Columns() {
		rec := Column{
			Preferred: c.Preferred.Along(header),
			Minimum:   c.Minimum.Along(header),
			Cells:     make([]Cell, len(c.Cells)),
		}
		for j, cell := range c.Cells {
			contents := cell.Contents(m.Tree)
			rec.Cells[j] = Cell{
				Content:   contents[0],
				Contents:  contents,
				Preferred: cell.PreferredTotal.Along(col),
				Minimum:   cell.MinimumTotal.Along(col),
			}
		}
		out[i] = rec
	}
	return out
}

// Remap carries sizes from old records over to fresh ones (as built by
// FromMap for the current map). Missing or unmatched records never fail:
// the column or cell falls back to its preferred size.
//
// hidden reports whether a content identity is still in the tree but not
// visible. Cells of such content ride along with the column that inherits
// them; old records that no fresh column claims but that still hold hidden
// content are returned as dormant, so they can be matched again once the
// content shows up.
func Remap(old, fresh []Column, hidden func(tree.ContentID) bool) (live, dormant []Column) {
	used := make([]bool, len(old))
	claimed := make(map[tree.ContentID]bool)

	for i := range fresh {
		col := &fresh[i]
		sources := sourcesOf(old, col.Contents())

		switch {
		case len(sources) == 0:
			col.Size = col.Preferred
		case len(sources) == 1:
			src := old[sources[0]]
			if isSuperset(src.Contents(), col.Contents()) {
				col.Size = src.Effective()
			} else {
				col.Size = max(col.Preferred, src.Effective())
			}
		default:
			size := 0
			for _, s := range sources {
				size = max(size, old[s].Effective())
			}
			col.Size = size
		}

		for j := range col.Cells {
			remapCell(old, &col.Cells[j])
		}

		visible := col.Contents()
		for _, s := range sources {
			used[s] = true
			for _, cell := range hiddenCells(old[s], hidden) {
				if overlaps(cell.Contents, visible) || anyClaimed(claimed, cell.Contents) {
					continue
				}
				for _, c := range cell.Contents {
					claimed[c] = true
				}
				col.HiddenCells = append(col.HiddenCells, cell)
			}
		}
	}

	for i, rec := range old {
		if used[i] {
			continue
		}
		cells := hiddenCells(rec, hidden)
		cells = slices.DeleteFunc(cells, func(c Cell) bool { return anyClaimed(claimed, c.Contents) })
		if len(cells) == 0 {
			continue
		}
		rec.Cells = nil
		rec.HiddenCells = cells
		dormant = append(dormant, rec)
	}
	return fresh, dormant
}

// hiddenCells returns the cells of rec restricted to hidden content.
func hiddenCells(rec Column, hidden func(tree.ContentID) bool) []Cell {
	var out []Cell
	for _, cell := range slices.Concat(rec.Cells, rec.HiddenCells) {
		var keep []tree.ContentID
		for _, c := range cell.Contents {
			if hidden(c) {
				keep = append(keep, c)
			}
		}
		if len(keep) == 0 {
			continue
		}
		cell.Contents = keep
		cell.Content = keep[0]
		out = append(out, cell)
	}
	return out
}

func anyClaimed(claimed map[tree.ContentID]bool, contents []tree.ContentID) bool {
	for _, c := range contents {
		if claimed[c] {
			return true
		}
	}
	return false
}

func remapCell(old []Column, cell *Cell) {
	size, seen := 0, false
	for _, col := range old {
		for _, o := range slices.Concat(col.Cells, col.HiddenCells) {
			if overlaps(o.Contents, cell.Contents) {
				size = max(size, o.Effective())
				seen = true
			}
		}
	}
	if !seen {
		size = cell.Preferred
	}
	cell.Size = size
}

// sourcesOf returns the indices of the old columns sharing any content with
// contents.
func sourcesOf(old []Column, contents []tree.ContentID) []int {
	var out []int
	for i, col := range old {
		if overlaps(col.Contents(), contents) {
			out = append(out, i)
		}
	}
	return out
}

func overlaps(a, b []tree.ContentID) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}

func isSuperset(super, sub []tree.ContentID) bool {
	for _, x := range sub {
		if !slices.Contains(super, x) {
			return false
		}
	}
	return true
}

// Find returns the index of the record holding content, or -1.
func Find(records []Column, content tree.ContentID) int {
	for i, col := range records {
		if slices.Contains(col.Contents(), content) {
			return i
		}
	}
	return -1
}
