// Package span previews a pending drop by opening a virtual gap at one
// column or cell boundary of the station.
//
// A [Manager] keeps one span per column boundary and one per cell boundary
// of every column. At most one span is ever open; opening another closes
// the previous one. Spans are never persisted.
package span

import (
	"fmt"
	"time"

	"github.com/matzehuels/sidedock/pkg/columns"
	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// State is the lifecycle of a span: Closed → Opening → Open → Closed.
type State uint8

const (
	Closed State = iota
	Opening
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	}
	return fmt.Sprintf("state(%d)", s)
}

// Placement is where a dragged piece of content lands relative to its
// target.
type Placement uint8

const (
	// BeforeHeader inserts a new column before the target's column.
	BeforeHeader Placement = iota
	// AfterHeader inserts a new column after the target's column.
	AfterHeader
	// BeforeColumn inserts a new cell before the target's cell.
	BeforeColumn
	// AfterColumn inserts a new cell after the target's cell.
	AfterColumn
)

func (p Placement) String() string {
	switch p {
	case BeforeHeader:
		return "before-header"
	case AfterHeader:
		return "after-header"
	case BeforeColumn:
		return "before-column"
	case AfterColumn:
		return "after-column"
	}
	return fmt.Sprintf("placement(%d)", p)
}

// ParsePlacement parses a placement name as printed by String.
func ParsePlacement(s string) (Placement, error) {
	for _, p := range []Placement{BeforeHeader, AfterHeader, BeforeColumn, AfterColumn} {
		if p.String() == s {
			return p, nil
		}
	}
	return BeforeHeader, fmt.Errorf("unknown placement %q", s)
}

// Header reports whether p creates a new column.
func (p Placement) Header() bool { return p == BeforeHeader || p == AfterHeader }

// Before reports whether p lands on the leading side of the target.
func (p Placement) Before() bool { return p == BeforeHeader || p == BeforeColumn }

// Request is a pending drop: Size is the dragged content's preferred size.
type Request struct {
	Target tree.Handle
	Side   Placement
	Size   tree.Size
}

// Span is one virtual gap.
type Span struct {
	// Size is the target size in pixels.
	Size    int
	State   State
	elapsed time.Duration
}

// slot addresses a boundary: cell is -1 for column boundaries.
type slot struct {
	column, cell, boundary int
}

var noSlot = slot{-1, -1, -1}

// Manager owns the spans of one station. The zero value opens spans
// instantly; set Duration to animate.
type Manager struct {
	// Duration is the length of the opening animation.
	Duration time.Duration

	side    tree.Side
	columns []Span
	cells   [][]Span
	active  slot
}

// NewManager creates a manager for a station docked on side.
func NewManager(side tree.Side, duration time.Duration) *Manager {
	return &Manager{Duration: duration, side: side, active: noSlot}
}

// Rebuild resizes the span arrays to the columns and cells of m. The open
// span survives only if its boundary still exists.
func (s *Manager) Rebuild(m *columns.Map) {
	keep := s.active != noSlot && s.exists(m, s.active)
	var kept Span
	if keep {
		kept = *s.at(s.active)
	}

	s.columns = make([]Span, m.Len()+1)
	s.cells = make([][]Span, m.Len())
	for i, c := range m.Columns() {
		s.cells[i] = make([]Span, len(c.Cells)+1)
	}

	if keep {
		*s.at(s.active) = kept
	} else {
		s.active = noSlot
	}
}

func (s *Manager) exists(m *columns.Map, at slot) bool {
	if at.cell < 0 {
		return at.boundary <= m.Len()
	}
	return at.column < m.Len() && at.boundary <= len(m.Column(at.column).Cells)
}

func (s *Manager) at(sl slot) *Span {
	if sl.cell < 0 {
		return &s.columns[sl.boundary]
	}
	return &s.cells[sl.column][sl.boundary]
}

// SetPlacement opens the span previewing req and closes any other one. It
// reports whether the spans changed. A target outside every column closes
// all spans.
func (s *Manager) SetPlacement(req Request, m *columns.Map) bool {
	sl, size, ok := s.resolve(req, m)
	if !ok {
		return s.Clear()
	}
	if sl == s.active && s.at(sl).Size == size {
		return false
	}

	s.Clear()
	s.Rebuild(m)
	sp := s.at(sl)
	sp.Size = size
	sp.State = Opening
	if s.Duration <= 0 {
		sp.State = Open
	}
	s.active = sl
	return true
}

func (s *Manager) resolve(req Request, m *columns.Map) (slot, int, bool) {
	if req.Target == tree.Nil || !m.Tree.Valid(req.Target) {
		return noSlot, 0, false
	}
	if req.Side.Header() {
		col := m.ColumnOf(req.Target)
		if col < 0 {
			return noSlot, 0, false
		}
		b := col
		if !req.Side.Before() {
			b++
		}
		return slot{column: -1, cell: -1, boundary: b}, req.Size.Along(s.side.HeaderAxis()), true
	}

	col, cell := m.CellOf(req.Target)
	if col < 0 {
		return noSlot, 0, false
	}
	var b int
	switch {
	case cell >= 0 && req.Side.Before():
		b = cell
	case cell >= 0:
		b = cell + 1
	case req.Side.Before():
		b = 0
	default:
		b = len(m.Column(col).Cells)
	}
	return slot{column: col, cell: 0, boundary: b}, req.Size.Along(s.side.ColumnAxis()), true
}

// Clear collapses every span to size 0 at once. It reports whether a span
// was open.
func (s *Manager) Clear() bool {
	if s.active == noSlot {
		return false
	}
	*s.at(s.active) = Span{}
	s.active = noSlot
	return true
}

// Tick advances the opening animation by elapsed. It reports whether the
// open span changed size, i.e. whether the layout needs another pass.
func (s *Manager) Tick(elapsed time.Duration) bool {
	if s.active == noSlot {
		return false
	}
	sp := s.at(s.active)
	if sp.State != Opening {
		return false
	}
	sp.elapsed += elapsed
	if sp.elapsed >= s.Duration {
		sp.State = Open
	}
	return true
}

// Active returns the open span and its boundary. column is -1 for a column
// boundary.
func (s *Manager) Active() (sp Span, column, boundary int, ok bool) {
	if s.active == noSlot {
		return Span{}, -1, -1, false
	}
	col := s.active.column
	if s.active.cell < 0 {
		col = -1
	}
	return *s.at(s.active), col, s.active.boundary, true
}

// ColumnGap returns the current extra space at column boundary i, for i in
// [0, n] where n is the column count of the last rebuilt map. Other
// boundaries are caller bugs and panic.
func (s *Manager) ColumnGap(i int) int {
	if i < 0 || i >= len(s.columns) {
		panic(errors.New(errors.ErrCodeOutOfRange, "column boundary %d out of range [0,%d)", i, len(s.columns)))
	}
	return s.current(s.columns[i])
}

// CellGap returns the current extra space at boundary i of column col. Like
// ColumnGap it panics for boundaries the last rebuilt map does not have.
func (s *Manager) CellGap(col, i int) int {
	if col < 0 || col >= len(s.cells) {
		panic(errors.New(errors.ErrCodeOutOfRange, "column %d out of range [0,%d)", col, len(s.cells)))
	}
	if i < 0 || i >= len(s.cells[col]) {
		panic(errors.New(errors.ErrCodeOutOfRange, "cell boundary %d of column %d out of range [0,%d)", i, col, len(s.cells[col])))
	}
	return s.current(s.cells[col][i])
}

func (s *Manager) current(sp Span) int {
	switch sp.State {
	case Open:
		return sp.Size
	case Opening:
		if s.Duration <= 0 {
			return sp.Size
		}
		return int(int64(sp.Size) * int64(sp.elapsed) / int64(s.Duration))
	}
	return 0
}
