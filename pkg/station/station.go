// Package station ties the split tree, the column analyzer, the persistent
// sizes, the drag-preview spans and the bounds engine into one facade.
//
// A Station is driven from a single control thread. Structural edits mark
// the column map stale; the next query rebuilds it and carries persistent
// sizes over. Layout requests only set a dirty flag: the host calls
// [Station.Flush] once per frame, or [Station.UpdateBounds] when the area
// changes. A layout request made while a pass is running is coalesced into
// exactly one extra pass at its end.
package station

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sidedock/pkg/bounds"
	"github.com/matzehuels/sidedock/pkg/columns"
	"github.com/matzehuels/sidedock/pkg/observability"
	"github.com/matzehuels/sidedock/pkg/persist"
	"github.com/matzehuels/sidedock/pkg/span"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Station is a side-docked, column-constrained layout over a split tree.
// It is not safe for concurrent use.
type Station struct {
	opts Options
	log  *log.Logger

	tree     *tree.Tree
	analyzer *columns.Analyzer
	engine   *bounds.Engine
	spans    *span.Manager

	records []persist.Column
	dormant []persist.Column
	synced  bool
	version uint64

	area     tree.Rect
	bounds   tree.Rect
	dirty    bool
	inLayout bool
	pending  bool
	passes   int
}

// New creates a station over t. The station takes ownership of t: all
// structural edits must go through the station or be followed by a query,
// which picks the change up through the tree's version.
func New(t *tree.Tree, opts Options) *Station {
	opts.SetDefaults()
	e := bounds.New(opts.Side, opts.Gap)
	e.Policy = opts.Policy
	return &Station{
		opts:     opts,
		log:      opts.Logger.WithPrefix(opts.ID),
		tree:     t,
		analyzer: columns.NewAnalyzer(t, opts.Side, opts.Gap),
		engine:   e,
		spans:    span.NewManager(opts.Side, opts.SpanDuration),
		dirty:    true,
	}
}

// ID returns the station name.
func (s *Station) ID() string { return s.opts.ID }

// Options returns the options the station was created with.
func (s *Station) Options() Options { return s.opts }

// Tree returns the underlying split tree.
func (s *Station) Tree() *tree.Tree { return s.tree }

// Columns returns the current column map. It must not be retained across
// structural edits.
func (s *Station) Columns() *columns.Map { return s.sync() }

// ColumnCount returns the number of visible columns.
func (s *Station) ColumnCount() int { return s.sync().Len() }

// Bounds returns the station rectangle of the last layout pass.
func (s *Station) Bounds() tree.Rect { return s.bounds }

// Area returns the area of the last UpdateBounds call.
func (s *Station) Area() tree.Rect { return s.area }

// Passes returns the number of layout passes run so far.
func (s *Station) Passes() int { return s.passes }

// sync rebuilds the column map and remaps the persistent sizes when the
// tree changed since the last call.
func (s *Station) sync() *columns.Map {
	m := s.analyzer.Map()
	if s.synced && m.Version == s.version {
		return m
	}
	start := time.Now()

	if s.opts.KeepSizes {
		old := slices.Concat(s.records, s.dormant)
		s.records, s.dormant = persist.Remap(old, persist.FromMap(m), s.hidden)
	}
	s.spans.Rebuild(m)
	s.synced, s.version = true, m.Version
	s.dirty = true

	s.log.Debug("rebuilt column map", "columns", m.Len(), "version", m.Version, "dormant", len(s.dormant))
	observability.Station().OnRebuild(s.opts.ID, m.Len(), time.Since(start))
	return m
}

// hidden reports whether content is still in the tree without being shown:
// a hidden Leaf or a Placeholder.
func (s *Station) hidden(c tree.ContentID) bool {
	if h := s.tree.LeafOf(c); h != tree.Nil {
		return !s.tree.Visible(h)
	}
	return s.tree.PlaceholderOf(c) != tree.Nil
}

func (s *Station) frame() bounds.Frame {
	m := s.sync()
	f := bounds.Frame{Map: m, Spans: s.spans, Area: s.area}
	if s.opts.KeepSizes {
		f.Records = s.records
		if f.Records == nil {
			f.Records = []persist.Column{}
		}
	}
	return f
}

// UpdateBounds lays the station out inside area and returns the station
// rectangle. Called during a pass (from a hook) it only schedules one
// extra pass and returns the current bounds.
func (s *Station) UpdateBounds(area tree.Rect) tree.Rect {
	s.area = area
	if s.inLayout {
		s.pending = true
		return s.bounds
	}

	s.inLayout = true
	s.layout()
	if s.pending {
		s.pending = false
		s.layout()
	}
	s.inLayout = false
	s.dirty, s.pending = s.pending, false
	return s.bounds
}

func (s *Station) layout() {
	start := time.Now()
	f := s.frame()
	s.bounds = s.engine.UpdateBounds(f)
	s.passes++

	s.log.Debug("layout", "area", s.area, "bounds", s.bounds, "columns", f.Map.Len())
	observability.Station().OnLayout(s.opts.ID, s.bounds.Width, s.bounds.Height, time.Since(start))
}

// RequestLayout marks the layout dirty. During a pass the request is
// coalesced into one extra pass.
func (s *Station) RequestLayout() {
	if s.inLayout {
		s.pending = true
		return
	}
	s.dirty = true
}

// Dirty reports whether a layout pass is due.
func (s *Station) Dirty() bool {
	if !s.dirty && s.analyzer.Stale() {
		return true
	}
	return s.dirty
}

// Flush runs one layout pass over the last area if one is due. It reports
// whether a pass ran. Calling it repeatedly without changes is a no-op.
func (s *Station) Flush() bool {
	if s.inLayout || !s.Dirty() {
		return false
	}
	s.UpdateBounds(s.area)
	return true
}

// PreferredSize returns the size the station asks for.
func (s *Station) PreferredSize() tree.Size {
	return s.engine.PreferredSize(s.frame())
}

// PersistentColumns returns a copy of the persistent records, one per
// visible column in index order.
func (s *Station) PersistentColumns() []persist.Column {
	s.sync()
	out := make([]persist.Column, len(s.records))
	for i, rec := range s.records {
		rec.Cells = slices.Clone(rec.Cells)
		rec.HiddenCells = slices.Clone(rec.HiddenCells)
		out[i] = rec
	}
	return out
}

// SetPersistentColumns replaces the persistent records. Records are matched
// to the current columns by content, so stale or partial input falls back
// to preferred sizes instead of failing.
func (s *Station) SetPersistentColumns(records []persist.Column) {
	if !s.opts.KeepSizes {
		return
	}
	m := s.sync()
	s.records, s.dormant = persist.Remap(records, persist.FromMap(m), s.hidden)
	s.RequestLayout()
}

// settled returns the frame of an up-to-date layout, running the pass a
// structural edit or divider change left due.
func (s *Station) settled() bounds.Frame {
	s.Flush()
	return s.frame()
}

// DividerAt hit-tests p against the dividers of the current layout.
func (s *Station) DividerAt(p tree.Point) (bounds.Divider, bool) {
	return s.engine.DividerAt(s.settled(), p)
}

// RatioAt maps a pointer position to a ratio of d.
func (s *Station) RatioAt(d bounds.Divider, p tree.Point) float64 {
	return s.engine.RatioAt(s.settled(), d, p)
}

// PositionAt maps a ratio of d to a pointer coordinate.
func (s *Station) PositionAt(d bounds.Divider, ratio float64) int {
	return s.engine.PositionAt(s.settled(), d, ratio)
}

// Orientation returns the orientation of the split d controls.
func (s *Station) Orientation(d bounds.Divider) tree.Orientation {
	return s.engine.Orientation(s.frame(), d)
}

// ValidateDivider clamps a proposed ratio for d.
func (s *Station) ValidateDivider(d bounds.Divider, ratio float64) float64 {
	return s.engine.Validate(s.settled(), d, ratio)
}

// SetDivider validates ratio and commits it: to the persistent record of
// the region touching the divider when there is one, to the Node's ratio
// otherwise. It returns the validated ratio and requests a layout.
func (s *Station) SetDivider(d bounds.Divider, ratio float64) float64 {
	f := s.settled()
	valid := s.engine.Validate(f, d, ratio)
	recorded := s.engine.Apply(f, d, valid)

	s.log.Debug("divider", "divider", d, "proposed", ratio, "validated", valid, "recorded", recorded)
	observability.Station().OnDivider(s.opts.ID, d.Kind.String(), ratio, valid)
	s.RequestLayout()
	return valid
}

// Drag moves d to the pointer position p.
func (s *Station) Drag(d bounds.Divider, p tree.Point) float64 {
	return s.SetDivider(d, s.RatioAt(d, p))
}

// SetPlacementPreview opens the drag-preview span for req.
func (s *Station) SetPlacementPreview(req span.Request) {
	if s.spans.SetPlacement(req, s.sync()) {
		s.RequestLayout()
	}
}

// ClearPlacementPreview collapses the drag-preview span.
func (s *Station) ClearPlacementPreview() {
	if s.spans.Clear() {
		s.RequestLayout()
	}
}

// Tick advances the preview animation. It reports whether the layout
// changed.
func (s *Station) Tick(elapsed time.Duration) bool {
	if s.spans.Tick(elapsed) {
		s.RequestLayout()
		return true
	}
	return false
}

// ColumnGap returns the current preview space at column boundary i. It
// panics with OUT_OF_RANGE past the last boundary.
func (s *Station) ColumnGap(i int) int {
	s.sync()
	return s.spans.ColumnGap(i)
}

// CellGap returns the current preview space at boundary i of column col.
func (s *Station) CellGap(col, i int) int {
	s.sync()
	return s.spans.CellGap(col, i)
}

// Preview returns the open preview span, if any.
func (s *Station) Preview() (sp span.Span, column, boundary int, ok bool) {
	return s.spans.Active()
}
