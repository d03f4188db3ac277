package station

import (
	"testing"
	"time"

	"github.com/matzehuels/sidedock/pkg/bounds"
	"github.com/matzehuels/sidedock/pkg/observability"
	"github.com/matzehuels/sidedock/pkg/span"
	"github.com/matzehuels/sidedock/pkg/tree"
)

var area = tree.Rect{Width: 800, Height: 600}

func size(w, h int) tree.Size { return tree.Size{Width: w, Height: h} }

// columnsOf builds one column per width, side by side, content IDs 1..n.
func columnsOf(widths ...int) (*tree.Tree, []tree.Handle) {
	tr := tree.New()
	leaves := make([]tree.Handle, len(widths))
	for i, w := range widths {
		leaves[i] = tr.NewLeaf(tree.ContentID(i+1), size(w, 300), size(50, 50))
	}
	sub := leaves[len(leaves)-1]
	for i := len(leaves) - 2; i >= 0; i-- {
		sub = tr.NewNode(tree.Horizontal, 0.5, leaves[i], sub)
	}
	tr.SetRootChild(sub)
	return tr, leaves
}

func sizes(st *Station) []int {
	var out []int
	for _, rec := range st.PersistentColumns() {
		out = append(out, rec.Effective())
	}
	return out
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPreferredSize(t *testing.T) {
	tr, _ := columnsOf(100, 150, 200)
	st := New(tr, DefaultOptions())
	if got := st.PreferredSize().Width; got != 458 {
		t.Errorf("preferred width = %d, want 458", got)
	}
}

func TestRemoveOnlyLeafOfMiddleColumn(t *testing.T) {
	tr, _ := columnsOf(100, 150, 200)
	st := New(tr, DefaultOptions())
	st.UpdateBounds(area)

	root := tr.Child(tr.Root())
	st.SetDivider(bounds.NodeDivider(root), (120.0+2)/458)
	st.Flush()

	if err := st.Remove(2, false); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	m := st.Columns()
	if m.Len() != 2 {
		t.Fatalf("columns = %d, want 2", m.Len())
	}
	for i, c := range m.Columns() {
		if c.Index != i {
			t.Errorf("column %d has index %d", i, c.Index)
		}
	}
	if got := sizes(st); !equal(got, []int{120, 200}) {
		t.Errorf("sizes = %v, want [120 200]", got)
	}
}

func TestSetDividerRouting(t *testing.T) {
	t.Run("records", func(t *testing.T) {
		tr, _ := columnsOf(100, 150)
		st := New(tr, DefaultOptions())
		st.UpdateBounds(area)

		root := tr.Child(tr.Root())
		got := st.SetDivider(bounds.NodeDivider(root), (30.0+2)/254)
		if want := 52.0 / 254; got != want {
			t.Errorf("validated = %v, want %v", got, want)
		}
		if s := sizes(st); !equal(s, []int{50, 150}) {
			t.Errorf("sizes = %v, want [50 150]", s)
		}
		st.Flush()
		if w := tr.Bounds(tr.Left(root)).Width; w != 50 {
			t.Errorf("column 0 width = %d, want 50", w)
		}
	})

	t.Run("ratio", func(t *testing.T) {
		tr, _ := columnsOf(100, 150)
		opts := DefaultOptions()
		opts.KeepSizes = false
		st := New(tr, opts)
		st.UpdateBounds(area)

		root := tr.Child(tr.Root())
		st.SetDivider(bounds.NodeDivider(root), 0.3)
		if got := tr.Ratio(root); got != 0.3 {
			t.Errorf("ratio = %v, want 0.3", got)
		}
		if n := len(st.PersistentColumns()); n != 0 {
			t.Errorf("records = %d, want none", n)
		}
		st.Flush()
		if w := tr.Bounds(tr.Left(root)).Width; w != 238 {
			t.Errorf("left width = %d, want 238", w)
		}
	})
}

func TestDropNewColumnKeepsOtherSizes(t *testing.T) {
	tr, leaves := columnsOf(100, 150)
	st := New(tr, DefaultOptions())
	st.UpdateBounds(area)
	st.SetDivider(bounds.NodeDivider(tr.Child(tr.Root())), (120.0+2)/254)

	req := span.Request{Target: leaves[0], Side: span.AfterHeader, Size: size(80, 300)}
	st.SetPlacementPreview(req)
	if _, _, _, ok := st.Preview(); !ok {
		t.Fatal("preview not open")
	}
	if _, err := st.Drop(req, 9, size(80, 300), size(40, 40)); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	if _, _, _, ok := st.Preview(); ok {
		t.Error("preview still open after drop")
	}
	if got := sizes(st); !equal(got, []int{120, 80, 150}) {
		t.Errorf("sizes = %v, want [120 80 150]", got)
	}
}

func TestSetDividerAfterDropWithoutLayout(t *testing.T) {
	tr, leaves := columnsOf(100, 150)
	st := New(tr, DefaultOptions())
	st.UpdateBounds(area)

	req := span.Request{Target: leaves[1], Side: span.AfterHeader}
	if _, err := st.Drop(req, 9, size(120, 300), size(40, 40)); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if !st.Dirty() {
		t.Fatal("station not dirty after drop")
	}

	split := tr.Parent(tr.LeafOf(9))
	if v := st.ValidateDivider(bounds.NodeDivider(split), 0); v <= 0 {
		t.Errorf("ValidateDivider = %v, want a ratio keeping column 1 at its minimum", v)
	}
	got := st.SetDivider(bounds.NodeDivider(split), 0)
	if want := (50.0 + 2) / 274; got != want {
		t.Errorf("validated = %v, want %v", got, want)
	}
	if s := sizes(st); !equal(s, []int{100, 50, 120}) {
		t.Errorf("sizes = %v, want [100 50 120]", s)
	}
	st.Flush()
	if w := tr.Bounds(leaves[1]).Width; w != 50 {
		t.Errorf("column 1 width = %d, want 50", w)
	}
}

func TestDividerAtSeesStructuralEdit(t *testing.T) {
	tr, leaves := columnsOf(100, 150)
	st := New(tr, DefaultOptions())
	st.UpdateBounds(area)

	if err := st.Remove(tr.Content(leaves[0]), false); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// Before the edit x=101 was the strip between columns 0 and 1.
	if d, ok := st.DividerAt(tree.Point{X: 101, Y: 10}); ok {
		t.Errorf("DividerAt = %v after removing column 0, want none", d)
	}
	if d, ok := st.DividerAt(tree.Point{X: 152, Y: 10}); !ok || d != bounds.ColumnEnd() {
		t.Errorf("DividerAt = %v, %v; want trailing column", d, ok)
	}
	if st.Dirty() {
		t.Error("station still dirty after a bounds query")
	}
}

func TestDropMergesColumns(t *testing.T) {
	tr, leaves := columnsOf(100, 150)
	st := New(tr, DefaultOptions())

	recs := st.PersistentColumns()
	recs[0].Size, recs[1].Size = 300, 200
	st.SetPersistentColumns(recs)

	req := span.Request{Target: leaves[0], Side: span.AfterColumn}
	if _, err := st.Drop(req, 2, size(150, 300), size(50, 50)); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if got := sizes(st); !equal(got, []int{300}) {
		t.Errorf("sizes = %v, want [300]", got)
	}
	if n := len(st.Columns().Column(0).Cells); n != 2 {
		t.Errorf("cells = %d, want 2", n)
	}
}

func TestDropIntoEmptyStation(t *testing.T) {
	st := New(tree.New(), DefaultOptions())
	if _, err := st.Drop(span.Request{Target: st.Tree().Root()}, 1, size(100, 100), size(10, 10)); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if got := sizes(st); !equal(got, []int{100}) {
		t.Errorf("sizes = %v, want [100]", got)
	}
}

func TestDropErrors(t *testing.T) {
	tr, leaves := columnsOf(100, 150)
	st := New(tr, DefaultOptions())

	if _, err := st.Drop(span.Request{Target: 999}, 7, size(1, 1), size(1, 1)); err == nil {
		t.Error("expected error for unknown target")
	}
	if _, err := st.Drop(span.Request{Target: leaves[0]}, 1, size(1, 1), size(1, 1)); err == nil {
		t.Error("expected error for dropping content onto itself")
	}
	if err := st.Remove(42, false); err == nil {
		t.Error("expected error for unknown content")
	}
}

func TestHiddenColumnKeepsSize(t *testing.T) {
	tr, _ := columnsOf(100, 150, 200)
	st := New(tr, DefaultOptions())

	recs := st.PersistentColumns()
	recs[1].Size = 222
	st.SetPersistentColumns(recs)

	if err := st.SetVisible(2, false); err != nil {
		t.Fatal(err)
	}
	if got := sizes(st); !equal(got, []int{100, 200}) {
		t.Errorf("hidden: sizes = %v, want [100 200]", got)
	}
	if err := st.SetVisible(2, true); err != nil {
		t.Fatal(err)
	}
	if got := sizes(st); !equal(got, []int{100, 222, 200}) {
		t.Errorf("shown: sizes = %v, want [100 222 200]", got)
	}
}

func TestPlaceholderRestoresSize(t *testing.T) {
	tr, _ := columnsOf(100, 150)
	st := New(tr, DefaultOptions())

	recs := st.PersistentColumns()
	recs[0].Size = 180
	st.SetPersistentColumns(recs)

	if err := st.Remove(1, true); err != nil {
		t.Fatal(err)
	}
	if got := st.ColumnCount(); got != 1 {
		t.Errorf("columns = %d, want 1", got)
	}
	if err := st.Restore(1, size(100, 300), size(50, 50)); err != nil {
		t.Fatal(err)
	}
	if got := sizes(st); !equal(got, []int{180, 150}) {
		t.Errorf("sizes = %v, want [180 150]", got)
	}
	if err := st.Restore(1, size(1, 1), size(1, 1)); err == nil {
		t.Error("expected error restoring without placeholder")
	}
}

func TestPersistentRoundTrip(t *testing.T) {
	tr, _ := columnsOf(100, 150, 200)
	st := New(tr, DefaultOptions())
	recs := st.PersistentColumns()
	recs[0].Size, recs[2].Size = 111, 333
	recs[1].Cells[0].Size = 444
	st.SetPersistentColumns(recs)
	saved := st.PersistentColumns()

	tr2, _ := columnsOf(100, 150, 200)
	st2 := New(tr2, DefaultOptions())
	st2.SetPersistentColumns(saved)

	got := st2.PersistentColumns()
	for i := range saved {
		if got[i].Size != saved[i].Size {
			t.Errorf("column %d size = %d, want %d", i, got[i].Size, saved[i].Size)
		}
		for j := range saved[i].Cells {
			if got[i].Cells[j].Size != saved[i].Cells[j].Size {
				t.Errorf("cell %d/%d size = %d, want %d", i, j, got[i].Cells[j].Size, saved[i].Cells[j].Size)
			}
		}
	}
}

func TestPlacementPreviewWidensStation(t *testing.T) {
	tr, leaves := columnsOf(100, 150)
	st := New(tr, DefaultOptions())
	st.UpdateBounds(area)

	st.SetPlacementPreview(span.Request{Target: leaves[0], Side: span.AfterHeader, Size: size(80, 50)})
	if got := st.ColumnGap(1); got != 80 {
		t.Errorf("ColumnGap(1) = %d, want 80", got)
	}
	if got := st.PreferredSize().Width; got != 334 {
		t.Errorf("preferred width = %d, want 334", got)
	}
	st.Flush()
	if got := tr.Bounds(leaves[1]).X; got != 184 {
		t.Errorf("column 1 X = %d, want 184", got)
	}

	st.ClearPlacementPreview()
	if got := st.PreferredSize().Width; got != 254 {
		t.Errorf("preferred width after clear = %d, want 254", got)
	}
}

func TestAnimatedPreview(t *testing.T) {
	tr, leaves := columnsOf(100, 150)
	opts := DefaultOptions()
	opts.SpanDuration = 100 * time.Millisecond
	st := New(tr, opts)
	st.UpdateBounds(area)

	st.SetPlacementPreview(span.Request{Target: leaves[1], Side: span.AfterHeader, Size: size(60, 50)})
	if !st.Tick(50 * time.Millisecond) {
		t.Fatal("Tick reported no change")
	}
	if got := st.ColumnGap(2); got != 30 {
		t.Errorf("ColumnGap(2) = %d, want 30", got)
	}
	if !st.Flush() {
		t.Error("Flush did not run after Tick")
	}
}

type layoutHook struct {
	observability.NoopStationHooks
	fn func()
}

func (h *layoutHook) OnLayout(string, int, int, time.Duration) { h.fn() }

func TestReentrantLayoutCoalesces(t *testing.T) {
	tr, _ := columnsOf(100, 150)
	st := New(tr, DefaultOptions())

	remaining := 1
	observability.SetStationHooks(&layoutHook{fn: func() {
		if remaining > 0 {
			remaining--
			st.RequestLayout()
			st.UpdateBounds(area)
			st.RequestLayout()
		}
	}})
	defer observability.Reset()

	st.UpdateBounds(area)
	if got := st.Passes(); got != 2 {
		t.Errorf("passes = %d, want 2", got)
	}
	if st.Dirty() {
		t.Error("station still dirty after coalesced pass")
	}
}

func TestFlushIdempotent(t *testing.T) {
	tr, _ := columnsOf(100, 150)
	st := New(tr, DefaultOptions())
	st.UpdateBounds(area)

	if st.Flush() {
		t.Error("Flush ran without changes")
	}
	if err := st.SetVisible(1, false); err != nil {
		t.Fatal(err)
	}
	if !st.Flush() {
		t.Error("Flush did not run after a structural change")
	}
	if st.Flush() {
		t.Error("second Flush ran")
	}
}

func TestDividerAtThroughStation(t *testing.T) {
	tr, _ := columnsOf(100, 150)
	st := New(tr, DefaultOptions())
	st.UpdateBounds(area)

	d, ok := st.DividerAt(tree.Point{X: 256, Y: 100})
	if !ok || d != bounds.ColumnEnd() {
		t.Fatalf("DividerAt = %v, %v; want trailing column", d, ok)
	}
	st.Drag(d, tree.Point{X: 300, Y: 100})
	if got := sizes(st); !equal(got, []int{100, 194}) {
		t.Errorf("sizes = %v, want [100 194]", got)
	}
}
