package tree

import (
	"strings"
	"testing"

	"github.com/matzehuels/sidedock/pkg/errors"
)

var (
	pref = Size{Width: 100, Height: 100}
	mini = Size{Width: 10, Height: 10}
)

// abc builds a | (b / c) and returns the tree and the three leaves.
func abc() (*Tree, Handle, Handle, Handle) {
	t := New()
	a := t.NewLeaf(1, pref, mini)
	b := t.NewLeaf(2, pref, mini)
	c := t.NewLeaf(3, pref, mini)
	t.SetRootChild(t.NewNode(Horizontal, 0.5, a, t.NewNode(Vertical, 0.5, b, c)))
	return t, a, b, c
}

func contents(t *Tree) []ContentID {
	var out []ContentID
	for _, h := range t.Leaves() {
		out = append(out, t.Content(h))
	}
	return out
}

func equal(a, b []ContentID) bool {
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

func TestNew(t *testing.T) {
	tr := New()
	if tr.Len() != 1 {
		t.Errorf("Len = %d, want 1", tr.Len())
	}
	if tr.Kind(tr.Root()) != KindRoot {
		t.Errorf("root kind = %s", tr.Kind(tr.Root()))
	}
	if tr.Child(tr.Root()) != Nil {
		t.Error("new tree has a root child")
	}
	if tr.Visible(tr.Root()) {
		t.Error("empty tree is visible")
	}
}

func TestStructure(t *testing.T) {
	tr, a, b, c := abc()

	if got := contents(tr); !equal(got, []ContentID{1, 2, 3}) {
		t.Errorf("leaves = %v", got)
	}
	top := tr.Child(tr.Root())
	if tr.Parent(a) != top || tr.Parent(top) != tr.Root() {
		t.Error("parent links broken")
	}
	bc := tr.Right(top)
	if tr.Left(bc) != b || tr.Right(bc) != c {
		t.Error("child order broken")
	}
	if tr.Orientation(bc) != Vertical {
		t.Errorf("orientation = %s", tr.Orientation(bc))
	}
	if !tr.BothVisible(top) || tr.BothVisible(a) {
		t.Error("BothVisible wrong")
	}
	if tr.LeafOf(3) != c || tr.LeafOf(9) != Nil {
		t.Error("LeafOf wrong")
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tr, _, _, _ := abc()
	var kinds []string
	tr.Walk(func(h Handle, depth int) bool {
		kinds = append(kinds, tr.Kind(h).String())
		return depth < 1
	})
	want := "root node"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("walk = %q, want %q", got, want)
	}
}

func TestVersionBumps(t *testing.T) {
	tr, a, _, c := abc()
	top := tr.Child(tr.Root())

	tests := []struct {
		name   string
		mutate func()
		bump   bool
	}{
		{"ratio", func() { tr.SetRatio(top, 0.3) }, false},
		{"bounds", func() { tr.SetBounds(a, Rect{Width: 5, Height: 5}) }, false},
		{"hide", func() { tr.SetVisible(c, false) }, true},
		{"hide again", func() { tr.SetVisible(c, false) }, false},
		{"preferred", func() { tr.SetPreferred(a, pref, mini) }, true},
		{"split", func() { tr.Split(a, tr.NewLeaf(4, pref, mini), Vertical, false) }, true},
	}
	for _, tt := range tests {
		before := tr.Version()
		tt.mutate()
		if bumped := tr.Version() != before; bumped != tt.bump {
			t.Errorf("%s: bumped = %v, want %v", tt.name, bumped, tt.bump)
		}
	}
}

func TestSetRatioClamps(t *testing.T) {
	tr, _, _, _ := abc()
	top := tr.Child(tr.Root())
	for _, tt := range []struct{ in, want float64 }{
		{-1, 0},
		{0.25, 0.25},
		{2, 1},
	} {
		tr.SetRatio(top, tt.in)
		if got := tr.Ratio(top); got != tt.want {
			t.Errorf("SetRatio(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		before bool
		want   []ContentID
	}{
		{"after", false, []ContentID{1, 4, 2, 3}},
		{"before", true, []ContentID{4, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, a, _, _ := abc()
			d := tr.NewLeaf(4, pref, mini)
			h := tr.Split(a, d, Vertical, tt.before)
			if tr.Kind(h) != KindNode || tr.Ratio(h) != 0.5 {
				t.Errorf("split node = %s %v", tr.Kind(h), tr.Ratio(h))
			}
			if got := contents(tr); !equal(got, tt.want) {
				t.Errorf("leaves = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitEmptyRoot(t *testing.T) {
	tr := New()
	a := tr.NewLeaf(1, pref, mini)
	if h := tr.Split(tr.Root(), a, Horizontal, false); h != a {
		t.Errorf("Split on empty root = %d, want leaf %d", h, a)
	}
	if tr.Child(tr.Root()) != a {
		t.Error("leaf not attached to root")
	}
}

func TestRemove(t *testing.T) {
	tr, a, b, _ := abc()
	tr.Remove(b, false)
	if got := contents(tr); !equal(got, []ContentID{1, 3}) {
		t.Errorf("leaves = %v", got)
	}
	if tr.Valid(b) {
		t.Error("removed leaf still valid")
	}
	// The sibling replaced the collapsed Node.
	top := tr.Child(tr.Root())
	if tr.Kind(tr.Right(top)) != KindLeaf {
		t.Errorf("right of top = %s, want leaf", tr.Kind(tr.Right(top)))
	}

	tr.Remove(a, false)
	tr.Remove(tr.LeafOf(3), false)
	if tr.Child(tr.Root()) != Nil {
		t.Error("root not empty after removing everything")
	}
}

func TestPlaceholderReclaim(t *testing.T) {
	tr, a, _, _ := abc()
	tr.Remove(a, true)
	if tr.Kind(a) != KindPlaceholder || tr.Visible(a) {
		t.Fatalf("kind = %s", tr.Kind(a))
	}
	if tr.PlaceholderOf(1) != a || tr.LeafOf(1) != Nil {
		t.Error("placeholder lookup wrong")
	}

	bigger := Size{Width: 200, Height: 200}
	if h := tr.Reclaim(1, bigger, mini); h != a {
		t.Fatalf("Reclaim = %d, want %d", h, a)
	}
	if !tr.Visible(a) || tr.Preferred(a) != bigger {
		t.Error("reclaimed leaf not restored")
	}
	if tr.Reclaim(1, pref, mini) != Nil {
		t.Error("second Reclaim found a placeholder")
	}
}

func TestPrune(t *testing.T) {
	tr, a, b, _ := abc()
	tr.Remove(a, true)
	tr.Remove(b, true)
	if n := tr.Prune(); n != 2 {
		t.Errorf("Prune = %d, want 2", n)
	}
	if got := contents(tr); !equal(got, []ContentID{3}) {
		t.Errorf("leaves = %v", got)
	}
	if tr.Len() != 2 {
		t.Errorf("Len = %d, want 2", tr.Len())
	}
}

func TestInvalidHandlePanics(t *testing.T) {
	tr, a, _, _ := abc()

	tests := []struct {
		name string
		fn   func()
	}{
		{"unknown handle", func() { tr.Kind(99) }},
		{"leaf as node", func() { tr.Left(a) }},
		{"attached twice", func() { tr.NewNode(Horizontal, 0.5, a, tr.NewLeaf(5, pref, mini)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, errors.ErrCodeInvalidNode) {
					t.Errorf("recovered %v, want INVALID_NODE", r)
				}
			}()
			tt.fn()
		})
	}
}

func TestToDOT(t *testing.T) {
	tr, a, _, c := abc()
	tr.SetVisible(c, false)
	tr.Remove(a, true)
	dot := tr.ToDOT(map[ContentID]string{2: "outline"})

	for _, want := range []string{
		"digraph SplitTree",
		`label="root"`,
		`label="H 0.50"`,
		`label="outline"`,
		`label="#3", shape=box, style="filled,rounded,dashed"`,
		`label="(#1)"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}
