package persist

import (
	"testing"

	"github.com/matzehuels/sidedock/pkg/columns"
	"github.com/matzehuels/sidedock/pkg/tree"
)

func cell(size, preferred int, contents ...tree.ContentID) Cell {
	return Cell{Content: contents[0], Contents: contents, Size: size, Preferred: preferred, Minimum: 10}
}

func column(size, preferred int, cells ...Cell) Column {
	return Column{Size: size, Preferred: preferred, Minimum: 10, Cells: cells}
}

// fresh clears the sizes of records, as FromMap leaves them.
func fresh(cols ...Column) []Column {
	for i := range cols {
		cols[i].Size = 0
		for j := range cols[i].Cells {
			cols[i].Cells[j].Size = 0
		}
	}
	return cols
}

func noneHidden(tree.ContentID) bool { return false }

func TestEffective(t *testing.T) {
	if got := (Cell{Size: 0, Preferred: 80}).Effective(); got != 80 {
		t.Errorf("cell Effective = %d, want preferred 80", got)
	}
	if got := (Cell{Size: 120, Preferred: 80}).Effective(); got != 120 {
		t.Errorf("cell Effective = %d, want 120", got)
	}
	if got := (Column{Size: -1, Preferred: 50}).Effective(); got != 50 {
		t.Errorf("column Effective = %d, want 50", got)
	}
}

func TestExtents(t *testing.T) {
	c := column(0, 100, cell(150, 100, 1), cell(0, 60, 2), cell(40, 60, 3))
	if got := c.Extent(4); got != 150+60+40+8 {
		t.Errorf("Extent = %d", got)
	}
	if got := c.MinimumExtent(4); got != 30+8 {
		t.Errorf("MinimumExtent = %d", got)
	}
	if got := (Column{}).Extent(4); got != 0 {
		t.Errorf("empty Extent = %d", got)
	}
}

func TestRemapColumns(t *testing.T) {
	tests := []struct {
		name  string
		old   []Column
		fresh []Column
		want  []int
	}{
		{
			name:  "unchanged keeps size",
			old:   []Column{column(180, 100, cell(0, 100, 1))},
			fresh: fresh(column(0, 100, cell(0, 100, 1))),
			want:  []int{180},
		},
		{
			name:  "new column starts at preferred",
			old:   []Column{column(180, 100, cell(0, 100, 1))},
			fresh: fresh(column(0, 100, cell(0, 100, 1)), column(0, 70, cell(0, 100, 2))),
			want:  []int{180, 70},
		},
		{
			name:  "split carries the size to both halves",
			old:   []Column{column(180, 100, cell(0, 100, 1), cell(0, 100, 2))},
			fresh: fresh(column(0, 90, cell(0, 100, 1)), column(0, 90, cell(0, 100, 2))),
			want:  []int{180, 180},
		},
		{
			name:  "grown column takes the larger of preferred and old",
			old:   []Column{column(80, 80, cell(0, 100, 1))},
			fresh: fresh(column(0, 120, cell(0, 100, 1), cell(0, 100, 2))),
			want:  []int{120},
		},
		{
			name:  "grown column keeps a larger old size",
			old:   []Column{column(200, 80, cell(0, 100, 1))},
			fresh: fresh(column(0, 120, cell(0, 100, 1), cell(0, 100, 2))),
			want:  []int{200},
		},
		{
			name: "merge keeps the largest",
			old: []Column{
				column(150, 100, cell(0, 100, 1)),
				column(250, 100, cell(0, 100, 2)),
			},
			fresh: fresh(column(0, 100, cell(0, 100, 1), cell(0, 100, 2))),
			want:  []int{250},
		},
		{
			name:  "no records",
			old:   nil,
			fresh: fresh(column(0, 90, cell(0, 100, 1))),
			want:  []int{90},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live, dormant := Remap(tt.old, tt.fresh, noneHidden)
			if len(dormant) != 0 {
				t.Errorf("dormant = %v, want none", dormant)
			}
			if len(live) != len(tt.want) {
				t.Fatalf("live = %d columns, want %d", len(live), len(tt.want))
			}
			for i, want := range tt.want {
				if live[i].Size != want {
					t.Errorf("column %d size = %d, want %d", i, live[i].Size, want)
				}
			}
		})
	}
}

func TestRemapCells(t *testing.T) {
	old := []Column{
		column(100, 100, cell(300, 100, 1), cell(0, 100, 2)),
		column(100, 100, cell(50, 100, 3)),
	}
	// 3 moved into the first column, 2 left.
	live, _ := Remap(old, fresh(column(0, 100, cell(0, 100, 1), cell(0, 100, 3), cell(0, 40, 4))), noneHidden)

	want := []int{300, 50, 40}
	for i, w := range want {
		if got := live[0].Cells[i].Size; got != w {
			t.Errorf("cell %d size = %d, want %d", i, got, w)
		}
	}
}

func TestRemapHiddenContent(t *testing.T) {
	hidden := map[tree.ContentID]bool{2: true}
	isHidden := func(c tree.ContentID) bool { return hidden[c] }

	old := []Column{column(160, 100, cell(0, 100, 1), cell(220, 100, 2))}
	live, dormant := Remap(old, fresh(column(0, 100, cell(0, 100, 1))), isHidden)
	if len(dormant) != 0 {
		t.Fatalf("dormant = %v, want none", dormant)
	}
	if live[0].Size != 160 {
		t.Errorf("size = %d, want 160", live[0].Size)
	}
	if len(live[0].HiddenCells) != 1 || live[0].HiddenCells[0].Size != 220 {
		t.Fatalf("hidden cells = %+v", live[0].HiddenCells)
	}

	// Show 2 again: its cell size comes back from the hidden record.
	hidden[2] = false
	again, _ := Remap(live, fresh(column(0, 100, cell(0, 100, 1), cell(0, 100, 2))), isHidden)
	if got := again[0].Cells[1].Size; got != 220 {
		t.Errorf("restored cell size = %d, want 220", got)
	}
	if again[0].Size != 160 {
		t.Errorf("restored column size = %d, want 160", again[0].Size)
	}
}

func TestRemapDormant(t *testing.T) {
	hidden := map[tree.ContentID]bool{2: true}
	isHidden := func(c tree.ContentID) bool { return hidden[c] }

	old := []Column{
		column(120, 100, cell(0, 100, 1)),
		column(240, 100, cell(0, 100, 2)),
	}
	live, dormant := Remap(old, fresh(column(0, 100, cell(0, 100, 1))), isHidden)
	if len(live) != 1 || len(dormant) != 1 {
		t.Fatalf("live = %d, dormant = %d, want 1 and 1", len(live), len(dormant))
	}
	if dormant[0].Size != 240 || len(dormant[0].Cells) != 0 {
		t.Errorf("dormant = %+v", dormant[0])
	}

	// Once 2 shows up again as its own column, the dormant size returns.
	hidden[2] = false
	records := append(live, dormant...)
	back, rest := Remap(records, fresh(column(0, 100, cell(0, 100, 1)), column(0, 100, cell(0, 100, 2))), isHidden)
	if len(rest) != 0 {
		t.Errorf("dormant after show = %v", rest)
	}
	if back[1].Size != 240 {
		t.Errorf("column size = %d, want 240", back[1].Size)
	}
}

func TestFromMap(t *testing.T) {
	tr := tree.New()
	a := tr.NewLeaf(1, tree.Size{Width: 100, Height: 200}, tree.Size{Width: 50, Height: 60})
	b := tr.NewLeaf(2, tree.Size{Width: 150, Height: 120}, tree.Size{Width: 70, Height: 40})
	c := tr.NewLeaf(3, tree.Size{Width: 130, Height: 80}, tree.Size{Width: 60, Height: 40})
	tr.SetRootChild(tr.NewNode(tree.Horizontal, 0.5, a, tr.NewNode(tree.Vertical, 0.5, b, c)))

	recs := FromMap(columns.Build(tr, tree.Left, 4))
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if r := recs[1]; r.Size != 0 || r.Preferred != 150 || r.Minimum != 70 {
		t.Errorf("column 1 = %+v", r)
	}
	if got := recs[1].Cells[1]; got.Content != 3 || got.Preferred != 80 || got.Minimum != 40 {
		t.Errorf("cell = %+v", got)
	}
	if Find(recs, 3) != 1 || Find(recs, 9) != -1 {
		t.Error("Find wrong")
	}
}
