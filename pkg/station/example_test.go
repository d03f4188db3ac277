package station_test

import (
	"fmt"

	"github.com/matzehuels/sidedock/pkg/bounds"
	"github.com/matzehuels/sidedock/pkg/station"
	"github.com/matzehuels/sidedock/pkg/tree"
)

func Example() {
	t := tree.New()
	files := t.NewLeaf(1, tree.Size{Width: 100, Height: 300}, tree.Size{Width: 50, Height: 50})
	outline := t.NewLeaf(2, tree.Size{Width: 150, Height: 300}, tree.Size{Width: 50, Height: 50})
	split := t.NewNode(tree.Horizontal, 0.5, files, outline)
	t.SetRootChild(split)

	st := station.New(t, station.DefaultOptions())
	st.UpdateBounds(tree.Rect{Width: 800, Height: 600})
	fmt.Println("columns:", st.ColumnCount())
	fmt.Println("preferred width:", st.PreferredSize().Width)

	// Shrinking the first column below its minimum is clamped.
	st.SetDivider(bounds.NodeDivider(split), 32.0/254)
	st.Flush()
	for _, rec := range st.PersistentColumns() {
		fmt.Println("size:", rec.Effective())
	}
	// Output:
	// columns: 2
	// preferred width: 254
	// size: 50
	// size: 150
}
