// Package pkg provides the core libraries of Sidedock, a layout engine for
// panels docked to one edge of a window.
//
// # Overview
//
// A dock station arranges its panels in a binary split tree. Splits along
// the station's header axis form columns; splits inside a column stack
// cells. Sidedock lays the tree out column by column, validates divider
// drags against minimum sizes, and remembers the sizes the user chose so
// they survive edits to the tree. The pkg directory is organized into:
//
//  1. [tree] - Split tree arena, geometry types and DOT/SVG export
//  2. [columns] - Column and cell classification of a tree
//  3. [persist] - Size records and their remapping across tree edits
//  4. [bounds] - Layout engine and divider validation
//  5. [span] - Animated drop previews
//  6. [station] - Facade tying the above together
//  7. [config], [store] - TOML descriptions and layout persistence
//
// # Architecture
//
// The typical data flow through a station:
//
//	TOML description / edits
//	         ↓
//	    [tree] package (split tree)
//	         ↓
//	    [columns] package (column map)
//	         ↓
//	    [persist] package (size records, remapped per edit)
//	         ↓
//	    [bounds] package (leaf bounds)
//	         ↓
//	    [store] package (saved sizes)
//
// # Quick Start
//
// Build a station and drag its column divider:
//
//	import (
//	    "github.com/matzehuels/sidedock/pkg/station"
//	    "github.com/matzehuels/sidedock/pkg/tree"
//	)
//
//	t := tree.New()
//	files := t.NewLeaf(1, tree.Size{Width: 200, Height: 400}, tree.Size{Width: 50, Height: 50})
//	outline := t.NewLeaf(2, tree.Size{Width: 150, Height: 400}, tree.Size{Width: 50, Height: 50})
//	t.SetRootChild(t.NewNode(tree.Horizontal, 0.5, files, outline))
//
//	st := station.New(t, station.DefaultOptions())
//	st.UpdateBounds(tree.Rect{Width: 800, Height: 600})
//	st.Flush()
//
//	if d, ok := st.DividerAt(tree.Point{X: 202, Y: 10}); ok {
//	    st.Drag(d, tree.Point{X: 250, Y: 10})
//	    st.Flush()
//	}
//
// # Testing
//
//	go test ./pkg/...
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/sidedock/pkg/tree
// [columns]: https://pkg.go.dev/github.com/matzehuels/sidedock/pkg/columns
// [persist]: https://pkg.go.dev/github.com/matzehuels/sidedock/pkg/persist
// [bounds]: https://pkg.go.dev/github.com/matzehuels/sidedock/pkg/bounds
// [span]: https://pkg.go.dev/github.com/matzehuels/sidedock/pkg/span
// [station]: https://pkg.go.dev/github.com/matzehuels/sidedock/pkg/station
// [config]: https://pkg.go.dev/github.com/matzehuels/sidedock/pkg/config
// [store]: https://pkg.go.dev/github.com/matzehuels/sidedock/pkg/store
package pkg
