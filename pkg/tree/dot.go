package tree

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the tree structure.
//
// Node representation:
//   - Root: labeled "root", doublecircle
//   - Node: labeled "H 0.50" / "V 0.50" (orientation and ratio), ellipse
//   - Leaf: labeled with the content label, rounded box; hidden leaves dashed
//   - Placeholder: labeled with the remembered content, dotted box
//
// labels maps content identities to display names; missing entries fall back
// to "#<id>". Pass nil for numeric labels.
func (t *Tree) ToDOT(labels map[ContentID]string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph SplitTree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	t.Walk(func(h Handle, _ int) bool {
		t.writeDOTNode(&buf, h, labels)
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func (t *Tree) writeDOTNode(buf *bytes.Buffer, h Handle, labels map[ContentID]string) {
	n := &t.nodes[h]
	id := fmt.Sprintf("n%d", h)

	switch n.kind {
	case KindRoot:
		fmt.Fprintf(buf, "  %s [label=\"root\", shape=doublecircle];\n", id)
	case KindNode:
		axis := "H"
		if n.orientation == Vertical {
			axis = "V"
		}
		fmt.Fprintf(buf, "  %s [label=\"%s %.2f\", shape=ellipse];\n", id, axis, n.ratio)
	case KindLeaf:
		style := "filled,rounded"
		if !n.visible {
			style = "filled,rounded,dashed"
		}
		fmt.Fprintf(buf, "  %s [label=%q, shape=box, style=%q];\n", id, contentLabel(n.content, labels), style)
	case KindPlaceholder:
		fmt.Fprintf(buf, "  %s [label=%q, shape=box, style=\"dotted\"];\n", id, "("+contentLabel(n.content, labels)+")")
	}

	for _, c := range t.Children(h) {
		fmt.Fprintf(buf, "  %s -> n%d;\n", id, c)
	}
}

func contentLabel(c ContentID, labels map[ContentID]string) string {
	if l, ok := labels[c]; ok && l != "" {
		return l
	}
	return fmt.Sprintf("#%d", c)
}

// RenderSVG renders the tree structure as an SVG image using Graphviz.
//
// Errors are returned if Graphviz cannot initialize, the DOT is malformed,
// or rendering fails.
func (t *Tree) RenderSVG(labels map[ContentID]string) ([]byte, error) {
	dot := t.ToDOT(labels)

	gv, err := graphviz.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(context.Background(), g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render SVG: %w", err)
	}
	return buf.Bytes(), nil
}
