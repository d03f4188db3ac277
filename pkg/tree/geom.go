package tree

import "fmt"

// Orientation is the axis along which a Node places its two children.
type Orientation uint8

const (
	// Horizontal places the children side by side: left | right.
	Horizontal Orientation = iota
	// Vertical stacks the children: top over bottom.
	Vertical
)

// Other returns the orthogonal orientation.
func (o Orientation) Other() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation parses "horizontal"/"h" or "vertical"/"v".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown orientation %q", s)
}

// Side is the window edge a station is docked to. Columns sit side by side
// along the header axis, starting at that edge.
type Side uint8

const (
	Left Side = iota
	Right
	Top
	Bottom
)

// HeaderAxis returns the axis along which columns are placed.
func (s Side) HeaderAxis() Orientation {
	if s == Top || s == Bottom {
		return Vertical
	}
	return Horizontal
}

// ColumnAxis returns the axis along which the cells of one column stack.
func (s Side) ColumnAxis() Orientation {
	return s.HeaderAxis().Other()
}

// Reversed reports whether the fixed edge is at the far end of the header
// axis, in which case a Node's right child is the one nearer the edge.
func (s Side) Reversed() bool {
	return s == Right || s == Bottom
}

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return "left"
}

// ParseSide parses a side name.
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	}
	return Left, fmt.Errorf("unknown side %q", s)
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// Along returns the extent of s along o.
func (s Size) Along(o Orientation) int {
	if o == Horizontal {
		return s.Width
	}
	return s.Height
}

// Across returns the extent of s orthogonal to o.
func (s Size) Across(o Orientation) int {
	return s.Along(o.Other())
}

// SizeOf builds a Size from extents along and across o.
func SizeOf(o Orientation, along, across int) Size {
	if o == Horizontal {
		return Size{Width: along, Height: across}
	}
	return Size{Width: across, Height: along}
}

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Along returns the coordinate of p along o.
func (p Point) Along(o Orientation) int {
	if o == Horizontal {
		return p.X
	}
	return p.Y
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Size returns the width and height of r.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Start returns the coordinate of r's leading edge along o.
func (r Rect) Start(o Orientation) int {
	if o == Horizontal {
		return r.X
	}
	return r.Y
}

// Extent returns the length of r along o.
func (r Rect) Extent(o Orientation) int {
	if o == Horizontal {
		return r.Width
	}
	return r.Height
}

// End returns the coordinate just past r along o.
func (r Rect) End(o Orientation) int { return r.Start(o) + r.Extent(o) }

// Slice returns the part of r covering [start, start+extent) along o.
func (r Rect) Slice(o Orientation, start, extent int) Rect {
	if o == Horizontal {
		return Rect{X: start, Y: r.Y, Width: extent, Height: r.Height}
	}
	return Rect{X: r.X, Y: start, Width: r.Width, Height: extent}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Union returns the smallest rectangle covering r and o. Empty rectangles
// are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1 := max(r.X+r.Width, o.X+o.Width)
	y1 := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// String formats r as "x,y wxh".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}
