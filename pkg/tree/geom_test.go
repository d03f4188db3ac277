package tree

import "testing"

func TestSideAxes(t *testing.T) {
	tests := []struct {
		side     Side
		header   Orientation
		column   Orientation
		reversed bool
	}{
		{Left, Horizontal, Vertical, false},
		{Right, Horizontal, Vertical, true},
		{Top, Vertical, Horizontal, false},
		{Bottom, Vertical, Horizontal, true},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if got := tt.side.HeaderAxis(); got != tt.header {
				t.Errorf("HeaderAxis = %s, want %s", got, tt.header)
			}
			if got := tt.side.ColumnAxis(); got != tt.column {
				t.Errorf("ColumnAxis = %s, want %s", got, tt.column)
			}
			if got := tt.side.Reversed(); got != tt.reversed {
				t.Errorf("Reversed = %v, want %v", got, tt.reversed)
			}
			back, err := ParseSide(tt.side.String())
			if err != nil || back != tt.side {
				t.Errorf("ParseSide(%q) = %v, %v", tt.side.String(), back, err)
			}
		})
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Error("ParseSide(middle) succeeded")
	}
}

func TestParseOrientation(t *testing.T) {
	for in, want := range map[string]Orientation{
		"horizontal": Horizontal,
		"h":          Horizontal,
		"vertical":   Vertical,
		"v":          Vertical,
	} {
		got, err := ParseOrientation(in)
		if err != nil || got != want {
			t.Errorf("ParseOrientation(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOrientation("diagonal"); err == nil {
		t.Error("ParseOrientation(diagonal) succeeded")
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	if r.Start(Horizontal) != 10 || r.Start(Vertical) != 20 {
		t.Error("Start wrong")
	}
	if r.End(Horizontal) != 110 || r.End(Vertical) != 70 {
		t.Error("End wrong")
	}
	if got := r.Slice(Horizontal, 30, 5); got != (Rect{X: 30, Y: 20, Width: 5, Height: 50}) {
		t.Errorf("Slice = %v", got)
	}
	if got := r.Slice(Vertical, 40, 5); got != (Rect{X: 10, Y: 40, Width: 100, Height: 5}) {
		t.Errorf("Slice = %v", got)
	}

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{X: 10, Y: 20}, true},
		{Point{X: 109, Y: 69}, true},
		{Point{X: 110, Y: 20}, false},
		{Point{X: 10, Y: 70}, false},
		{Point{X: 9, Y: 30}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if r.String() != "10,20 100x50" {
		t.Errorf("String = %q", r.String())
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 10}
	if got := a.Union(b); got != (Rect{X: 0, Y: 0, Width: 30, Height: 15}) {
		t.Errorf("Union = %v", got)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty Union = %v", got)
	}
	if got := a.Union(Rect{X: 50, Width: 0, Height: 3}); got != a {
		t.Errorf("Union with empty = %v", got)
	}
}

func TestSizeAxes(t *testing.T) {
	s := Size{Width: 3, Height: 7}
	if s.Along(Horizontal) != 3 || s.Across(Horizontal) != 7 {
		t.Error("Along/Across wrong")
	}
	if got := SizeOf(Vertical, 7, 3); got != s {
		t.Errorf("SizeOf = %v", got)
	}
	if (Point{X: 4, Y: 9}).Along(Vertical) != 9 {
		t.Error("Point.Along wrong")
	}
}
