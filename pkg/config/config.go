// Package config reads and writes station descriptions in TOML.
//
// A description names the docking side, the gap, the area offered by the
// host and the shape of the split tree:
//
//	side = "left"
//	gap = 4
//	keep_sizes = true
//
//	[area]
//	width = 800
//	height = 600
//
//	[root]
//	orientation = "horizontal"
//	ratio = 0.5
//
//	  [root.left]
//	  content = 1
//	  label = "files"
//	  preferred = [100, 300]
//	  minimum = [50, 50]
//
//	  [root.right]
//	  content = 2
//	  preferred = [150, 300]
//	  minimum = [40, 50]
//
// Leaves carry content; Nodes carry an orientation, a ratio and both
// children. A leaf may be hidden, or a placeholder remembering content that
// left its slot.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/sidedock/pkg/bounds"
	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/station"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// Policy names accepted by trailing_policy.
const (
	PolicyUnconstrained = "unconstrained"
	PolicyKeepMinimum   = "keep-minimum"
)

// Station is a station description.
type Station struct {
	ID             string `toml:"id,omitempty"`
	Side           string `toml:"side"`
	Gap            *int   `toml:"gap,omitempty"`
	KeepSizes      *bool  `toml:"keep_sizes,omitempty"`
	TrailingPolicy string `toml:"trailing_policy,omitempty"`
	SpanMillis     int    `toml:"span_ms,omitempty"`
	Area           Area   `toml:"area"`
	Root           *Node  `toml:"root,omitempty"`
}

// Area is the rectangle the host offers the station.
type Area struct {
	X      int `toml:"x,omitempty"`
	Y      int `toml:"y,omitempty"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Rect returns the area as a rectangle.
func (a Area) Rect() tree.Rect {
	return tree.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}

// Node describes one tree node: a Node when Left and Right are set, a Leaf
// or Placeholder otherwise. Sizes are [width, height].
type Node struct {
	Orientation string   `toml:"orientation,omitempty"`
	Ratio       *float64 `toml:"ratio,omitempty"`
	Left        *Node    `toml:"left,omitempty"`
	Right       *Node    `toml:"right,omitempty"`

	Content     int64  `toml:"content,omitempty"`
	Label       string `toml:"label,omitempty"`
	Preferred   []int  `toml:"preferred,omitempty"`
	Minimum     []int  `toml:"minimum,omitempty"`
	Hidden      bool   `toml:"hidden,omitempty"`
	Placeholder bool   `toml:"placeholder,omitempty"`
}

func (n *Node) isLeaf() bool { return n.Left == nil && n.Right == nil }

// Load reads and validates a station description from path.
func Load(path string) (*Station, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse station %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a station description. A missing ID is
// replaced by a random one.
func Parse(data []byte) (*Station, error) {
	var s Station
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode TOML")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the description without building anything.
func (s *Station) Validate() error {
	if err := errors.ValidateStationID(s.ID); err != nil {
		return err
	}
	if _, err := tree.ParseSide(s.side()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "side")
	}
	if err := errors.ValidateGap(s.gap()); err != nil {
		return err
	}
	switch s.TrailingPolicy {
	case "", PolicyUnconstrained, PolicyKeepMinimum:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown trailing_policy %q", s.TrailingPolicy)
	}
	if s.Area.Width < 0 || s.Area.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "negative area %dx%d", s.Area.Width, s.Area.Height)
	}
	if s.Root == nil {
		return nil
	}
	return s.Root.validate("root", make(map[int64]bool))
}

func (n *Node) validate(path string, seen map[int64]bool) error {
	if n.isLeaf() {
		if n.Content <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: content must be a positive ID", path)
		}
		if seen[n.Content] {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: duplicate content %d", path, n.Content)
		}
		seen[n.Content] = true
		for name, sz := range map[string][]int{"preferred": n.Preferred, "minimum": n.Minimum} {
			if sz != nil && (len(sz) != 2 || sz[0] < 0 || sz[1] < 0) {
				return errors.New(errors.ErrCodeInvalidConfig, "%s: %s must be [width, height]", path, name)
			}
		}
		return nil
	}

	if n.Left == nil || n.Right == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: a split needs both left and right", path)
	}
	if _, err := tree.ParseOrientation(n.Orientation); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: orientation", path)
	}
	if err := errors.ValidateRatio(n.ratio()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	if err := n.Left.validate(path+".left", seen); err != nil {
		return err
	}
	return n.Right.validate(path+".right", seen)
}

func (s *Station) side() string {
	if s.Side == "" {
		return tree.Left.String()
	}
	return s.Side
}

func (s *Station) gap() int {
	if s.Gap == nil {
		return station.DefaultGap
	}
	return *s.Gap
}

func (n *Node) ratio() float64 {
	if n.Ratio == nil {
		return 0.5
	}
	return *n.Ratio
}

// Options returns the station options the description selects.
func (s *Station) Options() station.Options {
	side, _ := tree.ParseSide(s.side())
	opts := station.Options{
		ID:           s.ID,
		Side:         side,
		Gap:          s.gap(),
		KeepSizes:    s.KeepSizes == nil || *s.KeepSizes,
		SpanDuration: time.Duration(s.SpanMillis) * time.Millisecond,
	}
	if s.TrailingPolicy == PolicyKeepMinimum {
		opts.Policy = bounds.KeepMinimum
	}
	opts.SetDefaults()
	return opts
}

// Tree builds the split tree. Labels maps content to the leaf labels.
func (s *Station) Tree() (*tree.Tree, map[tree.ContentID]string) {
	t := tree.New()
	labels := make(map[tree.ContentID]string)
	if s.Root != nil {
		t.SetRootChild(s.Root.build(t, labels))
	}
	return t, labels
}

func (n *Node) build(t *tree.Tree, labels map[tree.ContentID]string) tree.Handle {
	if n.isLeaf() {
		c := tree.ContentID(n.Content)
		if n.Label != "" {
			labels[c] = n.Label
		}
		if n.Placeholder {
			return t.NewPlaceholder(c)
		}
		h := t.NewLeaf(c, sizeOf(n.Preferred), sizeOf(n.Minimum))
		if n.Hidden {
			t.SetVisible(h, false)
		}
		return h
	}
	o, _ := tree.ParseOrientation(n.Orientation)
	return t.NewNode(o, n.ratio(), n.Left.build(t, labels), n.Right.build(t, labels))
}

func sizeOf(v []int) tree.Size {
	if len(v) != 2 {
		return tree.Size{}
	}
	return tree.Size{Width: v[0], Height: v[1]}
}

// Build creates a station from the description.
func (s *Station) Build() (*station.Station, map[tree.ContentID]string) {
	t, labels := s.Tree()
	return station.New(t, s.Options()), labels
}

// FromStation describes a live station, so an edited tree can be written
// back. Leaf sizes come from the tree; labels may be nil.
func FromStation(st *station.Station, area tree.Rect, labels map[tree.ContentID]string) *Station {
	opts := st.Options()
	gap := opts.Gap
	keep := opts.KeepSizes
	s := &Station{
		ID:         opts.ID,
		Side:       opts.Side.String(),
		Gap:        &gap,
		KeepSizes:  &keep,
		SpanMillis: int(opts.SpanDuration / time.Millisecond),
		Area:       Area{X: area.X, Y: area.Y, Width: area.Width, Height: area.Height},
	}
	t := st.Tree()
	if child := t.Child(t.Root()); child != tree.Nil {
		s.Root = describe(t, child, labels)
	}
	return s
}

func describe(t *tree.Tree, h tree.Handle, labels map[tree.ContentID]string) *Node {
	switch t.Kind(h) {
	case tree.KindNode:
		r := t.Ratio(h)
		return &Node{
			Orientation: t.Orientation(h).String(),
			Ratio:       &r,
			Left:        describe(t, t.Left(h), labels),
			Right:       describe(t, t.Right(h), labels),
		}
	case tree.KindPlaceholder:
		c := t.Content(h)
		return &Node{Content: int64(c), Label: labels[c], Placeholder: true}
	}
	c := t.Content(h)
	p, m := t.Preferred(h), t.Minimum(h)
	return &Node{
		Content:   int64(c),
		Label:     labels[c],
		Preferred: []int{p.Width, p.Height},
		Minimum:   []int{m.Width, m.Height},
		Hidden:    !t.Visible(h),
	}
}

// Encode renders the description as TOML.
func (s *Station) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encode station: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the description to path.
func (s *Station) Save(path string) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write station %s: %w", path, err)
	}
	return nil
}
