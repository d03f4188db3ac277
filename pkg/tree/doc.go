// Package tree provides the split tree a dock station lays its panels out
// in, along with the pixel geometry types shared by the layout packages.
//
// # Structure
//
// A [Tree] is an arena of nodes addressed by [Handle]. There is exactly one
// Root, which holds at most one child. Nodes split their area between two
// children along an [Orientation] at a ratio in [0,1]. Leaves hold one
// piece of content, identified by a host-assigned [ContentID], together with
// its preferred and minimum size. Placeholders remember where removed
// content used to live so it can come back to the same slot via
// [Tree.Reclaim].
//
// Leaves can be hidden without leaving the tree. A Node with one hidden
// child gives its whole area to the other; see [Tree.Visible] and
// [Tree.BothVisible].
//
// # Versioning
//
// Structural edits bump [Tree.Version]. Ratio and bounds updates do not, so
// derived data such as the column map can be cached per version while
// dragging.
//
// # Geometry
//
// [Side] names the window edge a station is docked to and derives the
// header axis (along which columns sit) and the column axis (along which
// cells stack). [Rect], [Size] and [Point] carry pixel values and offer
// axis-generic accessors so layout code can be written once for both axes.
//
// # Export
//
// [Tree.ToDOT] and [Tree.RenderSVG] render the tree structure with Graphviz
// for debugging.
package tree
