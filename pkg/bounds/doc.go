// Package bounds turns a split tree and its column map into pixel bounds,
// and validates interactive divider drags.
//
// # Layout Modes
//
// An [Engine] lays a [Frame] out in one of two modes:
//
//   - Size-driven, when the frame carries persistent records. Columns are
//     placed one after another from the fixed edge at their effective sizes,
//     and inside each column the leading cells are pinned to their sizes
//     while the trailing cell absorbs whatever is left. Node ratios are
//     rewritten afterwards so pointer mapping matches the drawn layout.
//   - Ratio-driven, when the frame has no records. Every Node splits its
//     rectangle at its ratio: left = trunc(ratio*extent - gap/2).
//
// Both passes truncate to integer pixels, so running them again on
// unchanged input yields identical bounds.
//
// # Dividers
//
// A [Divider] is one of three kinds: the divider of an internal Node, the
// trailing divider after the last cell of a column, or the trailing divider
// past the outermost column. [Engine.DividerAt] hit-tests a point,
// [Engine.RatioAt] and [Engine.PositionAt] map between pointer positions and
// ratios, [Engine.Validate] clamps a proposed ratio against minimum sizes and
// [Engine.Apply] commits it.
//
// Validation protects the side of a divider nearer the fixed edge (or the
// leading side inside a column): the protected regions never shrink below
// their minimum, while growing them is never clamped.
package bounds
