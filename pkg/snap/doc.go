// Package snap computes snapped positions and alignment guides for a
// rectangle being dragged across a dashboard canvas.
//
// # Overview
//
// [Compute] is a pure function: given the candidate (unsnapped) rectangle of
// the element under the pointer, the rectangles of every other element, the
// canvas size and an [Options] bag, it returns the snapped top-left corner
// and the list of [Guide] lines the canvas should draw. It holds no state and
// is called once per pointer-move tick.
//
// # Rule Order
//
// Rules run in a fixed order and each one may overwrite the X or Y result
// independently; axes are never coupled:
//
//  1. Canvas edges, canvas center and the quarter lines (CanvasEdgeThreshold)
//  2. Grid: X and Y rounded to the nearest GridSize multiple
//  3. Margins: edges inset by MarginSize from the canvas bounds
//  4. Canvas center (SnapThreshold)
//  5. Sibling edges and centers: the first match per axis wins within this rule
//  6. Equal spacing between the moving rectangle and a pair of siblings
//
// A later rule overrides an earlier one on the same axis. Every rule that
// matches contributes guides, so the result shows every alignment in range
// even when the coordinate ended up taken from a later rule.
//
// Distance tests are inclusive: a candidate exactly SnapThreshold away snaps.
//
// # Distribution
//
// [Distribute] spaces three or more rectangles evenly along one axis while
// keeping the outermost two in place. [Align] lines a selection up against
// one side (or the center) of its bounding box.
package snap
