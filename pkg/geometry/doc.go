// Package geometry provides the axis-aligned rectangle and point types shared
// by the snap engine, the interaction controller and the canvas surface.
//
// # Coordinate Space
//
// All values are canvas-space pixels: the origin is the canvas' top-left
// corner, X grows to the right and Y grows downward. Screen-space conversion
// lives in the surface package; nothing in this package knows about zoom.
//
// # Inclusive Bounds
//
// Hit testing and overlap tests treat rectangle edges as part of the
// rectangle. Two rectangles that share only an edge intersect, and a point on
// the right edge is contained. Rubber-band selection relies on this: dragging
// a band exactly up to an element's edge selects it.
//
//	r := geometry.Rect{X: 10, Y: 10, W: 100, H: 80}
//	r.Contains(geometry.Point{X: 110, Y: 90}) // true
//	r.Intersects(geometry.Rect{X: 110, Y: 0, W: 5, H: 5}) // true
package geometry
