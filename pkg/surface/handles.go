package surface

import "github.com/zwdscn-cloud/JFreports/pkg/geometry"

// Handle identifies a resize handle on a selected element.
type Handle string

const (
	HandleNone Handle = ""
	HandleN    Handle = "n"
	HandleS    Handle = "s"
	HandleE    Handle = "e"
	HandleW    Handle = "w"
	HandleNE   Handle = "ne"
	HandleNW   Handle = "nw"
	HandleSE   Handle = "se"
	HandleSW   Handle = "sw"
)

// Handles lists all eight handles, corners first.
var Handles = []Handle{HandleNW, HandleNE, HandleSE, HandleSW, HandleN, HandleE, HandleS, HandleW}

// HandleSize is the on-screen edge length of a handle in pixels.
const HandleSize = 8

// West reports whether dragging h moves the left edge.
func (h Handle) West() bool { return h == HandleW || h == HandleNW || h == HandleSW }

// East reports whether dragging h moves the right edge.
func (h Handle) East() bool { return h == HandleE || h == HandleNE || h == HandleSE }

// North reports whether dragging h moves the top edge.
func (h Handle) North() bool { return h == HandleN || h == HandleNE || h == HandleNW }

// South reports whether dragging h moves the bottom edge.
func (h Handle) South() bool { return h == HandleS || h == HandleSE || h == HandleSW }

// Cursor returns the CSS-style cursor name for the handle.
func (h Handle) Cursor() string {
	switch h {
	case HandleN, HandleS:
		return "ns-resize"
	case HandleE, HandleW:
		return "ew-resize"
	case HandleNE, HandleSW:
		return "nesw-resize"
	case HandleNW, HandleSE:
		return "nwse-resize"
	}
	return "default"
}

// HandleRect returns the canvas-space square for handle h on r. Handles
// keep a constant on-screen size, so their canvas size shrinks with zoom.
func HandleRect(r geometry.Rect, h Handle, scale float64) geometry.Rect {
	if scale <= 0 {
		scale = 1
	}
	s := HandleSize / scale
	var cx, cy float64
	switch {
	case h.West():
		cx = r.Left()
	case h.East():
		cx = r.Right()
	default:
		cx = r.CenterX()
	}
	switch {
	case h.North():
		cy = r.Top()
	case h.South():
		cy = r.Bottom()
	default:
		cy = r.CenterY()
	}
	return geometry.Rect{X: cx - s/2, Y: cy - s/2, W: s, H: s}
}

// HandleAt returns the handle of r under canvas point p, or HandleNone.
func HandleAt(r geometry.Rect, p geometry.Point, scale float64) Handle {
	for _, h := range Handles {
		if HandleRect(r, h, scale).Contains(p) {
			return h
		}
	}
	return HandleNone
}
