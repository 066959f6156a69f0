package surface

import "github.com/zwdscn-cloud/JFreports/pkg/geometry"

// Viewport maps between screen and canvas space.
type Viewport struct {
	Zoom   float64        `json:"zoom"`   // percent
	Pan    geometry.Point `json:"pan"`    // screen pixels
	Origin geometry.Point `json:"origin"` // surface top-left on screen
}

// Scale returns zoom as a factor.
func (v Viewport) Scale() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom / 100
}

// ScreenToCanvas converts a screen point to canvas space.
func (v Viewport) ScreenToCanvas(p geometry.Point) geometry.Point {
	s := v.Scale()
	return geometry.Point{
		X: (p.X - v.Origin.X - v.Pan.X) / s,
		Y: (p.Y - v.Origin.Y - v.Pan.Y) / s,
	}
}

// CanvasToScreen converts a canvas point to screen space.
func (v Viewport) CanvasToScreen(p geometry.Point) geometry.Point {
	s := v.Scale()
	return geometry.Point{
		X: p.X*s + v.Origin.X + v.Pan.X,
		Y: p.Y*s + v.Origin.Y + v.Pan.Y,
	}
}

// ScreenDistance converts a screen-space length to canvas space.
func (v Viewport) ScreenDistance(d float64) float64 {
	return d / v.Scale()
}
