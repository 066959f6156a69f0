package surface

import (
	"fmt"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
)

// Overlay colors.
const (
	SelectionColor = "#2196f3"
	GridColor      = "#e6e6e6"
	MarginColor    = "#b0b8ff"
)

// Frame is everything needed to compose one scene.
type Frame struct {
	Settings Settings
	Zoom     float64
	Theme    string
	Elements []dashboard.Element
	Overlay  Overlay
}

// Compose builds the display list for a frame.
func (r *Registry) Compose(f Frame) Scene {
	zoom := f.Zoom
	if zoom <= 0 {
		zoom = 100
	}
	scale := zoom / 100
	px := 1 / scale

	s := Scene{
		Width:      f.Settings.Width,
		Height:     f.Settings.Height,
		Zoom:       zoom,
		Background: f.Settings.BackgroundColor,
	}
	canvas := geometry.Rect{W: s.Width, H: s.Height}

	// =========================================================================
	// Background, grid, margins
	// =========================================================================

	bg := Rect(canvas, f.Settings.BackgroundColor, "")
	bg.Layer = LayerBackground
	s.Items = append(s.Items, bg)

	if f.Settings.ShowGrid && f.Settings.GridSize > 0 {
		s.Items = append(s.Items, gridLines(f.Settings, px)...)
	}
	if f.Settings.ShowMargins && f.Settings.MarginSize > 0 {
		m := f.Settings.MarginSize
		inset := geometry.Rect{X: m, Y: m, W: s.Width - 2*m, H: s.Height - 2*m}
		if inset.W > 0 && inset.H > 0 {
			p := Rect(inset, "", MarginColor)
			p.Layer = LayerMargin
			p.Dash = "8 4"
			p.StrokeWidth = px
			s.Items = append(s.Items, p)
		}
	}

	// =========================================================================
	// Element bodies
	// =========================================================================

	selected := make(map[string]bool, len(f.Overlay.Selected))
	for _, id := range f.Overlay.Selected {
		selected[id] = true
	}
	for _, i := range dashboard.PaintOrder(f.Elements) {
		el := f.Elements[i]
		b := el.Rect()
		ctx := RenderContext{
			Bounds:   b,
			Zoom:     zoom,
			Screen:   geometry.Size{W: b.W * scale, H: b.H * scale},
			Selected: selected[el.ID],
			Theme:    f.Theme,
		}
		items, _ := r.render(el, ctx)
		for _, p := range items {
			p.ElementID = el.ID
			if p.Layer == "" {
				p.Layer = LayerElement
			}
			s.Items = append(s.Items, p)
		}
	}

	// =========================================================================
	// Selection and handles
	// =========================================================================

	byID := make(map[string]dashboard.Element, len(f.Elements))
	for _, el := range f.Elements {
		byID[el.ID] = el
	}
	for _, id := range f.Overlay.Selected {
		el, ok := byID[id]
		if !ok {
			continue
		}
		o := Rect(el.Rect(), "", SelectionColor)
		o.Layer = LayerSelection
		o.ElementID = id
		o.StrokeWidth = 2 * px
		if el.PositionLocked {
			o.Dash = "4 4"
		}
		s.Items = append(s.Items, o)
	}
	if el, ok := byID[f.Overlay.Primary]; ok && f.Overlay.ShowHandles && !el.PositionLocked {
		for _, h := range Handles {
			p := Rect(HandleRect(el.Rect(), h, scale), "#ffffff", SelectionColor)
			p.Layer = LayerHandle
			p.ElementID = el.ID
			p.StrokeWidth = px
			p.Text = string(h)
			s.Items = append(s.Items, p)
		}
	}

	// =========================================================================
	// Rubber band
	// =========================================================================

	if band := f.Overlay.Band; band != nil {
		p := Rect(*band, SelectionColor, SelectionColor)
		p.Layer = LayerBand
		p.Opacity = 0.1
		p.StrokeWidth = px
		s.Items = append(s.Items, p)

		label := Text(band.Right(), band.Bottom()+16*px, BandLabel(*band), 12*px, SelectionColor)
		label.Layer = LayerBand
		label.Anchor = AnchorEnd
		s.Items = append(s.Items, label)
	}

	// =========================================================================
	// Guides
	// =========================================================================

	for _, g := range f.Overlay.Guides {
		s.Items = append(s.Items, guidePrimitives(g, canvas, px)...)
	}
	return s
}

// BandLabel formats the rubber band's size readout.
func BandLabel(r geometry.Rect) string {
	return fmt.Sprintf("%.0f × %.0f", r.W, r.H)
}

func gridLines(st Settings, px float64) []Primitive {
	var out []Primitive
	for x := st.GridSize; x < st.Width; x += st.GridSize {
		p := Line(x, 0, x, st.Height, GridColor)
		p.Layer = LayerGrid
		p.StrokeWidth = px
		out = append(out, p)
	}
	for y := st.GridSize; y < st.Height; y += st.GridSize {
		p := Line(0, y, st.Width, y, GridColor)
		p.Layer = LayerGrid
		p.StrokeWidth = px
		out = append(out, p)
	}
	return out
}

func guidePrimitives(g snap.Guide, canvas geometry.Rect, px float64) []Primitive {
	var line, label Primitive
	if g.Orientation == snap.Vertical {
		line = Line(g.Position, 0, g.Position, canvas.H, g.Color())
		label = Text(g.Position+4*px, 14*px, fmt.Sprintf("x: %.0f", g.Position), 11*px, g.Color())
	} else {
		line = Line(0, g.Position, canvas.W, g.Position, g.Color())
		label = Text(4*px, g.Position-4*px, fmt.Sprintf("y: %.0f", g.Position), 11*px, g.Color())
	}
	line.Layer, label.Layer = LayerGuide, LayerGuide
	line.StrokeWidth = px
	line.Dash = "4 4"
	return []Primitive{line, label}
}
