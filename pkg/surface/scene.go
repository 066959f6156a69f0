package surface

import (
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
)

// Op is the kind of drawing primitive.
type Op string

const (
	OpRect Op = "rect"
	OpLine Op = "line"
	OpText Op = "text"
)

// Layer tags a primitive with the part of the frame it belongs to. Sinks may
// use it to style or skip whole layers.
type Layer string

const (
	LayerBackground Layer = "background"
	LayerGrid       Layer = "grid"
	LayerMargin     Layer = "margin"
	LayerElement    Layer = "element"
	LayerSelection  Layer = "selection"
	LayerHandle     Layer = "handle"
	LayerBand       Layer = "band"
	LayerGuide      Layer = "guide"
	LayerError      Layer = "error"
)

// Text anchors.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// Primitive is one drawing command in canvas coordinates.
//
// Rects use X, Y, W, H. Lines run from (X, Y) to (X2, Y2). Text is placed
// with its baseline at (X, Y).
type Primitive struct {
	Op          Op      `json:"op"`
	Layer       Layer   `json:"layer"`
	ElementID   string  `json:"elementId,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w,omitempty"`
	H           float64 `json:"h,omitempty"`
	X2          float64 `json:"x2,omitempty"`
	Y2          float64 `json:"y2,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Dash        string  `json:"dash,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
	Text        string  `json:"text,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	Anchor      string  `json:"anchor,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
}

// Rect builds a rectangle primitive.
func Rect(r geometry.Rect, fill, stroke string) Primitive {
	return Primitive{Op: OpRect, X: r.X, Y: r.Y, W: r.W, H: r.H, Fill: fill, Stroke: stroke, StrokeWidth: strokeFor(stroke)}
}

// Line builds a line primitive.
func Line(x1, y1, x2, y2 float64, stroke string) Primitive {
	return Primitive{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Stroke: stroke, StrokeWidth: 1}
}

// Text builds a text primitive.
func Text(x, y float64, s string, size float64, fill string) Primitive {
	return Primitive{Op: OpText, X: x, Y: y, Text: s, FontSize: size, Fill: fill, Anchor: AnchorStart}
}

func strokeFor(stroke string) float64 {
	if stroke == "" {
		return 0
	}
	return 1
}

// Bounds returns the axis-aligned box a primitive covers. Text is
// approximated from its font size.
func (p Primitive) Bounds() geometry.Rect {
	switch p.Op {
	case OpLine:
		return geometry.RectFromPoints(geometry.Point{X: p.X, Y: p.Y}, geometry.Point{X: p.X2, Y: p.Y2})
	case OpText:
		w := float64(len([]rune(p.Text))) * p.FontSize * 0.6
		x := p.X
		switch p.Anchor {
		case AnchorMiddle:
			x -= w / 2
		case AnchorEnd:
			x -= w
		}
		return geometry.Rect{X: x, Y: p.Y - p.FontSize, W: w, H: p.FontSize}
	default:
		return geometry.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
	}
}

// Scene is a composed frame: canvas size, zoom, and primitives in paint
// order.
type Scene struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Zoom       float64     `json:"zoom"`
	Background string      `json:"background"`
	Items      []Primitive `json:"items"`
}

// Layer returns the primitives tagged with l, in paint order.
func (s Scene) Layer(l Layer) []Primitive {
	var out []Primitive
	for _, p := range s.Items {
		if p.Layer == l {
			out = append(out, p)
		}
	}
	return out
}

// ElementItems returns the body primitives of one element.
func (s Scene) ElementItems(id string) []Primitive {
	var out []Primitive
	for _, p := range s.Items {
		if p.ElementID == id && (p.Layer == LayerElement || p.Layer == LayerError) {
			out = append(out, p)
		}
	}
	return out
}

// Overlay is the transient interaction state drawn above element bodies.
type Overlay struct {
	Selected []string       `json:"selected,omitempty"`
	Primary  string         `json:"primary,omitempty"`
	Band     *geometry.Rect `json:"band,omitempty"`
	Guides   []snap.Guide   `json:"guides,omitempty"`
	// ShowHandles draws resize handles on the primary element.
	ShowHandles bool `json:"showHandles,omitempty"`
}
