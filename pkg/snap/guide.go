package snap

// Orientation is the direction a guide line runs in.
type Orientation string

const (
	// Horizontal guides run left to right and carry a Y position.
	Horizontal Orientation = "horizontal"
	// Vertical guides run top to bottom and carry an X position.
	Vertical Orientation = "vertical"
)

// Kind names the rule family that produced a guide.
type Kind string

const (
	KindEdge         Kind = "edge"
	KindCenter       Kind = "center"
	KindDistribution Kind = "distribution"
	KindSpacing      Kind = "spacing"
	KindGrid         Kind = "grid"
	KindMargin       Kind = "margin"
	KindCanvasEdge   Kind = "canvasEdge"
)

// Edge qualifies canvas guides with the canvas line they follow.
type Edge string

const (
	EdgeNone   Edge = ""
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeCenter Edge = "center"
)

// Guide is a render-only alignment line. Guides are recomputed on every drag
// tick and never persisted.
type Guide struct {
	Orientation Orientation `json:"orientation"`
	Position    float64     `json:"position"`
	Kind        Kind        `json:"kind"`
	SourceID    string      `json:"sourceElementId,omitempty"`
	Edge        Edge        `json:"edgeType,omitempty"`
}

// Color returns the stroke color canvases conventionally use for the guide's
// kind.
func (g Guide) Color() string {
	switch g.Kind {
	case KindEdge:
		return "#ff4444"
	case KindCenter:
		return "#44aaff"
	case KindDistribution:
		return "#44ff44"
	case KindSpacing:
		return "#ffaa44"
	case KindGrid:
		return "#aaaaaa"
	case KindMargin:
		return "#ff44ff"
	case KindCanvasEdge:
		return "#ff8800"
	}
	return "#888888"
}
