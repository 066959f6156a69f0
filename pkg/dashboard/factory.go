package dashboard

import (
	"math"
	"strings"

	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
)

// Element types with their own default payload. Any other type is treated
// as a chart.
const (
	TypeTitle = "title"
	TypeText  = "text"
	TypeImage = "image"
	TypeVideo = "video"
	TypeAudio = "audio"
)

// defaultSize is the 16:9 footprint of a newly dropped chart.
var defaultSize = geometry.Size{W: 480, H: 270}

// NewElement builds an element of the given type centered on the drop
// point, clamped so it starts inside the canvas. The payload carries the
// defaults a freshly dropped component expects.
func NewElement(elementType string, drop geometry.Point) Element {
	elementType = strings.ToLower(strings.TrimSpace(elementType))
	size := defaultSize
	payload := map[string]any{
		"opacity":         100.0,
		"showLegend":      true,
		"showGrid":        false,
		"showTooltip":     true,
		"animation":       true,
		"transparent":     true,
		"backgroundColor": "transparent",
		KeyIsPreviewing:   false,
	}

	switch elementType {
	case TypeTitle:
		size = geometry.Size{W: 480, H: 120}
		payload["content"] = "Title"
		payload["headingLevel"] = "h1"
		payload["textColor"] = "#ffffff"
		payload["fontSize"] = 32.0
		payload["fontWeight"] = "bold"
		payload["textAlign"] = "center"
	case TypeText:
		size = geometry.Size{W: 400, H: 200}
		payload["content"] = "Text"
		payload["textColor"] = "#000000"
		payload["backgroundColor"] = "#ffffff"
		payload["fontSize"] = 14.0
		payload["fontWeight"] = "normal"
		payload["textAlign"] = "left"
	case TypeImage:
		payload["imageUrl"] = ""
		payload["alt"] = "Image"
	case TypeVideo:
		size = geometry.Size{W: 640, H: 360}
		payload["videoUrl"] = ""
		payload["autoplay"] = false
		payload["controls"] = true
		payload["muted"] = false
	case TypeAudio:
		size = geometry.Size{W: 480, H: 120}
		payload["audioUrl"] = ""
		payload["autoplay"] = false
		payload["controls"] = true
	default:
		payload[KeyTitle] = chartLabel(elementType)
		payload[KeyData] = defaultSeries()
	}

	return Element{
		ID:      NewID(elementType),
		Type:    elementType,
		X:       math.Max(0, drop.X-size.W/2),
		Y:       math.Max(0, drop.Y-size.H/2),
		Width:   size.W,
		Height:  size.H,
		Payload: payload,
	}
}

// chartLabel turns "bar-chart" into "Bar Chart".
func chartLabel(t string) string {
	if t == "" {
		return "Chart"
	}
	words := strings.FieldsFunc(t, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func defaultSeries() []any {
	names := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	values := []float64{120, 200, 150, 80, 70}
	out := make([]any, len(names))
	for i := range names {
		out[i] = map[string]any{"name": names[i], "value": values[i]}
	}
	return out
}
