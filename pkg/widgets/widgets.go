package widgets

import (
	"math"
	"strings"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

// Palette is cycled through for chart series.
var Palette = []string{"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452", "#9a60b4"}

// NewRegistry returns a registry with every built-in renderer. Unknown types
// fall back to the chart renderer.
func NewRegistry(opts ...surface.RegistryOption) *surface.Registry {
	opts = append([]surface.RegistryOption{surface.WithFallback(Chart)}, opts...)
	r := surface.NewRegistry(opts...)
	r.Register(dashboard.TypeTitle, Title)
	r.Register(dashboard.TypeText, Text)
	r.Register(dashboard.TypeImage, Media("image", "imageUrl"))
	r.Register(dashboard.TypeVideo, Media("video", "videoUrl"))
	r.Register(dashboard.TypeAudio, Media("audio", "audioUrl"))
	return r
}

// Title draws the heading text centered in its box.
func Title(el dashboard.Element, ctx surface.RenderContext) ([]surface.Primitive, error) {
	b := ctx.Bounds
	var out []surface.Primitive
	if bg := str(el.Payload, "backgroundColor", ""); bg != "" && bg != "transparent" {
		out = append(out, surface.Rect(b, bg, ""))
	}
	size := num(el.Payload, "fontSize", 32)
	t := surface.Text(0, b.CenterY()+size/3, str(el.Payload, "content", "Title"), size, str(el.Payload, "textColor", "#000000"))
	t.Bold = str(el.Payload, "fontWeight", "") == "bold"
	t.X, t.Anchor = alignX(b.X, b.W, str(el.Payload, "textAlign", "center"))
	return append(out, t), nil
}

// Text draws a paragraph, wrapped to the box width and cut at its height.
func Text(el dashboard.Element, ctx surface.RenderContext) ([]surface.Primitive, error) {
	b := ctx.Bounds
	out := []surface.Primitive{surface.Rect(b, str(el.Payload, "backgroundColor", "#ffffff"), "")}
	size := num(el.Payload, "fontSize", 14)
	lineH := size * 1.4
	color := str(el.Payload, "textColor", "#000000")
	x, anchor := alignX(b.X+8, b.W-16, str(el.Payload, "textAlign", "left"))
	maxChars := int(math.Max(1, (b.W-16)/(size*0.6)))
	y := b.Y + 8 + size
	for _, line := range wrap(str(el.Payload, "content", ""), maxChars) {
		if y > b.Bottom() {
			break
		}
		t := surface.Text(x, y, line, size, color)
		t.Anchor = anchor
		out = append(out, t)
		y += lineH
	}
	return out, nil
}

// Media returns a renderer that draws a framed placeholder showing the
// source URL, or "no <kind>" when none is set.
func Media(kind, urlKey string) surface.RenderFunc {
	return func(el dashboard.Element, ctx surface.RenderContext) ([]surface.Primitive, error) {
		b := ctx.Bounds
		box := surface.Rect(b, "#fafafa", "#d0d0d0")
		box.Radius = 4
		label := str(el.Payload, urlKey, "")
		if label == "" {
			label = "no " + kind
		}
		head := surface.Text(b.CenterX(), b.CenterY()-8, strings.ToUpper(kind), 14, "#888888")
		head.Anchor, head.Bold = surface.AnchorMiddle, true
		src := surface.Text(b.CenterX(), b.CenterY()+12, truncate(label, int(b.W/7)), 11, "#999999")
		src.Anchor = surface.AnchorMiddle
		return []surface.Primitive{box, head, src}, nil
	}
}

// Chart draws the chart title and one bar per data point. Data must be a
// list of objects with a numeric "value" or a list of numbers.
func Chart(el dashboard.Element, ctx surface.RenderContext) ([]surface.Primitive, error) {
	b := ctx.Bounds
	out := []surface.Primitive{surface.Rect(b, str(el.Payload, "backgroundColor", "transparent"), "#e0e0e0")}
	title := el.Title()
	if title != "" {
		t := surface.Text(b.CenterX(), b.Y+20, title, 14, "#333333")
		t.Anchor, t.Bold = surface.AnchorMiddle, true
		out = append(out, t)
	}

	values, err := series(el.Payload[dashboard.KeyData])
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return out, nil
	}
	top := b.Y + 32
	plotH := b.Bottom() - 12 - top
	if plotH <= 0 || ctx.Screen.W < 40 {
		return out, nil
	}
	maxV := 0.0
	for _, v := range values {
		maxV = math.Max(maxV, v)
	}
	if maxV == 0 {
		maxV = 1
	}
	slot := (b.W - 24) / float64(len(values))
	for i, v := range values {
		h := plotH * math.Max(0, v) / maxV
		bar := surface.Rect(rect(b.X+12+float64(i)*slot+slot*0.15, b.Bottom()-12-h, slot*0.7, h), Palette[i%len(Palette)], "")
		out = append(out, bar)
	}
	return out, nil
}
