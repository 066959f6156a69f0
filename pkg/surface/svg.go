package surface

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// SVGOption configures SVG output.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	skip       map[Layer]bool
	scale      float64
	fontFamily string
}

// WithoutLayers omits whole layers, e.g. the grid and overlay for a clean
// export.
func WithoutLayers(layers ...Layer) SVGOption {
	return func(r *svgRenderer) {
		for _, l := range layers {
			r.skip[l] = true
		}
	}
}

// WithExportOnly drops everything the editor draws on top of the content.
func WithExportOnly() SVGOption {
	return WithoutLayers(LayerGrid, LayerMargin, LayerSelection, LayerHandle, LayerBand, LayerGuide)
}

// WithZoomedSize sets the SVG width and height to the scene's on-screen
// size instead of the canvas size.
func WithZoomedSize() SVGOption { return func(r *svgRenderer) { r.scale = -1 } }

// WithFontFamily overrides the text font.
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }

// RenderSVG writes a scene as a standalone SVG document.
func RenderSVG(s Scene, opts ...SVGOption) []byte {
	r := svgRenderer{skip: make(map[Layer]bool), scale: 1, fontFamily: "Helvetica, Arial, sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}
	w, h := s.Width, s.Height
	if r.scale < 0 && s.Zoom > 0 {
		w, h = w*s.Zoom/100, h*s.Zoom/100
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		s.Width, s.Height, w, h, escapeXML(r.fontFamily))

	for _, p := range s.Items {
		if r.skip[p.Layer] {
			continue
		}
		writePrimitive(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writePrimitive(buf *bytes.Buffer, p Primitive) {
	switch p.Op {
	case OpRect:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"`, p.X, p.Y, p.W, p.H)
		if p.Radius > 0 {
			fmt.Fprintf(buf, ` rx="%.1f"`, p.Radius)
		}
		writePaint(buf, p)
		buf.WriteString("/>\n")
	case OpLine:
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"`, p.X, p.Y, p.X2, p.Y2)
		writePaint(buf, p)
		buf.WriteString("/>\n")
	case OpText:
		anchor := p.Anchor
		if anchor == "" {
			anchor = AnchorStart
		}
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="%s"`, p.X, p.Y, p.FontSize, anchor)
		if p.Bold {
			buf.WriteString(` font-weight="bold"`)
		}
		writePaint(buf, p)
		fmt.Fprintf(buf, ">%s</text>\n", escapeXML(p.Text))
	}
}

func writePaint(buf *bytes.Buffer, p Primitive) {
	fill := p.Fill
	if fill == "" || fill == TransparentBgColor {
		fill = "none"
	}
	fmt.Fprintf(buf, ` fill="%s"`, escapeXML(fill))
	if p.Stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%.2f"`, escapeXML(p.Stroke), p.StrokeWidth)
	}
	if p.Dash != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, escapeXML(p.Dash))
	}
	if p.Opacity > 0 && p.Opacity < 1 {
		fmt.Fprintf(buf, ` fill-opacity="%.2f"`, p.Opacity)
	}
	if p.ElementID != "" {
		fmt.Fprintf(buf, ` data-element="%s"`, escapeXML(p.ElementID))
	}
	if p.Layer != "" && p.Layer != LayerElement {
		fmt.Fprintf(buf, ` class="%s"`, strings.ToLower(string(p.Layer)))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
