package surface

import (
	"bytes"
	"fmt"
	"os/exec"
)

// RenderPNG rasterizes a scene through its SVG form. Scale 2.0 produces a
// 2x image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(s Scene, scale float64, opts ...SVGOption) ([]byte, error) {
	return rsvgConvert(RenderSVG(s, opts...), "png", "-z", fmt.Sprintf("%.2f", scale))
}

// RenderPDF converts a scene to PDF through its SVG form.
func RenderPDF(s Scene, opts ...SVGOption) ([]byte, error) {
	return rsvgConvert(RenderSVG(s, opts...), "pdf")
}

func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
