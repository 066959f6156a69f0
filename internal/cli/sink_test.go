package cli

import (
	"strings"
	"testing"

	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

func identityGrid(cols, rows int) *cellGrid {
	return newCellGrid(cols, rows, surface.Viewport{Zoom: 100})
}

func TestCellGridBox(t *testing.T) {
	g := identityGrid(20, 6)
	g.draw(surface.Scene{Items: []surface.Primitive{
		{Op: surface.OpRect, Layer: surface.LayerElement, X: 0, Y: 0, W: 80, H: 48},
	}})

	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, '┌'},
		{9, 0, '┐'},
		{0, 2, '└'},
		{9, 2, '┘'},
		{4, 0, '─'},
		{0, 1, '│'},
		{4, 1, ' '},
		{10, 0, ' '},
	}
	for _, tt := range tests {
		if got := g.at(tt.x, tt.y).r; got != tt.want {
			t.Errorf("cell(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCellGridLines(t *testing.T) {
	g := identityGrid(30, 6)
	g.draw(surface.Scene{Items: []surface.Primitive{
		{Op: surface.OpRect, Layer: surface.LayerElement, X: 0, Y: 0, W: 80, H: 48},
		{Op: surface.OpLine, Layer: surface.LayerGrid, X: 0, Y: 16, X2: 160, Y2: 16},
		{Op: surface.OpLine, Layer: surface.LayerGuide, X: 200, Y: 0, X2: 200, Y2: 48, Stroke: "#ff00ff"},
	}})

	if got := g.at(0, 1).r; got != '│' {
		t.Errorf("grid overwrote element border: cell(0, 1) = %q", got)
	}
	if got := g.at(12, 1).r; got != '·' {
		t.Errorf("grid cell(12, 1) = %q, want '·'", got)
	}
	for y := 0; y <= 3; y++ {
		c := g.at(25, y)
		if c.r != '│' || c.fg != "#ff00ff" {
			t.Errorf("guide cell(25, %d) = %q %s, want '│' #ff00ff", y, c.r, c.fg)
		}
	}
}

func TestCellGridText(t *testing.T) {
	tests := []struct {
		anchor string
		x      int
	}{
		{surface.AnchorStart, 5},
		{surface.AnchorMiddle, 4},
		{surface.AnchorEnd, 2},
	}
	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			g := identityGrid(12, 3)
			g.draw(surface.Scene{Items: []surface.Primitive{
				{Op: surface.OpText, Layer: surface.LayerElement, X: 40, Y: 24, FontSize: 16, Text: "abc", Anchor: tt.anchor},
			}})
			var got strings.Builder
			for x := tt.x; x < tt.x+3; x++ {
				got.WriteRune(g.at(x, 1).r)
			}
			if got.String() != "abc" {
				t.Errorf("text at column %d = %q, want %q", tt.x, got.String(), "abc")
			}
		})
	}
}

func TestCellGridBackground(t *testing.T) {
	g := identityGrid(4, 2)
	g.draw(surface.Scene{Items: []surface.Primitive{
		{Op: surface.OpRect, Layer: surface.LayerBackground, W: 16, H: 16, Fill: "#f0f0f0"},
	}})
	if got := g.at(1, 0).bg; got != "#f0f0f0" {
		t.Errorf("bg = %q, want #f0f0f0", got)
	}
	if got := g.at(2, 0).bg; got != "" {
		t.Errorf("bg outside canvas = %q, want empty", got)
	}

	g = identityGrid(4, 2)
	g.draw(surface.Scene{Items: []surface.Primitive{
		{Op: surface.OpRect, Layer: surface.LayerBackground, W: 16, H: 16, Fill: surface.TransparentBgColor},
	}})
	if got := g.at(0, 0).bg; got != "" {
		t.Errorf("transparent bg = %q, want empty", got)
	}
}

func TestCellGridRender(t *testing.T) {
	g := identityGrid(12, 4)
	g.draw(surface.Scene{Items: []surface.Primitive{
		{Op: surface.OpText, Layer: surface.LayerElement, X: 0, Y: 24, FontSize: 16, Text: "sales"},
	}})
	out := g.render()
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("render has %d newlines, want 3", n)
	}
	if !strings.Contains(out, "sales") {
		t.Errorf("render missing text:\n%s", out)
	}
}

func TestCellGridClipsOutside(t *testing.T) {
	g := identityGrid(2, 2)
	if g.at(-1, 0) != nil || g.at(2, 0) != nil || g.at(0, 2) != nil {
		t.Error("at() outside the grid returned a cell")
	}
	// Must not panic.
	g.draw(surface.Scene{Items: []surface.Primitive{
		{Op: surface.OpRect, Layer: surface.LayerElement, X: -100, Y: -100, W: 500, H: 500},
		{Op: surface.OpText, Layer: surface.LayerElement, X: 10, Y: 10, FontSize: 16, Text: "overflowing"},
	}})
}
