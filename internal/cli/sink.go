package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

// Screen pixels covered by one terminal cell. The editor feeds the
// controller screen coordinates in these units so drag thresholds and
// handle sizes behave as they would in a window.
const (
	cellWidth  = 8
	cellHeight = 16
)

// cell is one character of the terminal canvas.
type cell struct {
	r    rune
	fg   string
	bg   string
	bold bool
}

// cellGrid rasterizes scene primitives into terminal cells.
type cellGrid struct {
	cols, rows int
	cells      []cell
	view       surface.Viewport
}

func newCellGrid(cols, rows int, view surface.Viewport) *cellGrid {
	g := &cellGrid{cols: max(cols, 0), rows: max(rows, 0), view: view}
	g.cells = make([]cell, g.cols*g.rows)
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

// toCell maps a canvas point to a terminal cell.
func (g *cellGrid) toCell(p geometry.Point) (int, int) {
	s := g.view.CanvasToScreen(p)
	return int(math.Floor(s.X / cellWidth)), int(math.Floor(s.Y / cellHeight))
}

// cellRect maps a canvas rectangle to inclusive cell bounds.
func (g *cellGrid) cellRect(r geometry.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = g.toCell(geometry.Point{X: r.Left(), Y: r.Top()})
	x1, y1 = g.toCell(geometry.Point{X: r.Right(), Y: r.Bottom()})
	return x0, y0, max(x0, x1-1), max(y0, y1-1)
}

func (g *cellGrid) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return nil
	}
	return &g.cells[y*g.cols+x]
}

func (g *cellGrid) set(x, y int, r rune, fg string) {
	if c := g.at(x, y); c != nil {
		c.r, c.fg = r, fg
	}
}

// fillBackground paints the canvas area.
func (g *cellGrid) fillBackground(r geometry.Rect, color string) {
	if color == surface.TransparentBgColor {
		return
	}
	x0, y0, x1, y1 := g.cellRect(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if c := g.at(x, y); c != nil {
				c.bg = color
			}
		}
	}
}

// box draws a rectangle outline with the given edge runes.
func (g *cellGrid) box(r geometry.Rect, fg string, h, v rune, corners [4]rune) {
	x0, y0, x1, y1 := g.cellRect(r)
	if x0 == x1 && y0 == y1 {
		g.set(x0, y0, '▪', fg)
		return
	}
	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, h, fg)
		g.set(x, y1, h, fg)
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, v, fg)
		g.set(x1, y, v, fg)
	}
	g.set(x0, y0, corners[0], fg)
	g.set(x1, y0, corners[1], fg)
	g.set(x0, y1, corners[2], fg)
	g.set(x1, y1, corners[3], fg)
}

var (
	solidCorners = [4]rune{'┌', '┐', '└', '┘'}
	heavyCorners = [4]rune{'┏', '┓', '┗', '┛'}
)

// line plots a horizontal or vertical line; other slopes are stepped.
func (g *cellGrid) line(p surface.Primitive, fg string, onlyEmpty bool) {
	x0, y0 := g.toCell(geometry.Point{X: p.X, Y: p.Y})
	x1, y1 := g.toCell(geometry.Point{X: p.X2, Y: p.Y2})
	r := '│'
	if y0 == y1 {
		r = '─'
	}
	if onlyEmpty {
		r = '·'
	}
	steps := max(abs(x1-x0), abs(y1-y0))
	for i := 0; i <= steps; i++ {
		x, y := x0, y0
		if steps > 0 {
			x = x0 + (x1-x0)*i/steps
			y = y0 + (y1-y0)*i/steps
		}
		if c := g.at(x, y); c != nil && (!onlyEmpty || c.r == ' ') {
			c.r, c.fg = r, fg
		}
	}
}

// text writes s starting at the cell under the baseline point, clipped to
// the grid.
func (g *cellGrid) text(p surface.Primitive, fg string) {
	x, y := g.toCell(geometry.Point{X: p.X, Y: p.Y - p.FontSize/2})
	runes := []rune(p.Text)
	switch p.Anchor {
	case surface.AnchorMiddle:
		x -= len(runes) / 2
	case surface.AnchorEnd:
		x -= len(runes)
	}
	for i, r := range runes {
		if c := g.at(x+i, y); c != nil {
			c.r, c.fg, c.bold = r, fg, p.Bold
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// draw rasterizes every primitive of the scene in paint order.
func (g *cellGrid) draw(s surface.Scene) {
	for _, p := range s.Items {
		switch p.Layer {
		case surface.LayerBackground:
			g.fillBackground(p.Bounds(), p.Fill)
		case surface.LayerGrid:
			g.line(p, string(colorDim), true)
		case surface.LayerMargin:
			g.box(p.Bounds(), p.Stroke, '┄', '┆', solidCorners)
		case surface.LayerElement, surface.LayerError:
			g.element(p)
		case surface.LayerSelection:
			g.box(p.Bounds(), p.Stroke, '━', '┃', heavyCorners)
		case surface.LayerHandle:
			b := p.Bounds()
			x, y := g.toCell(geometry.Point{X: b.CenterX(), Y: b.CenterY()})
			g.set(x, y, '■', p.Stroke)
		case surface.LayerBand:
			if p.Op == surface.OpText {
				g.text(p, p.Fill)
				continue
			}
			g.box(p.Bounds(), p.Stroke, '┄', '┆', solidCorners)
		case surface.LayerGuide:
			if p.Op == surface.OpLine {
				g.line(p, p.Stroke, false)
			}
		}
	}
}

func (g *cellGrid) element(p surface.Primitive) {
	fg := string(colorGray)
	if p.Layer == surface.LayerError {
		fg = string(colorRed)
	}
	switch p.Op {
	case surface.OpRect:
		g.box(p.Bounds(), fg, '─', '│', solidCorners)
	case surface.OpLine:
		g.line(p, fg, false)
	case surface.OpText:
		g.text(p, "")
	}
}

// render joins the grid into styled lines, one style per run of cells that
// share colors.
func (g *cellGrid) render() string {
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		row := g.cells[y*g.cols : (y+1)*g.cols]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].fg == row[start].fg && row[x].bg == row[start].bg && row[x].bold == row[start].bold {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.r)
			}
			b.WriteString(cellStyle(row[start]).Render(run.String()))
			start = x
		}
		if y < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellStyle(c cell) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(c.bold)
	if c.fg != "" {
		st = st.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		st = st.Background(lipgloss.Color(c.bg))
	}
	return st
}
