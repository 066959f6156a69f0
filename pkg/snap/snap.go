package snap

import (
	"math"

	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
)

// Target is a static rectangle the moving element can align against.
type Target struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	geometry.Rect
}

// Result is the outcome of [Compute].
type Result struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Guides []Guide `json:"guides"`
}

// Delta returns the snap correction relative to the candidate rectangle.
// Callers dragging a group apply the same delta to every selected element.
func (r Result) Delta(candidate geometry.Rect) (dx, dy float64) {
	return r.X - candidate.X, r.Y - candidate.Y
}

// maxPasses bounds the search for a fixed point in [Compute].
const maxPasses = 8

// Compute returns the snapped top-left corner of moving and every guide in
// range of that corner. others must not contain the moving element or
// anything dragged along with it. With no others and every canvas family
// disabled the result is the identity.
//
// A snap can bring the rectangle within range of another line, so Compute
// repeats from the snapped position until it stops moving. Snapping the
// result again returns it unchanged.
func Compute(moving geometry.Rect, others []Target, canvas geometry.Size, opts Options) Result {
	cur := moving
	res := computePass(cur, others, canvas, opts)
	for i := 1; i < maxPasses && (res.X != cur.X || res.Y != cur.Y); i++ {
		cur = cur.MoveTo(geometry.Point{X: res.X, Y: res.Y})
		res = computePass(cur, others, canvas, opts)
	}
	return res
}

func computePass(moving geometry.Rect, others []Target, canvas geometry.Size, opts Options) Result {
	s := snapper{m: moving, canvas: canvas, opts: opts, x: moving.X, y: moving.Y}

	if opts.CanvasEdgeSnap {
		s.canvasLines()
	}
	if opts.ShowGridGuides && opts.GridSize > 0 {
		s.grid()
	}
	if opts.MarginGuides {
		s.margins()
	}
	if opts.ShowCenterGuides {
		s.canvasCenter()
	}
	if opts.ShowEdgeGuides || opts.ShowCenterGuides {
		s.siblings(others)
	}
	if opts.ShowSpacingGuides {
		s.spacing(others)
	}

	return Result{X: s.x, Y: s.y, Guides: s.guides}
}

// snapper accumulates per-axis results for one pass. All distances are
// measured from the pass's rectangle m, never from a partially snapped
// position, so rule order only decides which target wins.
type snapper struct {
	m      geometry.Rect
	canvas geometry.Size
	opts   Options

	x, y   float64
	guides []Guide
}

func near(a, b, threshold float64) bool {
	return math.Abs(a-b) <= threshold
}

func (s *snapper) setX(x float64, g Guide) {
	s.x = x
	s.guides = append(s.guides, g)
}

func (s *snapper) setY(y float64, g Guide) {
	s.y = y
	s.guides = append(s.guides, g)
}

func vguide(pos float64, kind Kind) Guide {
	return Guide{Orientation: Vertical, Position: pos, Kind: kind}
}

func hguide(pos float64, kind Kind) Guide {
	return Guide{Orientation: Horizontal, Position: pos, Kind: kind}
}

// =============================================================================
// Canvas rules
// =============================================================================

func (s *snapper) canvasLines() {
	m, w, h := s.m, s.canvas.W, s.canvas.H
	th := s.opts.CanvasEdgeThreshold

	edge := func(g Guide, e Edge) Guide {
		g.Edge = e
		return g
	}

	if near(m.Left(), 0, th) {
		s.setX(0, edge(vguide(0, KindCanvasEdge), EdgeLeft))
	}
	if near(m.Right(), w, th) {
		s.setX(w-m.W, edge(vguide(w, KindCanvasEdge), EdgeRight))
	}
	if near(m.Top(), 0, th) {
		s.setY(0, edge(hguide(0, KindCanvasEdge), EdgeTop))
	}
	if near(m.Bottom(), h, th) {
		s.setY(h-m.H, edge(hguide(h, KindCanvasEdge), EdgeBottom))
	}

	// Center line first, then the quarter lines.
	for _, lx := range [...]float64{w / 2, w / 4, w * 3 / 4} {
		if near(m.CenterX(), lx, th) {
			s.setX(lx-m.W/2, edge(vguide(lx, KindCanvasEdge), EdgeCenter))
		}
	}
	for _, ly := range [...]float64{h / 2, h / 4, h * 3 / 4} {
		if near(m.CenterY(), ly, th) {
			s.setY(ly-m.H/2, edge(hguide(ly, KindCanvasEdge), EdgeCenter))
		}
	}
}

func (s *snapper) grid() {
	g, th := s.opts.GridSize, s.opts.SnapThreshold
	gx := math.Round(s.m.X/g) * g
	gy := math.Round(s.m.Y/g) * g
	if near(s.m.X, gx, th) {
		s.setX(gx, vguide(gx, KindGrid))
	}
	if near(s.m.Y, gy, th) {
		s.setY(gy, hguide(gy, KindGrid))
	}
}

func (s *snapper) margins() {
	m, ms, th := s.m, s.opts.MarginSize, s.opts.SnapThreshold
	right := s.canvas.W - ms
	bottom := s.canvas.H - ms

	if near(m.Left(), ms, th) {
		s.setX(ms, vguide(ms, KindMargin))
	}
	if near(m.Right(), right, th) {
		s.setX(right-m.W, vguide(right, KindMargin))
	}
	if near(m.Top(), ms, th) {
		s.setY(ms, hguide(ms, KindMargin))
	}
	if near(m.Bottom(), bottom, th) {
		s.setY(bottom-m.H, hguide(bottom, KindMargin))
	}
}

func (s *snapper) canvasCenter() {
	cx, cy := s.canvas.W/2, s.canvas.H/2
	th := s.opts.SnapThreshold
	if near(s.m.CenterX(), cx, th) {
		s.setX(cx-s.m.W/2, vguide(cx, KindCenter))
	}
	if near(s.m.CenterY(), cy, th) {
		s.setY(cy-s.m.H/2, hguide(cy, KindCenter))
	}
}

// =============================================================================
// Sibling rules
// =============================================================================

// line pairs an edge of the moving rectangle with a sibling line. target is
// the X or Y the moving rectangle takes when the pair aligns.
type line struct {
	moving, sibling, target float64
	kind                    Kind
}

// siblings applies edge and center alignment. Within this rule the first
// match on an axis sets the coordinate; later matches only add guides.
func (s *snapper) siblings(others []Target) {
	m, th := s.m, s.opts.SnapThreshold
	var xSet, ySet bool

	var xs, ys [5]line
	for _, o := range others {
		n := 0
		if s.opts.ShowEdgeGuides {
			ys[0] = line{m.Top(), o.Top(), o.Top(), KindEdge}
			ys[1] = line{m.Bottom(), o.Bottom(), o.Bottom() - m.H, KindEdge}
			ys[2] = line{m.Top(), o.Bottom(), o.Bottom(), KindEdge}
			ys[3] = line{m.Bottom(), o.Top(), o.Top() - m.H, KindEdge}
			xs[0] = line{m.Left(), o.Left(), o.Left(), KindEdge}
			xs[1] = line{m.Right(), o.Right(), o.Right() - m.W, KindEdge}
			xs[2] = line{m.Left(), o.Right(), o.Right(), KindEdge}
			xs[3] = line{m.Right(), o.Left(), o.Left() - m.W, KindEdge}
			n = 4
		}
		if s.opts.ShowCenterGuides {
			xs[n] = line{m.CenterX(), o.CenterX(), o.CenterX() - m.W/2, KindCenter}
			ys[n] = line{m.CenterY(), o.CenterY(), o.CenterY() - m.H/2, KindCenter}
			n++
		}

		for _, l := range ys[:n] {
			if !near(l.moving, l.sibling, th) {
				continue
			}
			g := hguide(l.sibling, l.kind)
			g.SourceID = o.ID
			if ySet {
				s.guides = append(s.guides, g)
				continue
			}
			s.setY(l.target, g)
			ySet = true
		}
		for _, l := range xs[:n] {
			if !near(l.moving, l.sibling, th) {
				continue
			}
			g := vguide(l.sibling, l.kind)
			g.SourceID = o.ID
			if xSet {
				s.guides = append(s.guides, g)
				continue
			}
			s.setX(l.target, g)
			xSet = true
		}
	}
}

// spacing snaps the moving rectangle so that its gap to a neighbor equals
// the gap between that neighbor and a third element on the opposite side.
// Gaps are signed: only arrangements where the three rectangles are laid out
// in a row, without overlap, produce a reference gap.
func (s *snapper) spacing(others []Target) {
	m, th := s.m, s.opts.SnapThreshold

	for i, el := range others {
		for j, o := range others {
			if i == j || o.ID == el.ID {
				continue
			}

			// o | el | moving
			if ref := el.Left() - o.Right(); ref >= 0 && near(m.Left()-el.Right(), ref, th) {
				x := el.Right() + ref
				g := vguide(el.Right(), KindSpacing)
				g.SourceID = el.ID
				s.setX(x, g)
				s.guides = append(s.guides, vguide(x, KindSpacing))
			}
			// moving | el | o
			if ref := o.Left() - el.Right(); ref >= 0 && near(el.Left()-m.Right(), ref, th) {
				x := el.Left() - m.W - ref
				g := vguide(el.Left(), KindSpacing)
				g.SourceID = el.ID
				s.setX(x, g)
				s.guides = append(s.guides, vguide(x+m.W, KindSpacing))
			}
			// o above el above moving
			if ref := el.Top() - o.Bottom(); ref >= 0 && near(m.Top()-el.Bottom(), ref, th) {
				y := el.Bottom() + ref
				g := hguide(el.Bottom(), KindSpacing)
				g.SourceID = el.ID
				s.setY(y, g)
				s.guides = append(s.guides, hguide(y, KindSpacing))
			}
			// moving above el above o
			if ref := o.Top() - el.Bottom(); ref >= 0 && near(el.Top()-m.Bottom(), ref, th) {
				y := el.Top() - m.H - ref
				g := hguide(el.Top(), KindSpacing)
				g.SourceID = el.ID
				s.setY(y, g)
				s.guides = append(s.guides, hguide(y+m.H, KindSpacing))
			}
		}
	}
}
