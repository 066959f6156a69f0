package snap

import (
	"slices"

	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
)

// MinDistribute is the smallest selection that can be evenly distributed.
const MinDistribute = 3

// Placement is a new top-left position for an element.
type Placement struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Distribute spaces targets evenly along one axis. The first and last
// rectangles (by position along the axis) keep their place and the gaps
// between neighbors are equalized. Placements come back in axis order.
// Fewer than [MinDistribute] targets are returned unchanged with no guides.
func Distribute(targets []Target, dir Orientation) ([]Placement, []Guide) {
	if len(targets) < MinDistribute {
		out := make([]Placement, len(targets))
		for i, t := range targets {
			out[i] = Placement{ID: t.ID, X: t.X, Y: t.Y}
		}
		return out, nil
	}

	sorted := slices.Clone(targets)
	pos := func(t Target) float64 { return t.X }
	size := func(t Target) float64 { return t.W }
	if dir == Vertical {
		pos = func(t Target) float64 { return t.Y }
		size = func(t Target) float64 { return t.H }
	}
	slices.SortStableFunc(sorted, func(a, b Target) int {
		switch {
		case pos(a) < pos(b):
			return -1
		case pos(a) > pos(b):
			return 1
		}
		return 0
	})

	first, last := sorted[0], sorted[len(sorted)-1]
	span := pos(last) + size(last) - pos(first)
	var occupied float64
	for _, t := range sorted {
		occupied += size(t)
	}
	gap := (span - occupied) / float64(len(sorted)-1)

	placements := make([]Placement, 0, len(sorted))
	guides := make([]Guide, 0, len(sorted))
	cur := pos(first)
	for _, t := range sorted {
		p := Placement{ID: t.ID, X: t.X, Y: t.Y}
		if dir == Vertical {
			p.Y = cur
			guides = append(guides, hguide(cur+t.H/2, KindDistribution))
		} else {
			p.X = cur
			guides = append(guides, vguide(cur+t.W/2, KindDistribution))
		}
		placements = append(placements, p)
		cur += size(t) + gap
	}
	return placements, guides
}

// ShouldDistribute reports whether distribution guides apply while movingID
// is dragged with the given selection: at least three elements, all of the
// same type, with the moving element among them.
func ShouldDistribute(selected []Target, movingID string) bool {
	if len(selected) < MinDistribute {
		return false
	}
	found := false
	for _, t := range selected {
		if t.Type != selected[0].Type {
			return false
		}
		if t.ID == movingID {
			found = true
		}
	}
	return found
}

// AlignEdge selects the line [Align] lines a selection up against.
type AlignEdge string

const (
	AlignLeft    AlignEdge = "left"
	AlignRight   AlignEdge = "right"
	AlignTop     AlignEdge = "top"
	AlignBottom  AlignEdge = "bottom"
	AlignCenterX AlignEdge = "center-x"
	AlignCenterY AlignEdge = "center-y"
)

// ParseAlignEdge converts a user-supplied name into an AlignEdge.
func ParseAlignEdge(s string) (AlignEdge, bool) {
	switch e := AlignEdge(s); e {
	case AlignLeft, AlignRight, AlignTop, AlignBottom, AlignCenterX, AlignCenterY:
		return e, true
	}
	return "", false
}

// Align moves every target so the chosen side (or center) matches the
// selection's bounding box, and returns the guide drawn along that line.
// Placements keep the input order. Fewer than two targets are a no-op.
func Align(targets []Target, edge AlignEdge) ([]Placement, []Guide) {
	out := make([]Placement, len(targets))
	for i, t := range targets {
		out[i] = Placement{ID: t.ID, X: t.X, Y: t.Y}
	}
	if len(targets) < 2 {
		return out, nil
	}

	rects := make([]geometry.Rect, len(targets))
	for i, t := range targets {
		rects[i] = t.Rect
	}
	b, _ := geometry.Bounds(rects)

	var g Guide
	for i, t := range targets {
		switch edge {
		case AlignLeft:
			out[i].X = b.Left()
			g = vguide(b.Left(), KindEdge)
		case AlignRight:
			out[i].X = b.Right() - t.W
			g = vguide(b.Right(), KindEdge)
		case AlignTop:
			out[i].Y = b.Top()
			g = hguide(b.Top(), KindEdge)
		case AlignBottom:
			out[i].Y = b.Bottom() - t.H
			g = hguide(b.Bottom(), KindEdge)
		case AlignCenterX:
			out[i].X = b.CenterX() - t.W/2
			g = vguide(b.CenterX(), KindCenter)
		case AlignCenterY:
			out[i].Y = b.CenterY() - t.H/2
			g = hguide(b.CenterY(), KindCenter)
		default:
			return out, nil
		}
	}
	return out, []Guide{g}
}
