package snap

import (
	"testing"

	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
)

var canvas2k = geometry.Size{W: 2000, H: 2000}

func hasGuide(guides []Guide, want Guide) bool {
	for _, g := range guides {
		if g == want {
			return true
		}
	}
	return false
}

func TestComputeIdentity(t *testing.T) {
	r := geometry.Rect{X: 123.5, Y: 77, W: 200, H: 100}
	got := Compute(r, nil, canvas2k, Options{SnapThreshold: 8})
	if got.X != r.X || got.Y != r.Y {
		t.Errorf("Compute() = (%v, %v), want (%v, %v)", got.X, got.Y, r.X, r.Y)
	}
	if len(got.Guides) != 0 {
		t.Errorf("len(Guides) = %d, want 0", len(got.Guides))
	}
}

func TestComputeThresholdBoundary(t *testing.T) {
	opts := Options{SnapThreshold: 8, ShowEdgeGuides: true}
	sibling := []Target{{ID: "s", Rect: geometry.Rect{X: 500, Y: 1000, W: 100, H: 100}}}

	tests := []struct {
		name  string
		x     float64
		wantX float64
	}{
		{"exactly threshold right", 508, 500},
		{"exactly threshold left", 492, 500},
		{"threshold plus one right", 509, 509},
		{"threshold plus one left", 491, 491},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(geometry.Rect{X: tt.x, Y: 300, W: 100, H: 80}, sibling, canvas2k, opts)
			if got.X != tt.wantX {
				t.Errorf("X = %v, want %v", got.X, tt.wantX)
			}
			if got.Y != 300 {
				t.Errorf("Y = %v, want 300", got.Y)
			}
		})
	}
}

func TestComputeGrid(t *testing.T) {
	opts := Options{SnapThreshold: 8, ShowGridGuides: true, GridSize: 20}
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"both snap", 47, 68, 40, 60},
		{"x out of range", 49, 61, 49, 60},
		{"already aligned", 40, 60, 40, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(geometry.Rect{X: tt.x, Y: tt.y, W: 100, H: 80}, nil, canvas2k, opts)
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("Compute() = (%v, %v), want (%v, %v)", got.X, got.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestComputeGridZeroSizeIgnored(t *testing.T) {
	opts := Options{SnapThreshold: 8, ShowGridGuides: true}
	got := Compute(geometry.Rect{X: 47, Y: 68, W: 10, H: 10}, nil, canvas2k, opts)
	if got.X != 47 || got.Y != 68 {
		t.Errorf("Compute() = (%v, %v), want (47, 68)", got.X, got.Y)
	}
}

func TestComputeCanvasEdge(t *testing.T) {
	got := Compute(geometry.Rect{X: 10, Y: 500, W: 100, H: 80}, nil, canvas2k, DefaultOptions())
	if got.X != 0 {
		t.Errorf("X = %v, want 0", got.X)
	}
	if got.Y != 500 {
		t.Errorf("Y = %v, want 500", got.Y)
	}
	want := Guide{Orientation: Vertical, Position: 0, Kind: KindCanvasEdge, Edge: EdgeLeft}
	if !hasGuide(got.Guides, want) {
		t.Errorf("Guides = %+v, missing %+v", got.Guides, want)
	}
}

func TestComputeCanvasRightAndBottom(t *testing.T) {
	opts := Options{CanvasEdgeSnap: true, CanvasEdgeThreshold: 15}
	got := Compute(geometry.Rect{X: 1890, Y: 1912, W: 100, H: 80}, nil, canvas2k, opts)
	if got.X != 1900 || got.Y != 1920 {
		t.Errorf("Compute() = (%v, %v), want (1900, 1920)", got.X, got.Y)
	}
}

func TestComputeCanvasQuarterLines(t *testing.T) {
	opts := Options{CanvasEdgeSnap: true, CanvasEdgeThreshold: 15}
	// Center 510 is 10px from the quarter line at 500.
	got := Compute(geometry.Rect{X: 460, Y: 1460, W: 100, H: 100}, nil, canvas2k, opts)
	if got.X != 450 {
		t.Errorf("X = %v, want 450", got.X)
	}
	// Center 1510 is 10px from the three-quarter line at 1500.
	if got.Y != 1450 {
		t.Errorf("Y = %v, want 1450", got.Y)
	}
}

func TestComputeMargins(t *testing.T) {
	opts := Options{SnapThreshold: 8, MarginGuides: true, MarginSize: 20}
	got := Compute(geometry.Rect{X: 25, Y: 1815, W: 100, H: 160}, nil, canvas2k, opts)
	if got.X != 20 {
		t.Errorf("X = %v, want 20", got.X)
	}
	// bottom 1975 is 5px from the margin line at 1980
	if got.Y != 1820 {
		t.Errorf("Y = %v, want 1820", got.Y)
	}
}

func TestComputeCanvasCenter(t *testing.T) {
	opts := Options{SnapThreshold: 8, ShowCenterGuides: true}
	got := Compute(geometry.Rect{X: 945, Y: 955, W: 100, H: 100}, nil, canvas2k, opts)
	if got.X != 950 || got.Y != 950 {
		t.Errorf("Compute() = (%v, %v), want (950, 950)", got.X, got.Y)
	}
	if !hasGuide(got.Guides, Guide{Orientation: Vertical, Position: 1000, Kind: KindCenter}) {
		t.Errorf("missing vertical center guide in %+v", got.Guides)
	}
}

func TestComputeLaterRuleOverrides(t *testing.T) {
	sibling := []Target{{ID: "s", Rect: geometry.Rect{X: 12, Y: 900, W: 100, H: 100}}}
	got := Compute(geometry.Rect{X: 5, Y: 500, W: 100, H: 80}, sibling, canvas2k, DefaultOptions())

	if got.X != 12 {
		t.Errorf("X = %v, want 12 (sibling edge beats canvas edge and grid)", got.X)
	}
	for _, want := range []Guide{
		{Orientation: Vertical, Position: 0, Kind: KindCanvasEdge, Edge: EdgeLeft},
		{Orientation: Vertical, Position: 20, Kind: KindGrid},
		{Orientation: Vertical, Position: 12, Kind: KindEdge, SourceID: "s"},
		{Orientation: Vertical, Position: 62, Kind: KindCenter, SourceID: "s"},
	} {
		if !hasGuide(got.Guides, want) {
			t.Errorf("missing guide %+v", want)
		}
	}
}

func TestComputeSiblingFirstMatchWins(t *testing.T) {
	opts := Options{SnapThreshold: 8, ShowEdgeGuides: true}
	others := []Target{
		{ID: "a", Rect: geometry.Rect{X: 103, Y: 1000, W: 50, H: 50}},
		{ID: "b", Rect: geometry.Rect{X: 97, Y: 1200, W: 50, H: 50}},
	}
	got := Compute(geometry.Rect{X: 100, Y: 0, W: 300, H: 80}, others, canvas2k, opts)
	if got.X != 103 {
		t.Errorf("X = %v, want 103", got.X)
	}
	if !hasGuide(got.Guides, Guide{Orientation: Vertical, Position: 97, Kind: KindEdge, SourceID: "b"}) {
		t.Error("guide for second sibling missing")
	}
}

func TestComputeSiblingEdgePairs(t *testing.T) {
	opts := Options{SnapThreshold: 8, ShowEdgeGuides: true}
	sib := []Target{{ID: "s", Rect: geometry.Rect{X: 500, Y: 500, W: 200, H: 100}}}
	tests := []struct {
		name  string
		y     float64
		wantY float64
	}{
		{"top-top", 495, 500},
		{"bottom-bottom", 523, 520},
		{"top-bottom", 604, 600},
		{"bottom-top", 416, 420},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(geometry.Rect{X: 1200, Y: tt.y, W: 100, H: 80}, sib, canvas2k, opts)
			if got.Y != tt.wantY {
				t.Errorf("Y = %v, want %v", got.Y, tt.wantY)
			}
		})
	}
}

func TestComputeSpacing(t *testing.T) {
	opts := Options{SnapThreshold: 8, ShowSpacingGuides: true}
	others := []Target{
		{ID: "a", Rect: geometry.Rect{X: 0, Y: 0, W: 100, H: 100}},
		{ID: "b", Rect: geometry.Rect{X: 150, Y: 0, W: 100, H: 100}},
	}
	got := Compute(geometry.Rect{X: 305, Y: 300, W: 100, H: 100}, others, canvas2k, opts)
	if got.X != 300 {
		t.Errorf("X = %v, want 300", got.X)
	}
	if got.Y != 300 {
		t.Errorf("Y = %v, want 300", got.Y)
	}
	if !hasGuide(got.Guides, Guide{Orientation: Vertical, Position: 250, Kind: KindSpacing, SourceID: "b"}) {
		t.Errorf("missing source spacing guide in %+v", got.Guides)
	}
	if !hasGuide(got.Guides, Guide{Orientation: Vertical, Position: 300, Kind: KindSpacing}) {
		t.Errorf("missing snapped spacing guide in %+v", got.Guides)
	}
}

func TestComputeSpacingLeftSide(t *testing.T) {
	opts := Options{SnapThreshold: 8, ShowSpacingGuides: true}
	others := []Target{
		{ID: "a", Rect: geometry.Rect{X: 500, Y: 0, W: 100, H: 100}},
		{ID: "b", Rect: geometry.Rect{X: 640, Y: 0, W: 100, H: 100}},
	}
	// gap between a and b is 40; moving right edge at 463 leaves a 37px gap.
	got := Compute(geometry.Rect{X: 363, Y: 300, W: 100, H: 100}, others, canvas2k, opts)
	if got.X != 360 {
		t.Errorf("X = %v, want 360", got.X)
	}
}

func TestComputeIdempotent(t *testing.T) {
	others := []Target{
		{ID: "a", Rect: geometry.Rect{X: 200, Y: 200, W: 300, H: 200}},
		{ID: "b", Rect: geometry.Rect{X: 900, Y: 700, W: 240, H: 160}},
	}
	candidates := []geometry.Rect{
		{X: 47, Y: 68, W: 100, H: 80},
		{X: 203, Y: 455, W: 120, H: 90},
		{X: 946, Y: 952, W: 100, H: 100},
		{X: 1502, Y: 704, W: 300, H: 150},
	}
	for _, c := range candidates {
		first := Compute(c, others, canvas2k, DefaultOptions())
		again := Compute(c.MoveTo(geometry.Point{X: first.X, Y: first.Y}), others, canvas2k, DefaultOptions())
		if again.X != first.X || again.Y != first.Y {
			t.Errorf("Compute(%+v) drifted: (%v, %v) then (%v, %v)", c, first.X, first.Y, again.X, again.Y)
		}
	}
}

func TestComputeSettlesAfterChainedSnap(t *testing.T) {
	// The grid pulls 492 to 500, which is within range of the sibling's
	// left edge at 507.
	others := []Target{{ID: "s", Rect: geometry.Rect{X: 507, Y: 1000, W: 100, H: 100}}}
	opts := DefaultOptions()

	tests := []struct {
		name         string
		from         geometry.Rect
		wantX, wantY float64
	}{
		{"off grid", geometry.Rect{X: 492, Y: 303, W: 100, H: 90}, 507, 300},
		{"on grid line", geometry.Rect{X: 500, Y: 300, W: 100, H: 90}, 507, 300},
		{"already aligned", geometry.Rect{X: 507, Y: 300, W: 100, H: 90}, 507, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Compute(tt.from, others, canvas2k, opts)
			if first.X != tt.wantX || first.Y != tt.wantY {
				t.Fatalf("Compute() = (%v, %v), want (%v, %v)", first.X, first.Y, tt.wantX, tt.wantY)
			}
			again := Compute(tt.from.MoveTo(geometry.Point{X: first.X, Y: first.Y}), others, canvas2k, opts)
			if again.X != first.X || again.Y != first.Y {
				t.Errorf("second Compute() = (%v, %v), want (%v, %v)", again.X, again.Y, first.X, first.Y)
			}
			if len(again.Guides) != len(first.Guides) {
				t.Errorf("second Compute() guides = %+v, want %+v", again.Guides, first.Guides)
			}
			if !hasGuide(first.Guides, Guide{Orientation: Vertical, Position: 507, Kind: KindEdge, SourceID: "s"}) {
				t.Errorf("missing sibling edge guide in %+v", first.Guides)
			}
		})
	}
}

func TestResultDelta(t *testing.T) {
	r := Result{X: 40, Y: 60}
	dx, dy := r.Delta(geometry.Rect{X: 47, Y: 68})
	if dx != -7 || dy != -8 {
		t.Errorf("Delta() = (%v, %v), want (-7, -8)", dx, dy)
	}
}
