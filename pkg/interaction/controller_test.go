package interaction

import (
	"testing"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

func bandFixture(t *testing.T) *harness {
	return newHarness(t, snap.Options{},
		box("e1", 0, 0, 100, 100),
		box("e2", 300, 0, 100, 100),
		box("e3", 600, 0, 100, 100),
		box("e4", 300, 300, 100, 100),
		box("e5", 600, 600, 100, 100),
	)
}

func TestRubberBandSelection(t *testing.T) {
	t.Run("replaces prior selection", func(t *testing.T) {
		h := bandFixture(t)
		h.c.Select("e1")
		h.c.PointerDown(At(250, 50))
		if s := h.c.State(); s != StateSelecting {
			t.Fatalf("State() = %v, want selecting", s)
		}
		h.c.PointerMove(At(450, 350))
		if ov := h.c.Overlay(); ov.Band == nil || *ov.Band != (geometry.Rect{X: 250, Y: 50, W: 200, H: 300}) {
			t.Errorf("Band = %v, want {250 50 200 300}", ov.Band)
		}
		h.c.PointerUp(At(450, 350))

		if got := h.c.Selection(); !sameIDs(got, []string{"e2", "e4"}) {
			t.Errorf("Selection() = %v, want [e2 e4]", got)
		}
		if h.c.State() != StateIdle || h.c.Overlay().Band != nil {
			t.Error("band not cleared after pointer up")
		}
	})

	t.Run("shift unions with prior selection", func(t *testing.T) {
		h := bandFixture(t)
		h.c.Select("e1")
		h.drag(250, 50, 450, 350, ModShift)

		if got := h.c.Selection(); !sameIDs(got, []string{"e1", "e2", "e4"}) {
			t.Errorf("Selection() = %v, want [e1 e2 e4]", got)
		}
	})

	t.Run("touching edge counts", func(t *testing.T) {
		h := bandFixture(t)
		h.drag(150, 50, 300, 80)
		if got := h.c.Selection(); !sameIDs(got, []string{"e2"}) {
			t.Errorf("Selection() = %v, want [e2]", got)
		}
	})

	t.Run("shrinking band drops elements", func(t *testing.T) {
		h := bandFixture(t)
		h.c.PointerDown(At(250, 50))
		h.c.PointerMove(At(450, 350))
		h.c.PointerMove(At(450, 150))
		h.c.PointerUp(At(450, 150))
		if got := h.c.Selection(); !sameIDs(got, []string{"e2"}) {
			t.Errorf("Selection() = %v, want [e2]", got)
		}
	})
}

func TestClickSelection(t *testing.T) {
	h := bandFixture(t)

	h.click(50, 50)
	if got := h.c.Selection(); !sameIDs(got, []string{"e1"}) {
		t.Fatalf("click: Selection() = %v, want [e1]", got)
	}

	h.click(350, 50, ModShift)
	if got := h.c.Selection(); !sameIDs(got, []string{"e1", "e2"}) {
		t.Fatalf("shift-click: Selection() = %v, want [e1 e2]", got)
	}

	h.click(50, 50, ModShift)
	if got := h.c.Selection(); !sameIDs(got, []string{"e2"}) {
		t.Fatalf("shift-click toggle: Selection() = %v, want [e2]", got)
	}

	h.c.Select("e1", "e2")
	h.click(50, 50)
	if got := h.c.Selection(); !sameIDs(got, []string{"e1"}) {
		t.Fatalf("click in group: Selection() = %v, want [e1]", got)
	}

	h.click(1500, 1500)
	if got := h.c.Selection(); len(got) != 0 {
		t.Errorf("click empty: Selection() = %v, want []", got)
	}

	if x, y := h.at(t, "e1"); x != 0 || y != 0 {
		t.Errorf("click moved e1 to (%v, %v)", x, y)
	}
}

func TestDragThreshold(t *testing.T) {
	h := bandFixture(t)
	h.drag(50, 50, 52, 51)

	if x, y := h.at(t, "e1"); x != 0 || y != 0 {
		t.Errorf("sub-threshold move changed position to (%v, %v)", x, y)
	}
	h.settle()
	if h.hist.CanUndo() {
		t.Error("sub-threshold move created a history entry")
	}
}

func TestRigidGroupMove(t *testing.T) {
	tests := []struct {
		name     string
		opts     snap.Options
		to       geometry.Point
		e1, e2   geometry.Point
		wantGrid bool
	}{
		{"no snapping", snap.Options{}, geometry.Point{X: 200, Y: 190}, geometry.Point{X: 150, Y: 140}, geometry.Point{X: 350, Y: 190}, false},
		{"grid snap shifts whole group", snap.DefaultOptions(), geometry.Point{X: 193, Y: 187}, geometry.Point{X: 140, Y: 140}, geometry.Point{X: 340, Y: 190}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.opts,
				box("e1", 100, 100, 100, 100),
				box("e2", 300, 150, 100, 100),
				box("e3", 1000, 1000, 100, 100),
			)
			h.c.Select("e1", "e2")
			h.c.PointerDown(At(150, 150))
			if s := h.c.State(); s != StateDraggingSelection {
				t.Fatalf("State() = %v, want draggingSelection", s)
			}
			h.c.PointerMove(At(170, 160))
			h.c.PointerMove(At(tt.to.X, tt.to.Y))

			x1, y1 := h.at(t, "e1")
			x2, y2 := h.at(t, "e2")
			if (geometry.Point{X: x1, Y: y1}) != tt.e1 {
				t.Errorf("e1 = (%v, %v), want %v", x1, y1, tt.e1)
			}
			if (geometry.Point{X: x2, Y: y2}) != tt.e2 {
				t.Errorf("e2 = (%v, %v), want %v", x2, y2, tt.e2)
			}
			if x2-x1 != 200 || y2-y1 != 50 {
				t.Errorf("relative offset = (%v, %v), want (200, 50)", x2-x1, y2-y1)
			}
			if x3, y3 := h.at(t, "e3"); x3 != 1000 || y3 != 1000 {
				t.Errorf("unselected e3 moved to (%v, %v)", x3, y3)
			}

			hasGrid := false
			for _, g := range h.c.Guides() {
				hasGrid = hasGrid || g.Kind == snap.KindGrid
			}
			if hasGrid != tt.wantGrid {
				t.Errorf("grid guides = %v, want %v", hasGrid, tt.wantGrid)
			}

			h.c.PointerUp(At(tt.to.X, tt.to.Y))
			if len(h.c.Guides()) != 0 {
				t.Error("guides not cleared on pointer up")
			}
		})
	}
}

func TestGroupMoveClampsAtCanvasOrigin(t *testing.T) {
	h := newHarness(t, snap.Options{}, box("e1", 50, 100, 100, 100), box("e2", 300, 40, 100, 100))
	h.c.Select("e1", "e2")
	h.drag(100, 150, 0, 0)

	x1, y1 := h.at(t, "e1")
	x2, y2 := h.at(t, "e2")
	if x1 != 0 || y2 != 0 {
		t.Errorf("group not clamped: e1=(%v,%v) e2=(%v,%v)", x1, y1, x2, y2)
	}
	if x2-x1 != 250 || y1-y2 != 60 {
		t.Errorf("relative offset = (%v, %v), want (250, -60)", x2-x1, y2-y1)
	}
}

func TestDragOneUndoStep(t *testing.T) {
	h := bandFixture(t)
	h.c.PointerDown(At(50, 50))
	for i := 1; i <= 20; i++ {
		h.c.PointerMove(At(50+float64(i*5), 50))
	}
	h.c.PointerUp(At(150, 50))
	h.settle()

	if past, _ := h.hist.Depth(); past != 1 {
		t.Fatalf("past depth = %d, want 1", past)
	}
	if !h.hist.Undo() {
		t.Fatal("Undo() = false")
	}
	if x := h.hist.Present()[0].X; x != 0 {
		t.Errorf("undone e1.X = %v, want 0", x)
	}
}

func TestLockedElementDoesNotMove(t *testing.T) {
	locked := box("e1", 100, 100, 100, 100)
	locked.PositionLocked = true
	h := newHarness(t, snap.Options{}, locked, box("e2", 300, 100, 100, 100))

	h.c.PointerDown(At(150, 150))
	if s := h.c.State(); s != StateIdle {
		t.Errorf("State() = %v, want idle", s)
	}
	h.c.PointerMove(At(250, 250))
	h.c.PointerUp(At(250, 250))

	if x, y := h.at(t, "e1"); x != 100 || y != 100 {
		t.Errorf("locked e1 moved to (%v, %v)", x, y)
	}
	if got := h.c.Selection(); !sameIDs(got, []string{"e1"}) {
		t.Errorf("Selection() = %v, want [e1]", got)
	}

	h.c.Select("e1", "e2")
	h.drag(350, 150, 450, 250)
	if x, _ := h.at(t, "e2"); x != 300 {
		t.Errorf("group with locked member moved e2 to x=%v", x)
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	for _, handle := range surface.Handles {
		t.Run(string(handle), func(t *testing.T) {
			h := newHarness(t, snap.Options{}, box("e", 500, 500, 300, 200))
			h.c.Select("e")

			grab := surface.HandleRect(geometry.Rect{X: 500, Y: 500, W: 300, H: 200}, handle, 1).Center()
			var dx, dy float64
			switch {
			case handle.East():
				dx = -1000
			case handle.West():
				dx = 1000
			}
			switch {
			case handle.South():
				dy = -1000
			case handle.North():
				dy = 1000
			}

			h.c.PointerDown(At(grab.X, grab.Y))
			if s := h.c.State(); s != StateResizing {
				t.Fatalf("State() = %v, want resizing", s)
			}
			h.c.PointerMove(At(grab.X+dx, grab.Y+dy))
			h.c.PointerUp(At(grab.X+dx, grab.Y+dy))

			el, _ := h.coll.Get("e")
			want := geometry.Rect{X: 500, Y: 500, W: 300, H: 200}
			if handle.East() || handle.West() {
				want.W = dashboard.MinWidth
			}
			if handle.West() {
				want.X = 800 - dashboard.MinWidth
			}
			if handle.North() || handle.South() {
				want.H = dashboard.MinHeight
			}
			if handle.North() {
				want.Y = 700 - dashboard.MinHeight
			}
			if got := el.Rect(); got != want {
				t.Errorf("rect = %v, want %v", got, want)
			}
		})
	}
}

func TestResize(t *testing.T) {
	from := geometry.Rect{X: 100, Y: 100, W: 200, H: 150}
	tests := []struct {
		handle surface.Handle
		dx, dy float64
		want   geometry.Rect
	}{
		{surface.HandleSE, 50, 30, geometry.Rect{X: 100, Y: 100, W: 250, H: 180}},
		{surface.HandleNW, -20, -10, geometry.Rect{X: 80, Y: 90, W: 220, H: 160}},
		{surface.HandleE, 10, 99, geometry.Rect{X: 100, Y: 100, W: 210, H: 150}},
		{surface.HandleN, 99, 100, geometry.Rect{X: 100, Y: 170, W: 200, H: 80}},
		{surface.HandleNW, -150, -150, geometry.Rect{X: 0, Y: 0, W: 300, H: 250}},
		{surface.HandleW, -500, 0, geometry.Rect{X: 0, Y: 100, W: 300, H: 150}},
		{surface.HandleNE, 40, -120, geometry.Rect{X: 100, Y: 0, W: 240, H: 250}},
	}

	for _, tt := range tests {
		if got := Resize(from, tt.handle, tt.dx, tt.dy); got != tt.want {
			t.Errorf("Resize(%s, %v, %v) = %v, want %v", tt.handle, tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestResizeStopsAtCanvasOrigin(t *testing.T) {
	h := newHarness(t, snap.Options{}, box("e", 10, 10, 200, 150))
	h.c.Select("e")

	grab := surface.HandleRect(geometry.Rect{X: 10, Y: 10, W: 200, H: 150}, surface.HandleNW, 1).Center()
	h.c.PointerDown(At(grab.X, grab.Y))
	if s := h.c.State(); s != StateResizing {
		t.Fatalf("State() = %v, want resizing", s)
	}
	h.c.PointerMove(At(grab.X-60, grab.Y-60))
	h.c.PointerUp(At(grab.X-60, grab.Y-60))
	h.hist.Flush()

	want := geometry.Rect{X: 0, Y: 0, W: 210, H: 160}
	if el, _ := h.coll.Get("e"); el.Rect() != want {
		t.Errorf("rect = %v, want %v", el.Rect(), want)
	}
	present := h.hist.Present()
	if len(present) != 1 || present[0].Rect() != want {
		t.Errorf("history present = %v, want %v", present, want)
	}
	if err := dashboard.Validate(present); err != nil {
		t.Errorf("Validate(committed) = %v", err)
	}
}

func TestLockedHasNoHandles(t *testing.T) {
	locked := box("e", 500, 500, 300, 200)
	locked.PositionLocked = true
	h := newHarness(t, snap.Options{}, locked)
	h.c.Select("e")

	h.c.PointerDown(At(800, 700))
	if s := h.c.State(); s == StateResizing {
		t.Error("locked element entered resizing")
	}
}

func TestStaleReferenceAborts(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetInteractionHooks(rec)
	t.Cleanup(observability.Reset)

	t.Run("drag", func(t *testing.T) {
		h := bandFixture(t)
		h.c.Select("e1", "e2")
		h.c.PointerDown(At(50, 50))
		h.coll.Remove("e2")
		h.c.PointerMove(At(100, 100))

		if s := h.c.State(); s != StateIdle {
			t.Errorf("State() = %v, want idle", s)
		}
		if x, _ := h.at(t, "e1"); x != 0 {
			t.Errorf("e1 moved after abort to x=%v", x)
		}
		if got := h.c.Selection(); !sameIDs(got, []string{"e1"}) {
			t.Errorf("Selection() = %v, want [e1]", got)
		}
		h.c.PointerUp(At(100, 100))
	})

	t.Run("resize", func(t *testing.T) {
		h := newHarness(t, snap.Options{}, box("e", 500, 500, 300, 200))
		h.c.Select("e")
		h.c.PointerDown(At(800, 700))
		h.coll.Remove("e")
		h.c.PointerMove(At(900, 800))
		if s := h.c.State(); s != StateIdle {
			t.Errorf("State() = %v, want idle", s)
		}
	})

	if !sameIDs(rec.aborted, []string{"e2", "e"}) {
		t.Errorf("aborted = %v, want [e2 e]", rec.aborted)
	}
}

func TestGestureHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetInteractionHooks(rec)
	t.Cleanup(observability.Reset)

	h := bandFixture(t)
	h.drag(50, 50, 100, 100)
	h.drag(1500, 1500, 1600, 1600)

	want := []string{"draggingSelection", "selecting"}
	if !sameIDs(rec.starts, want) || !sameIDs(rec.ends, want) {
		t.Errorf("starts = %v, ends = %v, want %v", rec.starts, rec.ends, want)
	}
}

func TestPanAndZoomTransform(t *testing.T) {
	h := bandFixture(t)
	surf := h.c.Surface()
	surf.SetZoom(50)

	h.c.SetTool(ToolPan)
	h.drag(100, 100, 160, 130)
	if p := surf.Pan(); p != (geometry.Point{X: 60, Y: 30}) {
		t.Fatalf("Pan() = %v, want {60 30}", p)
	}
	if got := surf.ScreenToCanvas(geometry.Point{X: 160, Y: 130}); got != (geometry.Point{X: 200, Y: 200}) {
		t.Errorf("ScreenToCanvas() = %v, want {200 200}", got)
	}

	// e4 spans canvas 300..400, on screen 210..260 x 180..230.
	h.c.SetTool(ToolSelect)
	h.drag(220, 190, 240, 200)
	if x, y := h.at(t, "e4"); x != 340 || y != 320 {
		t.Errorf("e4 = (%v, %v), want (340, 320)", x, y)
	}
}

func TestFrameCoalescing(t *testing.T) {
	h := bandFixture(t)
	draws := 0
	h.c.invalidate = func() { draws++ }

	h.c.PointerDown(At(250, 50))
	for i := 0; i < 10; i++ {
		h.c.PointerMove(At(260+float64(i*10), 60+float64(i*10)))
	}
	if !h.c.Tick() {
		t.Fatal("Tick() = false, want true")
	}
	if h.c.Tick() {
		t.Error("second Tick() ran again")
	}
	if draws != 1 {
		t.Errorf("draws = %d, want 1", draws)
	}
	if d := h.c.DroppedFrames(); d != 10 {
		t.Errorf("DroppedFrames() = %d, want 10", d)
	}
}

func TestDistributionGuidesWhileDragging(t *testing.T) {
	h := newHarness(t, snap.Options{ShowDistributionGuides: true},
		box("a", 0, 0, 100, 100),
		box("b", 200, 0, 100, 100),
		box("c", 500, 0, 100, 100),
	)
	h.c.Select("a", "b", "c")
	h.c.PointerDown(At(250, 50))
	h.c.PointerMove(At(260, 50))

	found := false
	for _, g := range h.c.Guides() {
		found = found || g.Kind == snap.KindDistribution
	}
	if !found {
		t.Error("no distribution guides for three same-type elements")
	}
	h.c.PointerUp(At(260, 50))
}

func TestEscapeClearsPreview(t *testing.T) {
	el := box("e1", 0, 0, 100, 100)
	el.Payload = map[string]any{dashboard.KeyIsPreviewing: true}
	h := newHarness(t, snap.Options{}, el, box("e2", 300, 0, 100, 100))

	h.c.PointerDown(At(350, 50))
	h.c.PointerMove(At(400, 50))
	if !h.c.KeyDown("escape") {
		t.Fatal("KeyDown(escape) = false, want true")
	}
	if s := h.c.State(); s != StateDraggingSelection {
		t.Errorf("escape cancelled the drag: State() = %v", s)
	}
	if got, _ := h.coll.Get("e1"); got.IsPreviewing() {
		t.Error("e1 still previewing")
	}
	if h.c.KeyDown("escape") {
		t.Error("second KeyDown(escape) = true, want false")
	}
	if h.c.KeyDown("x") {
		t.Error("KeyDown(x) = true, want false")
	}
}

func TestStateStrings(t *testing.T) {
	want := map[State]string{
		StateIdle:              "idle",
		StateSelecting:         "selecting",
		StateDraggingSelection: "draggingSelection",
		StateResizing:          "resizing",
		StatePanningCanvas:     "panningCanvas",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), name)
		}
	}
}
