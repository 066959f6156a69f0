package interaction

import (
	"testing"
	"time"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/debounce"
	"github.com/zwdscn-cloud/JFreports/pkg/history"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

type harness struct {
	c     *Controller
	coll  *dashboard.Collection
	hist  *history.Store
	sched *debounce.ManualScheduler
}

func newHarness(t *testing.T, opts snap.Options, elements ...dashboard.Element) *harness {
	t.Helper()
	coll := dashboard.NewCollection(elements)
	sched := debounce.NewManualScheduler()
	hist := history.New(elements, history.WithScheduler(sched))
	t.Cleanup(hist.Close)
	surf := surface.New(surface.DefaultSettings(), surface.ModeEdit)
	return &harness{
		c:     New(coll, hist, surf, WithSnapOptions(opts)),
		coll:  coll,
		hist:  hist,
		sched: sched,
	}
}

func box(id string, x, y, w, h float64) dashboard.Element {
	return dashboard.Element{ID: id, Type: "bar-chart", X: x, Y: y, Width: w, Height: h}
}

func (h *harness) click(x, y float64, mods ...Modifiers) {
	h.c.PointerDown(At(x, y, mods...))
	h.c.PointerUp(At(x, y, mods...))
}

func (h *harness) drag(x0, y0, x1, y1 float64, mods ...Modifiers) {
	h.c.PointerDown(At(x0, y0, mods...))
	h.c.PointerMove(At(x1, y1, mods...))
	h.c.PointerUp(At(x1, y1, mods...))
}

func (h *harness) at(t *testing.T, id string) (float64, float64) {
	t.Helper()
	el, ok := h.coll.Get(id)
	if !ok {
		t.Fatalf("element %s missing", id)
	}
	return el.X, el.Y
}

func (h *harness) settle() { h.sched.Advance(history.DefaultDebounce) }

type recordingHooks struct {
	observability.NoopInteractionHooks
	starts  []string
	ends    []string
	aborted []string
}

func (r *recordingHooks) OnGestureStart(state string, _ []string) { r.starts = append(r.starts, state) }
func (r *recordingHooks) OnGestureEnd(state string, _ []string, _ time.Duration) {
	r.ends = append(r.ends, state)
}
func (r *recordingHooks) OnGestureAbort(_ string, id string) { r.aborted = append(r.aborted, id) }

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
