package interaction

import (
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/debounce"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/history"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

// DragThreshold is how far, in screen pixels, a press must travel before it
// becomes a move.
const DragThreshold = 3

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSnapOptions sets the snap rule families used while moving.
func WithSnapOptions(o snap.Options) Option {
	return func(c *Controller) { c.snapOpts = o }
}

// WithInvalidate sets the redraw callback run from [Controller.Tick].
func WithInvalidate(fn func()) Option {
	return func(c *Controller) { c.invalidate = fn }
}

// Controller is the pointer state machine for one canvas.
type Controller struct {
	coll *dashboard.Collection
	hist *history.Store
	surf *surface.Surface

	snapOpts   snap.Options
	logger     *log.Logger
	invalidate func()
	frame      debounce.Frame

	state State
	tool  Tool
	sel   Selection
	g     gesture
}

// gesture holds what pointer-down captured for the active state.
type gesture struct {
	began       time.Time
	startScreen geometry.Point
	startCanvas geometry.Point

	// draggingSelection
	pressID  string
	starts   map[string]geometry.Point
	moved    bool
	collapse bool

	// resizing
	resizeID string
	handle   surface.Handle
	from     geometry.Rect

	// selecting
	prior []string
	band  *geometry.Rect

	// panningCanvas
	panStart geometry.Point

	guides []snap.Guide
}

// New returns an idle controller with the select tool.
func New(coll *dashboard.Collection, hist *history.Store, surf *surface.Surface, opts ...Option) *Controller {
	c := &Controller{
		coll:     coll,
		hist:     hist,
		surf:     surf,
		snapOpts: snap.DefaultOptions(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool switches tools. It takes effect on the next pointer-down.
func (c *Controller) SetTool(t Tool) { c.tool = t }

// Surface returns the surface the controller converts coordinates with.
func (c *Controller) Surface() *surface.Surface { return c.surf }

// Selection returns the selected ids in selection order.
func (c *Controller) Selection() []string { return c.sel.IDs() }

// Primary returns the primary selected id.
func (c *Controller) Primary() string { return c.sel.Primary() }

// Select replaces the selection.
func (c *Controller) Select(ids ...string) {
	c.sel.Set(ids...)
	c.requestFrame()
}

// ClearSelection empties the selection.
func (c *Controller) ClearSelection() {
	c.sel.Clear()
	c.requestFrame()
}

// PruneSelection drops selected ids that no longer exist, after deletes,
// undo or load.
func (c *Controller) PruneSelection() {
	for _, id := range c.sel.IDs() {
		if !c.coll.Has(id) {
			c.sel.Remove(id)
		}
	}
	c.requestFrame()
}

// SetSnapOptions replaces the snap rule families.
func (c *Controller) SetSnapOptions(o snap.Options) { c.snapOpts = o }

// SnapOptions returns the snap rule families in use.
func (c *Controller) SnapOptions() snap.Options { return c.snapOpts }

// Guides returns the guides of the current gesture.
func (c *Controller) Guides() []snap.Guide { return slices.Clone(c.g.guides) }

// Overlay returns the interaction state the surface draws above elements.
func (c *Controller) Overlay() surface.Overlay {
	ov := surface.Overlay{
		Selected:    c.sel.IDs(),
		Primary:     c.sel.Primary(),
		Guides:      slices.Clone(c.g.guides),
		ShowHandles: c.sel.Len() == 1 && c.state != StateDraggingSelection,
	}
	if c.g.band != nil {
		b := *c.g.band
		ov.Band = &b
	}
	return ov
}

// Tick runs the pending redraw, if any. Hosts call it once per frame.
func (c *Controller) Tick() bool { return c.frame.Tick() }

// DroppedFrames returns how many redraw requests were coalesced away.
func (c *Controller) DroppedFrames() int { return c.frame.Dropped() }

func (c *Controller) requestFrame() {
	if c.invalidate != nil {
		c.frame.Request(c.invalidate)
	}
}

// =============================================================================
// Pointer down
// =============================================================================

// PointerDown starts a gesture. What is under the pointer decides the
// branch: resize handle, element body, or empty canvas.
func (c *Controller) PointerDown(ev PointerEvent) {
	if c.state != StateIdle {
		c.logger.Debug("pointer down while active, ignoring", "state", c.state)
		return
	}
	p := c.surf.ScreenToCanvas(ev.Screen)
	c.g = gesture{began: time.Now(), startScreen: ev.Screen, startCanvas: p}
	defer c.requestFrame()

	if c.tool == ToolPan {
		c.g.panStart = c.surf.Pan()
		c.enter(StatePanningCanvas, nil)
		return
	}

	if el, h, ok := c.handleUnder(p); ok {
		c.g.resizeID = el.ID
		c.g.handle = h
		c.g.from = el.Rect()
		c.enter(StateResizing, []string{el.ID})
		return
	}

	elements := c.coll.Elements()
	if i := dashboard.HitTest(elements, p); i >= 0 {
		c.pressElement(elements[i], elements, ev.Mods)
		return
	}

	if !ev.Mods.Has(ModShift) {
		c.sel.Clear()
	}
	c.g.prior = c.sel.IDs()
	band := geometry.Rect{X: p.X, Y: p.Y}
	c.g.band = &band
	c.enter(StateSelecting, nil)
}

// handleUnder finds the resize handle under p. Handles exist only on a
// single selected, unlocked element.
func (c *Controller) handleUnder(p geometry.Point) (dashboard.Element, surface.Handle, bool) {
	if c.sel.Len() != 1 {
		return dashboard.Element{}, surface.HandleNone, false
	}
	el, ok := c.coll.Get(c.sel.Primary())
	if !ok || el.PositionLocked {
		return dashboard.Element{}, surface.HandleNone, false
	}
	h := surface.HandleAt(el.Rect(), p, c.surf.Viewport().Scale())
	return el, h, h != surface.HandleNone
}

func (c *Controller) pressElement(el dashboard.Element, elements []dashboard.Element, mods Modifiers) {
	switch {
	case mods.Has(ModShift):
		c.sel.Toggle(el.ID)
		if !c.sel.Has(el.ID) {
			return
		}
	case c.sel.Has(el.ID):
		// Keep the group for a drag; a click without movement narrows
		// the selection on release.
		c.sel.Add(el.ID)
		c.g.collapse = c.sel.Len() > 1
	default:
		c.sel.Set(el.ID)
	}

	starts := make(map[string]geometry.Point, c.sel.Len())
	for _, e := range elements {
		if !c.sel.Has(e.ID) {
			continue
		}
		if e.PositionLocked {
			c.logger.Debug("selection contains locked element, not dragging", "id", e.ID)
			if c.g.collapse {
				c.sel.Set(el.ID)
			}
			return
		}
		starts[e.ID] = e.Rect().Origin()
	}
	c.g.pressID = el.ID
	c.g.starts = starts
	c.enter(StateDraggingSelection, c.sel.IDs())
}

func (c *Controller) enter(s State, ids []string) {
	c.state = s
	observability.Interaction().OnGestureStart(s.String(), ids)
	c.logger.Debug("gesture start", "state", s, "ids", ids)
}

// =============================================================================
// Pointer move
// =============================================================================

// PointerMove advances the active gesture.
func (c *Controller) PointerMove(ev PointerEvent) {
	switch c.state {
	case StateSelecting:
		c.moveBand(ev)
	case StateDraggingSelection:
		c.moveSelection(ev)
	case StateResizing:
		c.moveHandle(ev)
	case StatePanningCanvas:
		c.surf.SetPan(c.g.panStart.Add(ev.Screen.Sub(c.g.startScreen)))
	default:
		return
	}
	c.requestFrame()
}

func (c *Controller) moveBand(ev PointerEvent) {
	p := c.surf.ScreenToCanvas(ev.Screen)
	band := geometry.RectFromPoints(c.g.startCanvas, p)
	c.g.band = &band

	var hits []string
	for _, el := range c.coll.Elements() {
		if el.Rect().Intersects(band) {
			hits = append(hits, el.ID)
		}
	}
	if ev.Mods.Has(ModShift) {
		c.sel.Set(c.g.prior...)
		c.sel.Add(hits...)
		return
	}
	c.sel.Set(hits...)
}

func (c *Controller) moveSelection(ev PointerEvent) {
	if !c.g.moved {
		d := ev.Screen.Sub(c.g.startScreen)
		if math.Hypot(d.X, d.Y) < DragThreshold {
			return
		}
		c.g.moved = true
	}

	primary, ok := c.coll.Get(c.g.pressID)
	if !ok {
		c.abort(c.g.pressID)
		return
	}
	for id := range c.g.starts {
		if !c.coll.Has(id) {
			c.abort(id)
			return
		}
	}

	p := c.surf.ScreenToCanvas(ev.Screen)
	delta := p.Sub(c.g.startCanvas)
	from := c.g.starts[c.g.pressID]
	candidate := geometry.Rect{X: from.X + delta.X, Y: from.Y + delta.Y, W: primary.Width, H: primary.Height}

	others := c.coll.Targets(c.dragging)
	res := snap.Compute(candidate, others, c.surf.Settings().Size(), c.snapOpts)
	sdx, sdy := res.Delta(candidate)
	dx, dy := c.clampGroup(delta.X+sdx, delta.Y+sdy)

	patches := make(map[string]dashboard.Patch, len(c.g.starts))
	for id, start := range c.g.starts {
		patches[id] = dashboard.MovePatch(start.X+dx, start.Y+dy)
	}
	c.coll.UpdateMany(patches)

	c.g.guides = res.Guides
	if c.snapOpts.ShowDistributionGuides {
		c.g.guides = append(c.g.guides, c.distributionGuides()...)
	}
	c.hist.Commit(c.coll.Elements())
}

// dragging reports whether id moves with the current drag.
func (c *Controller) dragging(id string) bool {
	_, ok := c.g.starts[id]
	return ok
}

// clampGroup limits a group delta so no element leaves the canvas on the
// top or left, keeping every relative offset.
func (c *Controller) clampGroup(dx, dy float64) (float64, float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, s := range c.g.starts {
		minX = math.Min(minX, s.X)
		minY = math.Min(minY, s.Y)
	}
	return math.Max(dx, -minX), math.Max(dy, -minY)
}

func (c *Controller) distributionGuides() []snap.Guide {
	selected := c.coll.Targets(func(id string) bool { return !c.dragging(id) })
	if !snap.ShouldDistribute(selected, c.g.pressID) {
		return nil
	}
	dir := snap.Horizontal
	if spread(selected, geometry.Rect.CenterY) > spread(selected, geometry.Rect.CenterX) {
		dir = snap.Vertical
	}
	_, guides := snap.Distribute(selected, dir)
	return guides
}

// spread is the distance between the extreme values of f over targets.
func spread(targets []snap.Target, f func(geometry.Rect) float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, t := range targets {
		v := f(t.Rect)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return hi - lo
}

func (c *Controller) moveHandle(ev PointerEvent) {
	if !c.coll.Has(c.g.resizeID) {
		c.abort(c.g.resizeID)
		return
	}
	d := c.surf.ScreenToCanvas(ev.Screen).Sub(c.g.startCanvas)
	r := Resize(c.g.from, c.g.handle, d.X, d.Y)
	c.coll.Update(c.g.resizeID, dashboard.BoundsPatch(r.X, r.Y, r.W, r.H))
	c.hist.Commit(c.coll.Elements())
}

// Resize returns from resized by dragging handle h by (dx, dy), clamped to
// the minimum element size. West and north handles move the origin so the
// opposite edge stays put, and stop growing at the canvas origin.
func Resize(from geometry.Rect, h surface.Handle, dx, dy float64) geometry.Rect {
	r := from
	switch {
	case h.East():
		r.W = math.Max(dashboard.MinWidth, from.W+dx)
	case h.West():
		r.W = math.Max(dashboard.MinWidth, math.Min(from.W-dx, from.Right()))
		r.X = math.Max(0, from.Right()-r.W)
	}
	switch {
	case h.South():
		r.H = math.Max(dashboard.MinHeight, from.H+dy)
	case h.North():
		r.H = math.Max(dashboard.MinHeight, math.Min(from.H-dy, from.Bottom()))
		r.Y = math.Max(0, from.Bottom()-r.H)
	}
	return r
}

// abort drops the gesture because id vanished from the collection.
func (c *Controller) abort(id string) {
	c.logger.Debug("element vanished during gesture, aborting", "state", c.state, "id", id)
	observability.Interaction().OnGestureAbort(c.state.String(), id)
	c.sel.Remove(id)
	c.state = StateIdle
	c.g = gesture{}
}

// =============================================================================
// Pointer up
// =============================================================================

// PointerUp ends the active gesture, records the result in history and
// returns to idle.
func (c *Controller) PointerUp(ev PointerEvent) {
	if c.state == StateIdle {
		return
	}
	state := c.state
	ids := c.sel.IDs()

	switch state {
	case StateDraggingSelection:
		if c.g.moved {
			c.hist.Commit(c.coll.Elements())
		} else if c.g.collapse {
			c.sel.Set(c.g.pressID)
		}
	case StateResizing:
		c.hist.Commit(c.coll.Elements())
	}

	observability.Interaction().OnGestureEnd(state.String(), ids, time.Since(c.g.began))
	c.logger.Debug("gesture end", "state", state, "ids", ids)
	c.state = StateIdle
	c.g = gesture{}
	c.requestFrame()
}

// =============================================================================
// Keys
// =============================================================================

// KeyDown handles keys the controller owns. Escape clears the preview mode
// of any element showing one; it never cancels a gesture. It reports
// whether the key was consumed.
func (c *Controller) KeyDown(key string) bool {
	if key != "esc" && key != "escape" {
		return false
	}
	patches := make(map[string]dashboard.Patch)
	for _, el := range c.coll.Elements() {
		if el.IsPreviewing() {
			patches[el.ID] = dashboard.PayloadPatch(dashboard.KeyIsPreviewing, false)
		}
	}
	if len(patches) == 0 {
		return false
	}
	c.coll.UpdateMany(patches)
	c.requestFrame()
	return true
}
