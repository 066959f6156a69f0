package workspace

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zwdscn-cloud/JFreports/pkg/binding"
	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/history"
	"github.com/zwdscn-cloud/JFreports/pkg/interaction"
	"github.com/zwdscn-cloud/JFreports/pkg/prefs"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
	"github.com/zwdscn-cloud/JFreports/pkg/widgets"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	logger     *log.Logger
	history    []history.Option
	snap       *snap.Options
	registry   *surface.Registry
	invalidate func()
	theme      string
	now        func() time.Time
}

// WithLogger sets the logger shared by the session and its controller.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithHistory passes options to the undo history.
func WithHistory(opts ...history.Option) Option {
	return func(c *config) { c.history = append(c.history, opts...) }
}

// WithSnapOptions sets the snap rule families. Grid and margin settings
// still follow the canvas.
func WithSnapOptions(o snap.Options) Option {
	return func(c *config) { c.snap = &o }
}

// WithRegistry replaces the built-in widget renderers.
func WithRegistry(r *surface.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithInvalidate sets the redraw callback run once per frame.
func WithInvalidate(fn func()) Option {
	return func(c *config) { c.invalidate = fn }
}

// WithTheme sets the initial theme id.
func WithTheme(theme string) Option {
	return func(c *config) { c.theme = theme }
}

// WithClock sets the time source used to stamp saved documents.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// Session is one open dashboard.
type Session struct {
	logger   *log.Logger
	coll     *dashboard.Collection
	hist     *history.Store
	surf     *surface.Surface
	ctrl     *interaction.Controller
	data     *binding.Store
	registry *surface.Registry
	theme    string
	now      func() time.Time

	// saved is the element list as of the last save or load.
	saved []dashboard.Element
	unsub []func()
}

// New returns an empty session on a canvas with the given settings.
func New(settings surface.Settings, mode surface.Mode, opts ...Option) *Session {
	cfg := config{
		logger: log.New(io.Discard),
		theme:  dashboard.DefaultTheme,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = widgets.NewRegistry(surface.WithLogger(cfg.logger))
	}

	s := &Session{
		logger:   cfg.logger,
		coll:     dashboard.NewCollection(nil),
		hist:     history.New(nil, cfg.history...),
		surf:     surface.New(settings, mode),
		data:     binding.New(),
		registry: cfg.registry,
		theme:    cfg.theme,
		now:      cfg.now,
	}

	snapOpts := snap.DefaultOptions()
	if cfg.snap != nil {
		snapOpts = *cfg.snap
	}
	ctrlOpts := []interaction.Option{
		interaction.WithLogger(cfg.logger),
		interaction.WithSnapOptions(snapOpts),
	}
	if cfg.invalidate != nil {
		ctrlOpts = append(ctrlOpts, interaction.WithInvalidate(cfg.invalidate))
	}
	s.ctrl = interaction.New(s.coll, s.hist, s.surf, ctrlOpts...)
	s.syncSnap()

	s.unsub = append(s.unsub, s.hist.Subscribe(func(elements []dashboard.Element) {
		s.coll.Replace(elements)
		s.ctrl.PruneSelection()
	}))
	s.unsub = append(s.unsub, s.data.Subscribe(func(id string, _ any) {
		s.logger.Debug("bound data changed", "id", id)
	}))
	return s
}

// Close stops pending history work and drops subscriptions.
func (s *Session) Close() {
	for _, fn := range s.unsub {
		fn()
	}
	s.unsub = nil
	s.hist.Close()
}

// Collection returns the live element collection.
func (s *Session) Collection() *dashboard.Collection { return s.coll }

// History returns the undo history.
func (s *Session) History() *history.Store { return s.hist }

// Surface returns the canvas surface.
func (s *Session) Surface() *surface.Surface { return s.surf }

// Controller returns the pointer controller.
func (s *Session) Controller() *interaction.Controller { return s.ctrl }

// Data returns the bound-data store.
func (s *Session) Data() *binding.Store { return s.data }

// Registry returns the renderer registry.
func (s *Session) Registry() *surface.Registry { return s.registry }

// Theme returns the active theme id.
func (s *Session) Theme() string { return s.theme }

// SetTheme switches the theme. Unless the user customized the background,
// the canvas follows the theme's default.
func (s *Session) SetTheme(theme string, dark bool, customized bool) {
	s.theme = theme
	if !customized {
		_ = s.surf.SetBackground(surface.ThemeBackground(dark))
	}
}

// Dirty reports whether the elements changed since the last save or load.
func (s *Session) Dirty() bool {
	current := s.coll.Elements()
	if len(current) != len(s.saved) {
		return true
	}
	for i := range current {
		if !current[i].Equal(s.saved[i]) {
			return true
		}
	}
	return false
}

// =============================================================================
// Canvas
// =============================================================================

// ApplySettings replaces the canvas settings and updates grid and margin
// snapping to match.
func (s *Session) ApplySettings(st surface.Settings) error {
	if err := s.surf.SetSettings(st); err != nil {
		return err
	}
	s.syncSnap()
	return nil
}

// SetGrid shows or hides the grid. Grid snapping is active only while the
// grid is visible.
func (s *Session) SetGrid(show bool, size float64) {
	s.surf.SetGrid(show, size)
	s.syncSnap()
}

// SetMargins shows or hides the margin guides.
func (s *Session) SetMargins(show bool, size float64) {
	s.surf.SetMargins(show, size)
	s.syncSnap()
}

// ApplyPrefs loads the stored canvas preferences into the surface.
func (s *Session) ApplyPrefs(ctx context.Context, store prefs.Store, dark bool) error {
	c, err := prefs.LoadCanvas(ctx, store, dark)
	if err != nil {
		s.logger.Warn("failed to load canvas preferences, using defaults", "error", err)
	}
	if rerr := s.surf.SetResolution(c.Resolution.Width, c.Resolution.Height); rerr != nil {
		return rerr
	}
	if berr := s.surf.SetBackground(c.Background); berr != nil {
		return berr
	}
	return err
}

func (s *Session) syncSnap() {
	st := s.surf.Settings()
	o := s.ctrl.SnapOptions()
	o.ShowGridGuides = st.ShowGrid
	if st.GridSize > 0 {
		o.GridSize = st.GridSize
	}
	o.MarginGuides = st.ShowMargins
	if st.MarginSize > 0 {
		o.MarginSize = st.MarginSize
	}
	s.ctrl.SetSnapOptions(o)
}

// =============================================================================
// Scene
// =============================================================================

// Scene composes the current frame. Bound data replaces each element's
// "data" payload for display only; the collection is not modified.
func (s *Session) Scene() surface.Scene {
	return s.registry.Compose(surface.Frame{
		Settings: s.surf.Settings(),
		Zoom:     s.surf.Zoom(),
		Theme:    s.theme,
		Elements: s.displayElements(),
		Overlay:  s.ctrl.Overlay(),
	})
}

// ExportScene composes the frame without selection or guides, as written
// to image files.
func (s *Session) ExportScene() surface.Scene {
	return s.registry.Compose(surface.Frame{
		Settings: s.surf.Settings(),
		Zoom:     100,
		Theme:    s.theme,
		Elements: s.displayElements(),
	})
}

func (s *Session) displayElements() []dashboard.Element {
	elements := s.coll.Elements()
	for i := range elements {
		d, ok := s.data.Get(elements[i].ID)
		if !ok {
			continue
		}
		if elements[i].Payload == nil {
			elements[i].Payload = make(map[string]any)
		}
		elements[i].Payload[dashboard.KeyData] = d
	}
	return elements
}

// =============================================================================
// Save and load
// =============================================================================

// State returns the session state a document is saved from.
func (s *Session) State() dashboard.State {
	st := s.surf.Settings()
	return dashboard.State{
		Theme: s.theme,
		Canvas: dashboard.CanvasSettings{
			Width:           st.Width,
			Height:          st.Height,
			BackgroundColor: st.BackgroundColor,
		},
		Elements: s.coll.Elements(),
	}
}

// Document snapshots the session as a saveable document.
func (s *Session) Document() dashboard.Document {
	return dashboard.NewDocument(s.State(), s.now())
}

// MarkSaved records the current elements as saved.
func (s *Session) MarkSaved() {
	s.hist.Flush()
	s.saved = s.coll.Elements()
}

// Save writes the session as JSON to w.
func (s *Session) Save(w io.Writer) error {
	if err := dashboard.Encode(w, s.Document()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write dashboard")
	}
	s.MarkSaved()
	return nil
}

// SaveFile writes the session to path.
func (s *Session) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load replaces the session with doc. Theme and canvas settings missing
// from doc keep their current values. Elements are validated and
// normalized (positions clamped, sizes raised to the minimum) and must then
// carry unique ids. The whole replacement is one undoable step. Bound data
// for elements that no longer exist is dropped.
func (s *Session) Load(doc dashboard.Document) error {
	next := doc.Apply(s.State())
	next.Elements = dashboard.Normalize(next.Elements)
	if err := dashboard.Validate(next.Elements); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid dashboard file format")
	}

	st := s.surf.Settings()
	st.Width, st.Height = next.Canvas.Width, next.Canvas.Height
	st.BackgroundColor = next.Canvas.BackgroundColor
	if err := s.surf.SetSettings(st); err != nil {
		return err
	}
	s.syncSnap()
	s.theme = next.Theme

	s.coll.Replace(next.Elements)
	s.hist.Commit(next.Elements)
	s.hist.Flush()
	s.ctrl.PruneSelection()

	for _, id := range s.data.IDs() {
		if !s.coll.Has(id) {
			s.data.Clear(id)
		}
	}
	s.MarkSaved()
	s.logger.Debug("dashboard loaded", "elements", len(next.Elements), "theme", next.Theme)
	return nil
}

// Open decodes a JSON document from r and loads it.
func (s *Session) Open(r io.Reader) error {
	doc, err := dashboard.Decode(r)
	if err != nil {
		return err
	}
	return s.Load(doc)
}

// LoadFile opens a JSON or YAML document by path.
func (s *Session) LoadFile(path string) error {
	doc, err := ReadDocument(path)
	if err != nil {
		return err
	}
	return s.Load(doc)
}

// ReadDocument decodes a document file, choosing YAML for .yaml and .yml
// files and JSON otherwise.
func ReadDocument(path string) (dashboard.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dashboard.Document{}, errors.Wrap(errors.ErrCodeNotFound, err, "file not found: %s", path)
		}
		return dashboard.Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	if isYAML(path) {
		return dashboard.DecodeYAML(f)
	}
	return dashboard.Decode(f)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// =============================================================================
// Element operations
// =============================================================================

// AddElement creates an element of the given type centered on a canvas
// point, selects it and records the change.
func (s *Session) AddElement(elementType string, at geometry.Point) (dashboard.Element, error) {
	el, err := s.coll.Add(dashboard.NewElement(elementType, at))
	if err != nil {
		return dashboard.Element{}, err
	}
	s.commit()
	s.ctrl.Select(el.ID)
	return el, nil
}

// Delete removes the selected elements and their bound data.
func (s *Session) Delete() int {
	n := 0
	for _, id := range s.ctrl.Selection() {
		if s.coll.Remove(id) {
			s.data.Clear(id)
			n++
		}
	}
	if n > 0 {
		s.commit()
	}
	s.ctrl.PruneSelection()
	return n
}

// Duplicate copies every selected element and selects the copies.
func (s *Session) Duplicate() []dashboard.Element {
	var out []dashboard.Element
	var ids []string
	for _, id := range s.ctrl.Selection() {
		if dup, ok := s.coll.Duplicate(id); ok {
			out = append(out, dup)
			ids = append(ids, dup.ID)
		}
	}
	if len(out) > 0 {
		s.commit()
		s.ctrl.Select(ids...)
	}
	return out
}

// Nudge moves the selected, unlocked elements by (dx, dy) canvas pixels,
// keeping them on the canvas.
func (s *Session) Nudge(dx, dy float64) bool {
	patches := make(map[string]dashboard.Patch)
	for _, id := range s.ctrl.Selection() {
		el, ok := s.coll.Get(id)
		if !ok || el.PositionLocked {
			continue
		}
		patches[id] = dashboard.MovePatch(max(0, el.X+dx), max(0, el.Y+dy))
	}
	if !s.coll.UpdateMany(patches) {
		return false
	}
	s.commit()
	return true
}

// Distribute evenly spaces the given elements, or the selection when ids
// is empty, along dir. Fewer than three unlocked elements is a no-op.
// Unknown ids fail with ELEMENT_NOT_FOUND.
func (s *Session) Distribute(dir snap.Orientation, ids ...string) ([]snap.Guide, error) {
	targets, err := s.targets(ids)
	if err != nil || len(targets) < snap.MinDistribute {
		return nil, err
	}
	placements, guides := snap.Distribute(targets, dir)
	s.place(placements)
	return guides, nil
}

// Align lines the given elements, or the selection, up against one side
// of their bounding box.
func (s *Session) Align(edge snap.AlignEdge, ids ...string) ([]snap.Guide, error) {
	targets, err := s.targets(ids)
	if err != nil || len(targets) < 2 {
		return nil, err
	}
	placements, guides := snap.Align(targets, edge)
	s.place(placements)
	return guides, nil
}

// Reorder moves an element to a new array index and records it.
func (s *Session) Reorder(id string, index int) error {
	if !s.coll.Reorder(id, index) {
		return errors.New(errors.ErrCodeElementNotFound, "element %q not found", id)
	}
	s.commit()
	return nil
}

// SetLocked locks or unlocks the selected elements.
func (s *Session) SetLocked(locked bool) bool {
	patches := make(map[string]dashboard.Patch)
	for _, id := range s.ctrl.Selection() {
		patches[id] = dashboard.LockPatch(locked)
	}
	if !s.coll.UpdateMany(patches) {
		return false
	}
	s.commit()
	return true
}

// Bind attaches live data to an element.
func (s *Session) Bind(id string, data any) error {
	if !s.coll.Has(id) {
		return errors.New(errors.ErrCodeElementNotFound, "element %q not found", id)
	}
	return s.data.Bind(id, data)
}

// Undo reverts the last change.
func (s *Session) Undo() bool { return s.hist.Undo() }

// Redo re-applies the last undone change.
func (s *Session) Redo() bool { return s.hist.Redo() }

func (s *Session) commit() {
	s.hist.Commit(s.coll.Elements())
}

// targets resolves ids (or the selection) into snap targets, skipping
// locked elements.
func (s *Session) targets(ids []string) ([]snap.Target, error) {
	if len(ids) == 0 {
		ids = s.ctrl.Selection()
	}
	out := make([]snap.Target, 0, len(ids))
	for _, id := range ids {
		el, ok := s.coll.Get(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeElementNotFound, "element %q not found", id)
		}
		if el.PositionLocked {
			continue
		}
		out = append(out, el.Target())
	}
	return out, nil
}

func (s *Session) place(placements []snap.Placement) bool {
	patches := make(map[string]dashboard.Patch, len(placements))
	for _, p := range placements {
		patches[p.ID] = dashboard.MovePatch(max(0, p.X), max(0, p.Y))
	}
	if !s.coll.UpdateMany(patches) {
		return false
	}
	s.commit()
	return true
}
