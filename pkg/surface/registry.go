package surface

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
)

// RenderContext is what a renderer knows about the frame it draws into.
type RenderContext struct {
	// Bounds is the element's box in canvas coordinates.
	Bounds geometry.Rect
	// Zoom is the current zoom in percent.
	Zoom float64
	// Screen is the element's on-screen size at the current zoom, for
	// renderers that pick a level of detail.
	Screen geometry.Size
	// Selected is true when the element is part of the selection.
	Selected bool
	// Theme is the active theme id.
	Theme string
}

// RenderFunc draws one element body. Primitives are in canvas coordinates;
// the surface tags them with the element id and layer.
type RenderFunc func(el dashboard.Element, ctx RenderContext) ([]Primitive, error)

// Registry maps element types to renderers.
type Registry struct {
	mu       sync.RWMutex
	byType   map[string]RenderFunc
	fallback RenderFunc
	logger   *log.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report failing renderers.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithFallback sets the renderer used for unregistered types. The default
// draws a labelled box.
func WithFallback(fn RenderFunc) RegistryOption {
	return func(r *Registry) { r.fallback = fn }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{byType: make(map[string]RenderFunc), fallback: PlaceholderRenderer}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds a renderer to an element type, replacing any previous one.
func (r *Registry) Register(elementType string, fn RenderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[elementType] = fn
}

// Lookup returns the renderer for a type and whether it was registered.
// Unregistered types get the fallback.
func (r *Registry) Lookup(elementType string) (RenderFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if fn, ok := r.byType[elementType]; ok {
		return fn, true
	}
	return r.fallback, false
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byType))
	for t := range r.byType {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// render runs the element's renderer, turning errors and panics into an
// error placeholder so one broken element never takes down the frame.
func (r *Registry) render(el dashboard.Element, ctx RenderContext) (items []Primitive, err error) {
	fn, _ := r.Lookup(el.Type)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("renderer panic: %v", rec)
		}
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("element render failed", "id", el.ID, "type", el.Type, "error", err)
			}
			items = ErrorPlaceholder(ctx.Bounds, err)
		}
	}()
	items, err = fn(el, ctx)
	return items, err
}

// PlaceholderRenderer draws a bordered box with the element's title or type.
func PlaceholderRenderer(el dashboard.Element, ctx RenderContext) ([]Primitive, error) {
	b := ctx.Bounds
	label := el.Title()
	if label == "" {
		label = el.Type
	}
	box := Rect(b, "#f5f5f5", "#cccccc")
	box.Radius = 4
	txt := Text(b.CenterX(), b.CenterY(), label, 14, "#666666")
	txt.Anchor = AnchorMiddle
	return []Primitive{box, txt}, nil
}

// ErrorPlaceholder is drawn in place of an element whose renderer failed.
func ErrorPlaceholder(b geometry.Rect, err error) []Primitive {
	box := Rect(b, "#fff0f0", "#e53935")
	box.Dash = "6 4"
	box.Layer = LayerError
	msg := Text(b.X+8, b.Y+20, "render error: "+err.Error(), 12, "#e53935")
	msg.Layer = LayerError
	return []Primitive{box, msg}
}
