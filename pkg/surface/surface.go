package surface

import (
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
)

// Surface holds the host state of one canvas: settings, mode, container size
// and viewport. It is not safe for concurrent use; callers serialize access
// the same way they serialize pointer events.
type Surface struct {
	settings  Settings
	mode      Mode
	container geometry.Size
	view      Viewport
}

// New returns a surface at 100% zoom with no container. Invalid settings are
// replaced by the defaults.
func New(settings Settings, mode Mode) *Surface {
	if settings.Validate() != nil {
		settings = DefaultSettings()
	}
	return &Surface{settings: settings, mode: mode, view: Viewport{Zoom: 100}}
}

// Settings returns the current canvas settings.
func (s *Surface) Settings() Settings { return s.settings }

// Mode returns the current mode.
func (s *Surface) Mode() Mode { return s.mode }

// Viewport returns the current screen mapping.
func (s *Surface) Viewport() Viewport { return s.view }

// Zoom returns the zoom in percent.
func (s *Surface) Zoom() float64 { return s.view.Zoom }

// Container returns the on-screen box size last reported by the host.
func (s *Surface) Container() geometry.Size { return s.container }

// ScreenToCanvas converts a screen point using the current viewport.
func (s *Surface) ScreenToCanvas(p geometry.Point) geometry.Point {
	return s.view.ScreenToCanvas(p)
}

// SetSettings replaces all settings after validation and refits.
func (s *Surface) SetSettings(st Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	refit := st.Width != s.settings.Width || st.Height != s.settings.Height
	s.settings = st
	if refit {
		s.Fit()
	}
	return nil
}

// SetResolution changes the canvas size and refits the zoom.
func (s *Surface) SetResolution(w, h float64) error {
	if err := errors.ValidateResolution(w, h); err != nil {
		return err
	}
	s.settings.Width, s.settings.Height = w, h
	s.Fit()
	return nil
}

// SetBackground changes the background color.
func (s *Surface) SetBackground(color string) error {
	if color != TransparentBgColor {
		if err := errors.ValidateColor(color); err != nil {
			return err
		}
	}
	s.settings.BackgroundColor = color
	return nil
}

// SetGrid toggles the grid and sets its spacing. A size of 0 keeps the
// current spacing.
func (s *Surface) SetGrid(show bool, size float64) {
	s.settings.ShowGrid = show
	if size > 0 {
		s.settings.GridSize = size
	}
}

// SetMargins toggles the margin lines and sets their inset. A size of 0
// keeps the current inset.
func (s *Surface) SetMargins(show bool, size float64) {
	s.settings.ShowMargins = show
	if size > 0 {
		s.settings.MarginSize = size
	}
}

// SetContainer records the host box size and refits.
func (s *Surface) SetContainer(size geometry.Size) {
	s.container = size
	s.Fit()
}

// SetOrigin records where the surface's box starts on screen.
func (s *Surface) SetOrigin(p geometry.Point) { s.view.Origin = p }

// SetMode switches between edit and view and refits.
func (s *Surface) SetMode(m Mode) {
	s.mode = m
	s.Fit()
}

// SetZoom sets the zoom, clamped to the mode's range.
func (s *Surface) SetZoom(z float64) {
	s.view.Zoom = ClampZoom(z, s.mode)
}

// ZoomIn raises the zoom by one step.
func (s *Surface) ZoomIn() { s.SetZoom(s.view.Zoom + ZoomStep) }

// ZoomOut lowers the zoom by one step.
func (s *Surface) ZoomOut() { s.SetZoom(s.view.Zoom - ZoomStep) }

// Fit recomputes the zoom from container, canvas and mode and clears the
// pan. Without a known container the zoom is only re-clamped.
func (s *Surface) Fit() {
	s.view.Pan = geometry.Point{}
	if s.container.Empty() {
		s.SetZoom(s.view.Zoom)
		return
	}
	avail := geometry.Size{W: s.container.W - FitPadding, H: s.container.H - FitPadding}
	s.view.Zoom = AutoFit(avail, s.settings.Size(), s.mode)
}

// Pan returns the pan offset in screen pixels.
func (s *Surface) Pan() geometry.Point { return s.view.Pan }

// SetPan sets the pan offset.
func (s *Surface) SetPan(p geometry.Point) { s.view.Pan = p }
