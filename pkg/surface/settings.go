package surface

import (
	"math"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
)

// Mode selects the zoom range.
type Mode int

const (
	ModeEdit Mode = iota
	ModeView
)

// String returns "edit" or "view".
func (m Mode) String() string {
	if m == ModeView {
		return "view"
	}
	return "edit"
}

// Zoom limits and step, in percent.
const (
	MinZoom     = 25
	MaxEditZoom = 100
	MaxViewZoom = 200
	ZoomStep    = 10

	// FitPadding is subtracted from the container on each axis before
	// fitting, leaving a margin around the canvas.
	FitPadding = 40
)

// ZoomBounds returns the allowed zoom range for the mode.
func (m Mode) ZoomBounds() (lo, hi float64) {
	if m == ModeView {
		return MinZoom, MaxViewZoom
	}
	return MinZoom, MaxEditZoom
}

// ClampZoom limits z to the mode's range.
func ClampZoom(z float64, m Mode) float64 {
	lo, hi := m.ZoomBounds()
	return geometry.Clamp(z, lo, hi)
}

// AutoFit returns the zoom at which canvas fits inside container, clamped
// to the mode's range. Degenerate sizes yield the mode's maximum.
func AutoFit(container, canvas geometry.Size, m Mode) float64 {
	if container.Empty() || canvas.Empty() {
		_, hi := m.ZoomBounds()
		return hi
	}
	fit := math.Min(container.W/canvas.W, container.H/canvas.H) * 100
	return ClampZoom(fit, m)
}

// Default canvas values.
const (
	DefaultWidth       = 2000
	DefaultHeight      = 2000
	DefaultGridSize    = 20
	DefaultMarginSize  = 20
	DefaultBackground  = "#ffffff"
	DarkBackground     = "#1a1a1a"
	TransparentBgColor = "transparent"
)

// Resolution is a named canvas size.
type Resolution struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label"`
}

// Presets lists the resolutions offered by the editor.
var Presets = []Resolution{
	{1920, 1080, "1920×1080 (FHD)"},
	{2560, 1440, "2560×1440 (2K)"},
	{3840, 2160, "3840×2160 (4K)"},
	{2000, 2000, "2000×2000 (default)"},
	{3440, 1440, "3440×1440 (ultrawide)"},
}

// Settings is the canvas configuration.
type Settings struct {
	Width           float64 `json:"width" toml:"width"`
	Height          float64 `json:"height" toml:"height"`
	BackgroundColor string  `json:"backgroundColor" toml:"background"`
	ShowGrid        bool    `json:"showGrid" toml:"show_grid"`
	GridSize        float64 `json:"gridSize" toml:"grid_size"`
	ShowMargins     bool    `json:"showMargins" toml:"show_margins"`
	MarginSize      float64 `json:"marginSize" toml:"margin_size"`
}

// DefaultSettings returns a 2000×2000 white canvas with margins shown and
// the grid hidden.
func DefaultSettings() Settings {
	return Settings{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		BackgroundColor: DefaultBackground,
		GridSize:        DefaultGridSize,
		ShowMargins:     true,
		MarginSize:      DefaultMarginSize,
	}
}

// Size returns the canvas dimensions.
func (s Settings) Size() geometry.Size {
	return geometry.Size{W: s.Width, H: s.Height}
}

// Validate checks resolution and background color.
func (s Settings) Validate() error {
	if err := errors.ValidateResolution(s.Width, s.Height); err != nil {
		return err
	}
	if s.BackgroundColor != TransparentBgColor {
		if err := errors.ValidateColor(s.BackgroundColor); err != nil {
			return err
		}
	}
	if s.GridSize < 0 || s.MarginSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid and margin sizes must not be negative")
	}
	return nil
}

// ThemeBackground returns the default background for a theme: dark themes
// get a dark canvas.
func ThemeBackground(dark bool) string {
	if dark {
		return DarkBackground
	}
	return DefaultBackground
}
