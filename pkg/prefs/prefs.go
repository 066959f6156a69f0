// Package prefs stores small user preferences such as the last canvas
// resolution and background color.
//
// Values are plain strings under fixed keys. The [Store] interface has
// three backends:
//   - file: one JSON file per key under ~/.config/jfreports/prefs/
//   - redis: a single hash shared by every editor of a deployment
//   - memory: process-local, for tests
//
// The typed helpers read through [Store] and never fail on bad data: a
// missing or malformed value falls back to the canvas defaults.
package prefs

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

// Preference keys.
const (
	KeyResolution           = "dashboard-canvas-resolution"
	KeyBackgroundColor      = "dashboard-canvas-background-color"
	KeyCustomizedBackground = "user-customized-canvas-background"
)

// Store is the interface for preference backends.
type Store interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value, replacing any previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Canvas is the canvas state restored when the editor opens.
type Canvas struct {
	Resolution surface.Resolution `json:"resolution"`
	Background string             `json:"background"`

	// Customized is set once the user picks a background explicitly, after
	// which theme changes no longer replace it.
	Customized bool `json:"customized"`
}

// DefaultCanvas returns the canvas used when nothing has been stored.
func DefaultCanvas(dark bool) Canvas {
	return Canvas{
		Resolution: surface.Resolution{
			Width:  surface.DefaultWidth,
			Height: surface.DefaultHeight,
			Label:  label(surface.DefaultWidth, surface.DefaultHeight),
		},
		Background: surface.ThemeBackground(dark),
	}
}

// LoadCanvas reads the stored canvas preferences. Backend errors are
// returned alongside the defaults so callers can log and carry on.
func LoadCanvas(ctx context.Context, s Store, dark bool) (Canvas, error) {
	c := DefaultCanvas(dark)

	raw, ok, err := s.Get(ctx, KeyResolution)
	if err != nil {
		return c, err
	}
	if ok {
		var r surface.Resolution
		if json.Unmarshal([]byte(raw), &r) == nil && errors.ValidateResolution(r.Width, r.Height) == nil {
			if r.Label == "" {
				r.Label = label(r.Width, r.Height)
			}
			c.Resolution = r
		}
	}

	raw, ok, err = s.Get(ctx, KeyCustomizedBackground)
	if err != nil {
		return c, err
	}
	c.Customized = ok && raw == "true"
	if !c.Customized {
		return c, nil
	}

	raw, ok, err = s.Get(ctx, KeyBackgroundColor)
	if err != nil {
		return c, err
	}
	if ok && validBackground(raw) {
		c.Background = raw
	} else {
		c.Customized = false
	}
	return c, nil
}

// SaveResolution stores the canvas resolution after validating it.
func SaveResolution(ctx context.Context, s Store, r surface.Resolution) error {
	if err := errors.ValidateResolution(r.Width, r.Height); err != nil {
		return err
	}
	if r.Label == "" {
		r.Label = label(r.Width, r.Height)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode resolution")
	}
	return s.Set(ctx, KeyResolution, string(data))
}

// SaveBackground stores an explicit background choice and marks it as
// customized.
func SaveBackground(ctx context.Context, s Store, color string) error {
	color = strings.TrimSpace(color)
	if !validBackground(color) {
		return errors.New(errors.ErrCodeInvalidColor, "invalid background color %q", color)
	}
	if err := s.Set(ctx, KeyBackgroundColor, color); err != nil {
		return err
	}
	return s.Set(ctx, KeyCustomizedBackground, "true")
}

// ResetBackground forgets the explicit background so the theme default
// applies again.
func ResetBackground(ctx context.Context, s Store) error {
	if err := s.Delete(ctx, KeyBackgroundColor); err != nil {
		return err
	}
	return s.Delete(ctx, KeyCustomizedBackground)
}

// Resolve returns the canvas resolution matching one of the presets by
// label or "WxH" form.
func Resolve(name string) (surface.Resolution, bool) {
	name = strings.TrimSpace(name)
	for _, p := range surface.Presets {
		if strings.EqualFold(p.Label, name) || label(p.Width, p.Height) == name {
			return p, true
		}
	}
	return surface.Resolution{}, false
}

func validBackground(color string) bool {
	return color == surface.TransparentBgColor || errors.ValidateColor(color) == nil
}

// label formats a resolution as "WxH".
func label(w, h float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64) + "x" + strconv.FormatFloat(h, 'f', -1, 64)
}
