package dashboard

import (
	"encoding/json"
	"maps"
	"math"
	"reflect"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
)

// Size limits enforced on resize and duplicate offsets.
const (
	MinWidth        = 100
	MinHeight       = 80
	DuplicateOffset = 20
)

// Payload keys the engine itself reads or writes.
const (
	KeyIsPreviewing = "isPreviewing"
	KeyTitle        = "title"
	KeyData         = "data"
)

// coreKeys are the element fields held in struct fields rather than Payload.
var coreKeys = []string{"id", "type", "x", "y", "width", "height", "zIndex", "positionLocked"}

// Element is a placed object on the canvas.
type Element struct {
	ID             string
	Type           string
	X              float64
	Y              float64
	Width          float64
	Height         float64
	ZIndex         *int
	PositionLocked bool

	// Payload holds every other field verbatim.
	Payload map[string]any
}

// Rect returns the element's bounding box.
func (e Element) Rect() geometry.Rect {
	return geometry.Rect{X: e.X, Y: e.Y, W: e.Width, H: e.Height}
}

// Target returns the element as a snap target.
func (e Element) Target() snap.Target {
	return snap.Target{ID: e.ID, Type: e.Type, Rect: e.Rect()}
}

// Title returns the payload title, if it is a string.
func (e Element) Title() string {
	s, _ := e.Payload[KeyTitle].(string)
	return s
}

// IsPreviewing reports whether the element's owner put it in preview mode.
func (e Element) IsPreviewing() bool {
	b, _ := e.Payload[KeyIsPreviewing].(bool)
	return b
}

// Clone returns a deep copy; the payload shares no maps or slices with e.
func (e Element) Clone() Element {
	c := e
	if e.ZIndex != nil {
		z := *e.ZIndex
		c.ZIndex = &z
	}
	if e.Payload != nil {
		c.Payload = cloneValue(e.Payload).(map[string]any)
	}
	return c
}

// Equal reports whether e and o hold the same values.
func (e Element) Equal(o Element) bool {
	if e.ID != o.ID || e.Type != o.Type || e.X != o.X || e.Y != o.Y ||
		e.Width != o.Width || e.Height != o.Height || e.PositionLocked != o.PositionLocked {
		return false
	}
	if (e.ZIndex == nil) != (o.ZIndex == nil) || (e.ZIndex != nil && *e.ZIndex != *o.ZIndex) {
		return false
	}
	if len(e.Payload) != len(o.Payload) {
		return false
	}
	return len(e.Payload) == 0 || reflect.DeepEqual(e.Payload, o.Payload)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	case []map[string]any:
		s := make([]map[string]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv).(map[string]any)
		}
		return s
	default:
		return v
	}
}

// CloneAll deep-copies a slice of elements.
func CloneAll(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = e.Clone()
	}
	return out
}

// =============================================================================
// Encoding
// =============================================================================

// toMap flattens the element into a single object.
func (e Element) toMap() map[string]any {
	m := make(map[string]any, len(e.Payload)+len(coreKeys))
	maps.Copy(m, e.Payload)
	m["id"] = e.ID
	m["type"] = e.Type
	m["x"] = e.X
	m["y"] = e.Y
	m["width"] = e.Width
	m["height"] = e.Height
	if e.ZIndex != nil {
		m["zIndex"] = *e.ZIndex
	}
	if e.PositionLocked {
		m["positionLocked"] = true
	}
	return m
}

// fromMap fills e from a decoded object. Numbers may arrive as any Go
// numeric type depending on the codec.
func (e *Element) fromMap(m map[string]any) error {
	var err error
	str := func(key string) string {
		v, ok := m[key]
		if !ok || v == nil {
			return ""
		}
		s, ok := v.(string)
		if !ok && err == nil {
			err = errors.New(errors.ErrCodeInvalidElement, "element field %q must be a string", key)
		}
		return s
	}
	num := func(key string) float64 {
		v, ok := m[key]
		if !ok || v == nil {
			return 0
		}
		f, ok := toFloat(v)
		if !ok && err == nil {
			err = errors.New(errors.ErrCodeInvalidElement, "element field %q must be a number", key)
		}
		return f
	}

	*e = Element{
		ID:     str("id"),
		Type:   str("type"),
		X:      num("x"),
		Y:      num("y"),
		Width:  num("width"),
		Height: num("height"),
	}
	if v, ok := m["zIndex"]; ok && v != nil {
		f := num("zIndex")
		if f != math.Trunc(f) && err == nil {
			err = errors.New(errors.ErrCodeInvalidElement, "element field \"zIndex\" must be an integer")
		}
		z := int(f)
		e.ZIndex = &z
	}
	if v, ok := m["positionLocked"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok && err == nil {
			err = errors.New(errors.ErrCodeInvalidElement, "element field \"positionLocked\" must be a boolean")
		}
		e.PositionLocked = b
	}
	if err != nil {
		return err
	}

	for k, v := range m {
		if isCoreKey(k) {
			continue
		}
		if e.Payload == nil {
			e.Payload = make(map[string]any)
		}
		e.Payload[k] = v
	}
	return nil
}

func isCoreKey(k string) bool {
	for _, c := range coreKeys {
		if c == k {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// MarshalJSON writes the element as one flat object.
func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toMap())
}

// UnmarshalJSON reads a flat element object.
func (e *Element) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		return errors.New(errors.ErrCodeInvalidElement, "element must be an object")
	}
	return e.fromMap(m)
}

// MarshalYAML implements yaml.Marshaler.
func (e Element) MarshalYAML() (any, error) {
	return e.toMap(), nil
}
