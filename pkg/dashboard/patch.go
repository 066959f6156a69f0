package dashboard

import "reflect"

// Patch is a partial update. Nil fields are left alone. A Payload entry
// with a nil value deletes that key. Negative positions apply as zero and
// sizes below MinWidth or MinHeight apply as the minimum.
type Patch struct {
	X, Y           *float64
	Width, Height  *float64
	ZIndex         *int
	PositionLocked *bool
	Payload        map[string]any
}

// MovePatch sets the position.
func MovePatch(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// BoundsPatch sets position and size.
func BoundsPatch(x, y, w, h float64) Patch {
	return Patch{X: &x, Y: &y, Width: &w, Height: &h}
}

// PayloadPatch sets a single payload key.
func PayloadPatch(key string, value any) Patch {
	return Patch{Payload: map[string]any{key: value}}
}

// LockPatch sets the position lock.
func LockPatch(locked bool) Patch {
	return Patch{PositionLocked: &locked}
}

// Empty reports whether the patch names no field.
func (p Patch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.ZIndex == nil && p.PositionLocked == nil && len(p.Payload) == 0
}

// clamped returns p with positions raised to zero and sizes to the minimum,
// the bounds [Normalize] applies to whole documents.
func (p Patch) clamped() Patch {
	clamp := func(v *float64, lo float64) *float64 {
		if v == nil || *v >= lo {
			return v
		}
		return &lo
	}
	p.X = clamp(p.X, 0)
	p.Y = clamp(p.Y, 0)
	p.Width = clamp(p.Width, MinWidth)
	p.Height = clamp(p.Height, MinHeight)
	return p
}

// changes reports whether applying p to e would alter any value.
func (p Patch) changes(e Element) bool {
	p = p.clamped()
	if p.X != nil && *p.X != e.X ||
		p.Y != nil && *p.Y != e.Y ||
		p.Width != nil && *p.Width != e.Width ||
		p.Height != nil && *p.Height != e.Height ||
		p.PositionLocked != nil && *p.PositionLocked != e.PositionLocked {
		return true
	}
	if p.ZIndex != nil && (e.ZIndex == nil || *e.ZIndex != *p.ZIndex) {
		return true
	}
	for k, v := range p.Payload {
		cur, ok := e.Payload[k]
		if v == nil {
			if ok {
				return true
			}
			continue
		}
		if !ok || !reflect.DeepEqual(cur, v) {
			return true
		}
	}
	return false
}

// apply returns e with p applied. e is not modified.
func (p Patch) apply(e Element) Element {
	p = p.clamped()
	out := e.Clone()
	if p.X != nil {
		out.X = *p.X
	}
	if p.Y != nil {
		out.Y = *p.Y
	}
	if p.Width != nil {
		out.Width = *p.Width
	}
	if p.Height != nil {
		out.Height = *p.Height
	}
	if p.ZIndex != nil {
		z := *p.ZIndex
		out.ZIndex = &z
	}
	if p.PositionLocked != nil {
		out.PositionLocked = *p.PositionLocked
	}
	if len(p.Payload) > 0 {
		if out.Payload == nil {
			out.Payload = make(map[string]any, len(p.Payload))
		}
		for k, v := range p.Payload {
			if v == nil {
				delete(out.Payload, k)
				continue
			}
			out.Payload[k] = cloneValue(v)
		}
		if len(out.Payload) == 0 {
			out.Payload = nil
		}
	}
	return out
}
