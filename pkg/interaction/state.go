package interaction

import "github.com/zwdscn-cloud/JFreports/pkg/geometry"

// State is the controller's current gesture.
type State int

const (
	StateIdle State = iota
	StateSelecting
	StateDraggingSelection
	StateResizing
	StatePanningCanvas
)

// String returns the state name used in logs and hooks.
func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateDraggingSelection:
		return "draggingSelection"
	case StateResizing:
		return "resizing"
	case StatePanningCanvas:
		return "panningCanvas"
	}
	return "idle"
}

// Tool is the active pointer tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
)

// String returns "select" or "pan".
func (t Tool) String() string {
	if t == ToolPan {
		return "pan"
	}
	return "select"
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every key in m is held.
func (mods Modifiers) Has(m Modifiers) bool { return mods&m == m }

// PointerEvent is a pointer position in screen pixels plus held modifiers.
type PointerEvent struct {
	Screen geometry.Point
	Mods   Modifiers
}

// At builds a pointer event at screen position (x, y).
func At(x, y float64, mods ...Modifiers) PointerEvent {
	ev := PointerEvent{Screen: geometry.Point{X: x, Y: y}}
	for _, m := range mods {
		ev.Mods |= m
	}
	return ev
}
