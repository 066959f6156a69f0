// Package interaction implements the canvas pointer state machine.
//
// A [Controller] turns raw pointer events into rubber-band selection, rigid
// group moves with snapping, eight-handle resizing and panning. It reads and
// writes elements only through a [dashboard.Collection], records finished
// gestures in a [history.Store], and converts screen coordinates through the
// [surface.Surface] it is given.
//
// # States
//
//	idle ──down on empty (select tool)──▶ selecting ──up──▶ idle
//	idle ──down on empty (pan tool)─────▶ panningCanvas ──up──▶ idle
//	idle ──down on element body────────▶ draggingSelection ──up──▶ idle
//	idle ──down on resize handle───────▶ resizing ──up──▶ idle
//
// A press on an element only becomes a move once the pointer travels
// [DragThreshold] screen pixels; releasing before that is a click. Plain
// click selects only the clicked element, shift-click toggles it, and a
// click on empty canvas clears the selection.
//
// If an element involved in a gesture disappears from the collection, the
// next pointer move aborts the gesture and returns to idle.
//
// # Rendering
//
// Pointer moves fire faster than frames. The controller requests at most one
// redraw per host frame through a [debounce.Frame]; hosts call
// [Controller.Tick] once per frame and draw [Controller.Overlay].
//
// The controller is not safe for concurrent use. Hosts deliver events from a
// single loop.
package interaction
