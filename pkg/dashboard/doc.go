// Package dashboard holds the element collection of a dashboard canvas and
// the save/load document format.
//
// # Elements
//
// An [Element] carries the geometry the canvas engine works with (ID, Type,
// X, Y, Width, Height, ZIndex, PositionLocked). Everything else a chart or
// media component needs (title, data, colors, preview flags) lives in
// [Element.Payload] and is passed through untouched. JSON and YAML encoding
// flatten the payload back into the element object, so a file written by
// another tool keeps every field it had.
//
// # Collection
//
// [Collection] is the single source of truth for the live element list. It
// is mutated only through its operations ([Collection.Update],
// [Collection.Remove], [Collection.Duplicate], [Collection.Reorder], ...)
// and notifies subscribers after every change instead of being polled.
//
// # Layer Order
//
// Array order is the source of truth for stacking. Index 0 is the front-most
// layer and a reorder renumbers every element with
//
//	zIndex = len(elements) - index
//
// so ZIndex is strictly decreasing along the array. Elements without a
// ZIndex fall back to the same rank derived from their index; see
// [PaintOrder].
//
// # Documents
//
// [Document] is the persisted file:
//
//	{
//	  "version": "1.0",
//	  "timestamp": "2024-05-01T10:00:00.000Z",
//	  "activeTheme": "DA001",
//	  "canvasSettings": {"width": 2000, "height": 2000, "backgroundColor": "#1a1a1a"},
//	  "elements": [ ... ]
//	}
//
// [Decode] rejects any input whose "elements" field is missing or not an
// array, returning an INVALID_FORMAT error and leaving callers' state alone.
package dashboard
