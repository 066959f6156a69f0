// Package surface is the canvas host: it owns zoom, pan, resolution,
// background, grid and margins, converts between screen and canvas space,
// and composes a frame into a flat display list.
//
// # Coordinates
//
// A [Viewport] maps screen pixels to canvas pixels:
//
//	canvas = (screen - origin - pan) / (zoom / 100)
//
// where origin is the top-left of the surface's on-screen box and pan is the
// current pan offset in screen pixels. The conversion is a value method with
// no allocation because it runs on every pointer event.
//
// # Zoom
//
// Edit mode allows 25% to 100%, view mode 25% to 200%. [AutoFit] is a pure
// function of container size, canvas size and mode; [Surface] recomputes it
// whenever one of them changes rather than adjusting the previous value.
//
// # Rendering
//
// [Registry.Compose] builds a [Scene] in painter's order: background, grid,
// margin lines, element bodies, selection outlines and handles, the rubber
// band with its size readout, and snap guides with coordinate labels.
// Element bodies come from a [RenderFunc] looked up by element type; the
// surface never reads type-specific payload fields itself. A renderer that
// fails or panics is replaced by an error placeholder for that element only.
//
// Scenes are backend-neutral. [RenderSVG] writes one as SVG; the terminal
// editor rasterizes the same primitives into a character grid.
package surface
