// Package widgets provides the built-in element renderers: title, text,
// media placeholders and a generic bar-style chart used for every other
// element type.
//
// Renderers read only their own payload keys and draw into the box the
// surface hands them:
//
//	reg := widgets.NewRegistry(surface.WithLogger(logger))
//	scene := reg.Compose(frame)
package widgets
