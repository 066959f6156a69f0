// Package workspace wires one editing session together.
//
// A [Session] owns the element collection, the undo history, the canvas
// surface, the interaction controller, the bound-data store and the
// renderer registry, and keeps them in step:
//
//   - gestures commit to history through the controller
//   - undo and redo replace the collection and prune the selection
//   - loading a document replaces canvas, theme and elements as one
//     undoable step
//   - bound data is merged into element payloads when a scene is composed
//
// Hosts (the terminal editor, the HTTP server, CLI batch commands) create a
// Session, feed it input and ask it for scenes. A Session is not safe for
// concurrent use; hosts serialize calls the same way they serialize input
// events.
//
// # Usage
//
//	s := workspace.New(surface.DefaultSettings(), surface.ModeEdit,
//	    workspace.WithLogger(logger))
//	defer s.Close()
//
//	if err := s.LoadFile("board.json"); err != nil {
//	    return err
//	}
//	s.Controller().PointerDown(interaction.At(120, 80))
//	s.Controller().PointerUp(interaction.At(160, 80))
//	svg := surface.RenderSVG(s.Scene())
package workspace
