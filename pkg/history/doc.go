// Package history keeps the undo/redo timeline of a dashboard's element
// collection.
//
// # Live State vs. Bookkeeping
//
// [Store.Commit] updates the live present synchronously, so rendering never
// waits on history. Writing the history entry is debounced (100ms by
// default): a drag that commits on every pointer-move tick produces exactly
// one undo step, whose past entry is the state from before the burst.
//
//	h := history.New(initial)
//	defer h.Close()
//
//	h.Commit(a)
//	h.Commit(b) // within the debounce window: collapses with a
//	h.Undo()    // flushes the pending entry, then restores initial
//
// # Linear History
//
// A commit after an undo discards the redo branch. Undo and redo flush any
// pending debounced entry first, so the ordering seen by the user matches
// the ordering of their actions.
//
// # Value Semantics
//
// Entries are deep copies. Mutating a slice passed to Commit, or one
// returned by [Store.Present], never alters a stored entry.
package history
