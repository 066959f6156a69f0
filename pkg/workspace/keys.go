package workspace

// Arrow-key nudge distances in canvas pixels.
const (
	NudgeStep      = 1
	NudgeShiftStep = 10
)

// HandleKey runs the editor shortcut bound to key, in the "ctrl+shift+z"
// form terminal hosts report. It reports whether the key was consumed.
//
//	ctrl+z                undo
//	ctrl+shift+z, ctrl+y  redo
//	delete, backspace     delete selection
//	ctrl+d                duplicate selection
//	ctrl+a                select all
//	arrows                nudge by 1px, 10px with shift
//	esc                   leave preview mode
func (s *Session) HandleKey(key string) bool {
	switch key {
	case "ctrl+z":
		return s.Undo()
	case "ctrl+shift+z", "ctrl+y":
		return s.Redo()
	case "delete", "backspace":
		return s.Delete() > 0
	case "ctrl+d":
		return len(s.Duplicate()) > 0
	case "ctrl+a":
		var ids []string
		for _, el := range s.coll.Elements() {
			ids = append(ids, el.ID)
		}
		s.ctrl.Select(ids...)
		return len(ids) > 0
	}
	if dx, dy, ok := nudge(key); ok {
		return s.Nudge(dx, dy)
	}
	return s.ctrl.KeyDown(key)
}

func nudge(key string) (dx, dy float64, ok bool) {
	step := float64(NudgeStep)
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		step = NudgeShiftStep
		key = key[len("shift+"):]
	}
	switch key {
	case "left":
		return -step, 0, true
	case "right":
		return step, 0, true
	case "up":
		return 0, -step, true
	case "down":
		return 0, step, true
	}
	return 0, 0, false
}
