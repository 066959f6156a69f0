package interaction

import "slices"

// Selection is an ordered set of element ids with one primary element, the
// one handles and the property panel refer to.
type Selection struct {
	ids     []string
	primary string
}

// IDs returns a copy of the selected ids in selection order.
func (s *Selection) IDs() []string { return slices.Clone(s.ids) }

// Len returns the number of selected elements.
func (s *Selection) Len() int { return len(s.ids) }

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool { return slices.Contains(s.ids, id) }

// Primary returns the primary id, or "" when nothing is selected.
func (s *Selection) Primary() string { return s.primary }

// Set replaces the selection. The last id becomes primary.
func (s *Selection) Set(ids ...string) {
	s.ids = s.ids[:0]
	s.Add(ids...)
	if len(s.ids) == 0 {
		s.primary = ""
	}
}

// Add extends the selection, skipping ids already present. The last id
// becomes primary.
func (s *Selection) Add(ids ...string) {
	for _, id := range ids {
		if !s.Has(id) {
			s.ids = append(s.ids, id)
		}
		s.primary = id
	}
}

// Toggle adds id if absent and removes it otherwise.
func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		s.Remove(id)
		return
	}
	s.Add(id)
}

// Remove drops id. If it was primary, the last remaining id takes over.
func (s *Selection) Remove(id string) {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	if s.primary == id {
		s.primary = ""
		if n := len(s.ids); n > 0 {
			s.primary = s.ids[n-1]
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = s.ids[:0]
	s.primary = ""
}
