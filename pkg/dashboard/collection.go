package dashboard

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
)

// Listener receives a snapshot of the collection after every change. The
// snapshot is the listener's own copy.
type Listener func(elements []Element)

// Collection is the ordered list of placed elements. All methods are safe
// for concurrent use; listeners run after the lock is released, on the
// goroutine that made the change.
type Collection struct {
	mu        sync.RWMutex
	elements  []Element
	listeners map[int]Listener
	nextID    int
}

// NewCollection returns a collection holding copies of elements.
func NewCollection(elements []Element) *Collection {
	return &Collection{elements: CloneAll(elements)}
}

// NewID returns a fresh element id prefixed with the element type.
func NewID(elementType string) string {
	prefix := strings.TrimSpace(elementType)
	if prefix == "" {
		prefix = "element"
	}
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Subscribe registers fn and returns a function that removes it.
func (c *Collection) Subscribe(fn Listener) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners == nil {
		c.listeners = make(map[int]Listener)
	}
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// publish notifies listeners. It must be called without c.mu held.
func (c *Collection) publish() {
	c.mu.RLock()
	if len(c.listeners) == 0 {
		c.mu.RUnlock()
		return
	}
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, len(ids))
	for i, id := range ids {
		fns[i] = c.listeners[id]
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(c.Elements())
	}
}

// Len returns the number of elements.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.elements)
}

// Elements returns a deep copy of the elements in array order.
func (c *Collection) Elements() []Element {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CloneAll(c.elements)
}

// Get returns a copy of the element with the given id.
func (c *Collection) Get(id string) (Element, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.index(id)
	if i < 0 {
		return Element{}, false
	}
	return c.elements[i].Clone(), true
}

// Has reports whether id is present.
func (c *Collection) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index(id) >= 0
}

// IndexOf returns the array position of id, or -1.
func (c *Collection) IndexOf(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index(id)
}

func (c *Collection) index(id string) int {
	return slices.IndexFunc(c.elements, func(e Element) bool { return e.ID == id })
}

// ranked reports whether any element carries an explicit zIndex. c.mu is held.
func (c *Collection) ranked() bool {
	return slices.ContainsFunc(c.elements, func(e Element) bool { return e.ZIndex != nil })
}

// renumber assigns zIndex = len - index to every element. c.mu is held.
func (c *Collection) renumber() {
	n := len(c.elements)
	for i := range c.elements {
		z := n - i
		c.elements[i].ZIndex = &z
	}
}

// Add appends el. An empty id is replaced with a fresh one. Adding a
// duplicate id fails with INVALID_ELEMENT. When the collection already
// carries zIndex values they are renumbered to keep them in step with
// array order.
func (c *Collection) Add(el Element) (Element, error) {
	c.mu.Lock()
	if el.ID == "" {
		el.ID = NewID(el.Type)
	}
	if c.index(el.ID) >= 0 {
		c.mu.Unlock()
		return Element{}, errors.New(errors.ErrCodeInvalidElement, "duplicate element id %q", el.ID)
	}
	el = el.Clone()
	c.elements = append(c.elements, el)
	if c.ranked() {
		c.renumber()
	}
	out := c.elements[len(c.elements)-1].Clone()
	c.mu.Unlock()

	c.publish()
	return out, nil
}

// Update applies a partial update and reports whether anything changed.
// A patch whose every field already equals the current value is a no-op:
// it neither modifies the element nor notifies listeners.
func (c *Collection) Update(id string, p Patch) bool {
	c.mu.Lock()
	i := c.index(id)
	if i < 0 || !p.changes(c.elements[i]) {
		c.mu.Unlock()
		return false
	}
	c.elements[i] = p.apply(c.elements[i])
	c.mu.Unlock()

	c.publish()
	return true
}

// UpdateMany applies several patches with a single notification. It
// reports whether any element changed.
func (c *Collection) UpdateMany(patches map[string]Patch) bool {
	c.mu.Lock()
	changed := false
	for id, p := range patches {
		i := c.index(id)
		if i < 0 || !p.changes(c.elements[i]) {
			continue
		}
		c.elements[i] = p.apply(c.elements[i])
		changed = true
	}
	c.mu.Unlock()

	if changed {
		c.publish()
	}
	return changed
}

// Remove deletes the element with the given id.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.elements = slices.Delete(c.elements, i, i+1)
	c.mu.Unlock()

	c.publish()
	return true
}

// Duplicate copies an element under a new id, offset by DuplicateOffset on
// both axes. The copy is inserted directly in front of the original so it
// stacks above it.
func (c *Collection) Duplicate(id string) (Element, bool) {
	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return Element{}, false
	}
	dup := c.elements[i].Clone()
	dup.ID = NewID(dup.Type)
	for c.index(dup.ID) >= 0 {
		dup.ID = NewID(dup.Type)
	}
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	c.elements = slices.Insert(c.elements, i, dup)
	if c.ranked() {
		c.renumber()
	}
	out := c.elements[i].Clone()
	c.mu.Unlock()

	c.publish()
	return out, true
}

// Reorder moves an element to newIndex, clamped to [0, len-1], and
// renumbers every element's zIndex as len - index.
func (c *Collection) Reorder(id string, newIndex int) bool {
	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	newIndex = max(0, min(newIndex, len(c.elements)-1))
	el := c.elements[i]
	c.elements = slices.Delete(c.elements, i, i+1)
	c.elements = slices.Insert(c.elements, newIndex, el)
	c.renumber()
	c.mu.Unlock()

	c.publish()
	return true
}

// BringToFront moves id to index 0.
func (c *Collection) BringToFront(id string) bool { return c.Reorder(id, 0) }

// SendToBack moves id to the last index.
func (c *Collection) SendToBack(id string) bool { return c.Reorder(id, c.Len()-1) }

// Replace swaps in a whole new element list, as undo, redo and load do.
func (c *Collection) Replace(elements []Element) {
	c.mu.Lock()
	c.elements = CloneAll(elements)
	c.mu.Unlock()

	c.publish()
}

// Targets returns the id, type and bounds of every element whose id is
// not excluded, in array order.
func (c *Collection) Targets(exclude func(id string) bool) []snap.Target {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]snap.Target, 0, len(c.elements))
	for _, e := range c.elements {
		if exclude != nil && exclude(e.ID) {
			continue
		}
		out = append(out, e.Target())
	}
	return out
}
