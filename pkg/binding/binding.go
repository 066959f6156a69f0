// Package binding holds live data bound to chart elements for one dashboard
// session.
//
// A [Store] is created per session and passed to whatever needs it; there is
// no process-wide instance. Writers call [Store.Bind] and the store notifies
// subscribers, so readers never poll. Data is deep-copied on the way in and
// on the way out, so neither side can mutate the other's copy.
package binding

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
)

// Shape classifies bound data.
type Shape string

const (
	// ShapeSeries is a list of data points.
	ShapeSeries Shape = "series"
	// ShapeNetwork is an object with "nodes" and "links" lists.
	ShapeNetwork Shape = "network"
	// ShapeModel is an object describing a 3D model, with an optional
	// string "modelUrl".
	ShapeModel Shape = "model"
)

// Listener is called after id's data changes. data is nil when the binding
// was cleared.
type Listener func(id string, data any)

// Store maps element ids to bound data.
type Store struct {
	mu        sync.RWMutex
	data      map[string]any
	listeners map[int]Listener
	nextID    int
}

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[string]any), listeners: make(map[int]Listener)}
}

// Classify reports the shape of data, or false if it is none of the
// supported shapes.
func Classify(data any) (Shape, bool) {
	switch v := data.(type) {
	case []any:
		return ShapeSeries, true
	case map[string]any:
		_, nodes := v["nodes"].([]any)
		_, links := v["links"].([]any)
		if nodes && links {
			return ShapeNetwork, true
		}
		if u, ok := v["modelUrl"]; !ok || isString(u) {
			return ShapeModel, true
		}
	}
	return "", false
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// Bind stores a copy of data for id and notifies subscribers. Data that is
// not JSON-shaped or not a supported shape is rejected with INVALID_INPUT
// and leaves the store unchanged.
func (s *Store) Bind(id string, data any) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidInput, "element id is required")
	}
	cp, err := deepCopy(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "data for %s is not serializable", id)
	}
	if _, ok := Classify(cp); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "data for %s must be a list, a network object or a model object", id)
	}

	s.mu.Lock()
	s.data[id] = cp
	s.mu.Unlock()

	s.notify(id, cp)
	return nil
}

// Get returns a copy of id's data and whether it is bound.
func (s *Store) Get(id string) (any, bool) {
	s.mu.RLock()
	v, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	cp, _ := deepCopy(v)
	return cp, true
}

// IDs returns the bound element ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for id := range s.data {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clear removes id's binding.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	_, ok := s.data[id]
	delete(s.data, id)
	s.mu.Unlock()

	if ok {
		s.notify(id, nil)
	}
}

// ClearAll removes every binding, as ending a session does.
func (s *Store) ClearAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	s.data = make(map[string]any)
	s.mu.Unlock()

	sort.Strings(ids)
	for _, id := range ids {
		s.notify(id, nil)
	}
}

// Subscribe registers fn for every change and returns a cancel func.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Watch is Subscribe filtered to a single element id.
func (s *Store) Watch(id string, fn func(data any)) (cancel func()) {
	return s.Subscribe(func(changed string, data any) {
		if changed == id {
			fn(data)
		}
	})
}

func (s *Store) notify(id string, data any) {
	s.mu.RLock()
	keys := make([]int, 0, len(s.listeners))
	for k := range s.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fns := make([]Listener, 0, len(keys))
	for _, k := range keys {
		fns = append(fns, s.listeners[k])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		var v any
		if data != nil {
			v, _ = deepCopy(data)
		}
		fn(id, v)
	}
}

// deepCopy round-trips v through JSON, which also normalizes numbers to
// float64 and maps to map[string]any.
func deepCopy(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
