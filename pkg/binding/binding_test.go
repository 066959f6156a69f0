package binding

import (
	"testing"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		data any
		want Shape
		ok   bool
	}{
		{"series", []any{1.0, 2.0}, ShapeSeries, true},
		{"network", map[string]any{"nodes": []any{}, "links": []any{}}, ShapeNetwork, true},
		{"model", map[string]any{"modelUrl": "https://example.com/a.glb"}, ShapeModel, true},
		{"model without url", map[string]any{"ambientIntensity": 0.5}, ShapeModel, true},
		{"bad model url", map[string]any{"modelUrl": 3.0}, "", false},
		{"scalar", 42.0, "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.data)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Classify() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBindCopies(t *testing.T) {
	s := New()
	in := []any{map[string]any{"name": "Mon", "value": 120}}
	if err := s.Bind("chart-1", in); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	in[0].(map[string]any)["value"] = 999
	got, ok := s.Get("chart-1")
	if !ok {
		t.Fatal("Get() ok = false")
	}
	v := got.([]any)[0].(map[string]any)["value"]
	if v != 120.0 {
		t.Errorf("stored value = %v, want 120 (caller mutation leaked)", v)
	}

	got.([]any)[0].(map[string]any)["value"] = 1.0
	again, _ := s.Get("chart-1")
	if again.([]any)[0].(map[string]any)["value"] != 120.0 {
		t.Error("mutating a Get result changed the store")
	}
}

func TestBindRejects(t *testing.T) {
	s := New()
	tests := []struct {
		name string
		id   string
		data any
	}{
		{"empty id", "", []any{}},
		{"bad shape", "c", "text"},
		{"unserializable", "c", []any{func() {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Bind(tt.id, tt.data)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Bind() error = %v, want %v", err, errors.ErrCodeInvalidInput)
			}
		})
	}
	if ids := s.IDs(); len(ids) != 0 {
		t.Errorf("IDs() = %v after rejected binds, want empty", ids)
	}
}

func TestSubscribe(t *testing.T) {
	s := New()
	var events []string
	cancel := s.Subscribe(func(id string, data any) {
		state := "set"
		if data == nil {
			state = "cleared"
		}
		events = append(events, id+":"+state)
	})

	var watched int
	stop := s.Watch("b", func(any) { watched++ })

	_ = s.Bind("a", []any{})
	_ = s.Bind("b", []any{})
	s.Clear("a")
	s.Clear("missing")
	s.ClearAll()
	stop()
	_ = s.Bind("b", []any{})
	cancel()
	_ = s.Bind("c", []any{})

	want := []string{"a:set", "b:set", "a:cleared", "b:cleared", "b:set"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, events[i], want[i])
		}
	}
	if watched != 2 {
		t.Errorf("watched = %d, want 2", watched)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a, b := New(), New()
	_ = a.Bind("chart", []any{1.0})
	if _, ok := b.Get("chart"); ok {
		t.Error("binding leaked between stores")
	}
}
