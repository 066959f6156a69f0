package widgets

import (
	"testing"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

func ctxFor(el dashboard.Element) surface.RenderContext {
	return surface.RenderContext{Bounds: el.Rect(), Zoom: 100, Screen: el.Rect().Size()}
}

func TestChartBars(t *testing.T) {
	el := dashboard.NewElement("bar-chart", geometry.Point{X: 500, Y: 500})
	items, err := Chart(el, ctxFor(el))
	if err != nil {
		t.Fatalf("Chart() error = %v", err)
	}
	// frame, title, five bars
	if len(items) != 7 {
		t.Fatalf("items = %d, want 7", len(items))
	}
	if items[1].Text != "Bar Chart" {
		t.Errorf("title = %q, want %q", items[1].Text, "Bar Chart")
	}
	tallest := items[3]
	for _, p := range items[2:] {
		if p.H > tallest.H {
			t.Errorf("bar %v taller than the max value bar", p)
		}
	}
}

func TestChartRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{"not a list", "oops"},
		{"bad item", []any{true}},
		{"missing value", []any{map[string]any{"name": "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := dashboard.Element{ID: "c", Type: "line-chart", Width: 400, Height: 300, Payload: map[string]any{"data": tt.data}}
			if _, err := Chart(el, ctxFor(el)); err == nil {
				t.Error("Chart() error = nil, want error")
			}
		})
	}
}

func TestRegistryRendersErrorPlaceholder(t *testing.T) {
	reg := NewRegistry()
	el := dashboard.Element{ID: "c", Type: "pie-chart", Width: 400, Height: 300, Payload: map[string]any{"data": 42.0}}
	scene := reg.Compose(surface.Frame{Settings: surface.DefaultSettings(), Zoom: 100, Elements: []dashboard.Element{el}})

	items := scene.ElementItems("c")
	if len(items) == 0 || items[0].Layer != surface.LayerError {
		t.Errorf("items = %+v, want error placeholder", items)
	}
}

func TestRegistryTypes(t *testing.T) {
	got := NewRegistry().Types()
	want := []string{"audio", "image", "text", "title", "video"}
	if len(got) != len(want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTextWraps(t *testing.T) {
	el := dashboard.Element{ID: "t", Type: "text", Width: 100, Height: 200, Payload: map[string]any{
		"content":  "one two three four five six seven",
		"fontSize": 10.0,
	}}
	items, err := Text(el, ctxFor(el))
	if err != nil {
		t.Fatal(err)
	}
	// 84px / 6px per char = 14 chars per line
	lines := items[1:]
	want := []string{"one two three", "four five six", "seven"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %d, want %d", len(lines), len(want))
	}
	for i, l := range lines {
		if l.Text != want[i] {
			t.Errorf("line %d = %q, want %q", i, l.Text, want[i])
		}
	}
}

func TestTitleAlign(t *testing.T) {
	el := dashboard.NewElement(dashboard.TypeTitle, geometry.Point{X: 240, Y: 60})
	items, _ := Title(el, ctxFor(el))
	last := items[len(items)-1]
	if last.Anchor != surface.AnchorMiddle || last.X != 240 {
		t.Errorf("title text at x=%v anchor=%v, want 240 middle", last.X, last.Anchor)
	}
	if !last.Bold {
		t.Error("title not bold")
	}
}
