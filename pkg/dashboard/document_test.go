package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
)

func richElements() []Element {
	return []Element{
		{
			ID: "bar-1", Type: "bar-chart", X: 12.5, Y: 40, Width: 480, Height: 270,
			ZIndex: intPtr(2),
			Payload: map[string]any{
				"title":        "Revenue",
				"opacity":      100.0,
				"showLegend":   true,
				"isPreviewing": false,
				"data": []any{
					map[string]any{"name": "Mon", "value": 120.0},
				},
				"tableData": map[string]any{"rows": []any{[]any{"a", 1.0}}},
				"themeId":   nil,
			},
		},
		{
			ID: "title-1", Type: "title", X: 0, Y: 0, Width: 480, Height: 120,
			ZIndex: intPtr(1), PositionLocked: true,
			Payload: map[string]any{"content": "Dashboard", "fontSize": 32.0},
		},
		{ID: "plain", Type: "image", X: 700, Y: 300, Width: 200, Height: 100},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	state := State{
		Theme:    "DA004",
		Canvas:   CanvasSettings{Width: 1920, Height: 1080, BackgroundColor: "#1a1a1a"},
		Elements: richElements(),
	}
	doc := NewDocument(state, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	if doc.Timestamp != "2024-05-01T10:00:00.000Z" {
		t.Errorf("Timestamp = %q", doc.Timestamp)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	loaded := got.Apply(State{Theme: DefaultTheme})
	if loaded.Theme != "DA004" {
		t.Errorf("Theme = %q, want DA004", loaded.Theme)
	}
	if loaded.Canvas != state.Canvas {
		t.Errorf("Canvas = %+v, want %+v", loaded.Canvas, state.Canvas)
	}
	if len(loaded.Elements) != len(state.Elements) {
		t.Fatalf("len(Elements) = %d, want %d", len(loaded.Elements), len(state.Elements))
	}
	for i := range state.Elements {
		if !loaded.Elements[i].Equal(state.Elements[i]) {
			t.Errorf("element %d = %+v, want %+v", i, loaded.Elements[i], state.Elements[i])
		}
	}
}

func TestDecodeRejectsBadElements(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing elements", `{"version":"1.0"}`},
		{"elements object", `{"elements":{}}`},
		{"elements string", `{"elements":"[]"}`},
		{"elements null", `{"elements":null}`},
		{"top-level array", `[]`},
		{"not json", `hello`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Decode(%s) error = %v, want INVALID_FORMAT", tt.in, err)
			}
			if err != nil && errors.UserMessage(err) != "invalid dashboard file format" {
				t.Errorf("UserMessage = %q", errors.UserMessage(err))
			}
		})
	}
}

func TestApplyFallbacks(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"elements":[]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	cur := State{
		Theme:    "DA002",
		Canvas:   CanvasSettings{Width: 2000, Height: 2000, BackgroundColor: "#ffffff"},
		Elements: richElements(),
	}
	next := doc.Apply(cur)
	if next.Theme != "DA002" {
		t.Errorf("Theme = %q, want current DA002", next.Theme)
	}
	if next.Canvas != cur.Canvas {
		t.Errorf("Canvas = %+v, want current", next.Canvas)
	}
	if len(next.Elements) != 0 {
		t.Errorf("Elements = %d, want 0", len(next.Elements))
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	doc := NewDocument(State{
		Canvas:   CanvasSettings{Width: 2000, Height: 2000, BackgroundColor: "#ffffff"},
		Elements: richElements()[1:],
	}, time.Unix(0, 0))

	var buf bytes.Buffer
	if err := EncodeYAML(&buf, doc); err != nil {
		t.Fatalf("EncodeYAML() error = %v", err)
	}
	got, err := DecodeYAML(&buf)
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v\n%s", err, buf.String())
	}
	if got.ActiveTheme != DefaultTheme {
		t.Errorf("ActiveTheme = %q, want %q", got.ActiveTheme, DefaultTheme)
	}
	if len(got.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(got.Elements))
	}
	title := got.Elements[0]
	if title.ID != "title-1" || !title.PositionLocked || title.Height != 120 {
		t.Errorf("title element = %+v", title)
	}
	if title.Payload["content"] != "Dashboard" {
		t.Errorf("content = %v", title.Payload["content"])
	}
}

func TestDecodeYAMLRejectsBadElements(t *testing.T) {
	for _, in := range []string{"version: '1.0'\n", "elements: {}\n", "- 1\n"} {
		if _, err := DecodeYAML(strings.NewReader(in)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("DecodeYAML(%q) error = %v, want INVALID_FORMAT", in, err)
		}
	}
}
