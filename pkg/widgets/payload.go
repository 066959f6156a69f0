package widgets

import (
	"fmt"
	"strings"

	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

func str(p map[string]any, key, def string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return def
}

func num(p map[string]any, key string, def float64) float64 {
	if f, ok := toFloat(p[key]); ok {
		return f
	}
	return def
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// series extracts chart values from bound or stored data.
func series(data any) ([]float64, error) {
	if data == nil {
		return nil, nil
	}
	items, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("chart data must be a list, got %T", data)
	}
	out := make([]float64, 0, len(items))
	for i, it := range items {
		if f, ok := toFloat(it); ok {
			out = append(out, f)
			continue
		}
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("chart data[%d]: unsupported %T", i, it)
		}
		f, ok := toFloat(m["value"])
		if !ok {
			return nil, fmt.Errorf("chart data[%d]: missing numeric value", i)
		}
		out = append(out, f)
	}
	return out, nil
}

func alignX(x, w float64, align string) (float64, string) {
	switch align {
	case "center":
		return x + w/2, surface.AnchorMiddle
	case "right":
		return x + w, surface.AnchorEnd
	}
	return x, surface.AnchorStart
}

func wrap(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if len([]rune(cur))+1+len([]rune(w)) > width {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		lines = append(lines, cur)
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 3 || len(r) <= n {
		return s
	}
	return string(r[:n-2]) + ".."
}

func rect(x, y, w, h float64) geometry.Rect {
	return geometry.Rect{X: x, Y: y, W: w, H: h}
}
