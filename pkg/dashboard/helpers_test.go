package dashboard

import "github.com/zwdscn-cloud/JFreports/pkg/geometry"

func geometryPoint(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

func sample(n int) []Element {
	ids := []string{"e0", "e1", "e2", "e3", "e4", "e5", "e6", "e7"}
	out := make([]Element, n)
	for i := 0; i < n; i++ {
		out[i] = Element{ID: ids[i], Type: "bar-chart", X: float64(i * 200), Y: 0, Width: 150, Height: 100}
	}
	return out
}
