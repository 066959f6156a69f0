package snap_test

import (
	"fmt"

	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
)

func ExampleCompute() {
	// A chart dragged to (47, 68) lands on the 20px grid.
	opts := snap.Options{SnapThreshold: 8, ShowGridGuides: true, GridSize: 20}
	res := snap.Compute(
		geometry.Rect{X: 47, Y: 68, W: 480, H: 270},
		nil,
		geometry.Size{W: 2000, H: 2000},
		opts,
	)

	fmt.Println(res.X, res.Y)
	for _, g := range res.Guides {
		fmt.Println(g.Orientation, g.Position, g.Kind)
	}
	// Output:
	// 40 60
	// vertical 40 grid
	// horizontal 60 grid
}

func ExampleDistribute() {
	targets := []snap.Target{
		{ID: "c", Rect: geometry.Rect{X: 400, Y: 0, W: 100, H: 50}},
		{ID: "a", Rect: geometry.Rect{X: 0, Y: 0, W: 100, H: 50}},
		{ID: "b", Rect: geometry.Rect{X: 130, Y: 0, W: 50, H: 50}},
	}
	placements, _ := snap.Distribute(targets, snap.Horizontal)
	for _, p := range placements {
		fmt.Println(p.ID, p.X)
	}
	// Output:
	// a 0
	// b 225
	// c 400
}
