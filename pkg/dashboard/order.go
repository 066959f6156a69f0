package dashboard

import (
	"slices"

	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
)

// rank returns the stacking rank of the element at index i: its zIndex, or
// the rank a renumber would give it.
func rank(elements []Element, i int) int {
	if z := elements[i].ZIndex; z != nil {
		return *z
	}
	return len(elements) - i
}

// PaintOrder returns element indices from back to front. Higher zIndex
// paints later; on equal rank the element nearer the front of the array
// paints later.
func PaintOrder(elements []Element) []int {
	idx := make([]int, len(elements))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		ra, rb := rank(elements, a), rank(elements, b)
		if ra != rb {
			return ra - rb
		}
		return b - a
	})
	return idx
}

// HitTest returns the index of the front-most element containing p, or -1.
func HitTest(elements []Element, p geometry.Point) int {
	order := PaintOrder(elements)
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		if elements[i].Rect().Contains(p) {
			return i
		}
	}
	return -1
}

// RanksConsistent reports whether every element has a zIndex and the
// values strictly decrease along the array.
func RanksConsistent(elements []Element) bool {
	for i, e := range elements {
		if e.ZIndex == nil {
			return false
		}
		if i > 0 && *e.ZIndex >= *elements[i-1].ZIndex {
			return false
		}
	}
	return true
}
