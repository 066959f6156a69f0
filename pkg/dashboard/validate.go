package dashboard

import (
	stderrors "errors"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
)

// Validate checks the collection invariants: non-empty unique ids,
// non-negative positions and the minimum size. It returns every violation
// joined into one error, or nil.
func Validate(elements []Element) error {
	var errs []error
	seen := make(map[string]bool, len(elements))
	for i, e := range elements {
		switch {
		case e.ID == "":
			errs = append(errs, errors.New(errors.ErrCodeInvalidElement, "element %d has no id", i))
		case seen[e.ID]:
			errs = append(errs, errors.New(errors.ErrCodeInvalidElement, "duplicate element id %q", e.ID))
		}
		seen[e.ID] = true

		if e.X < 0 || e.Y < 0 {
			errs = append(errs, errors.New(errors.ErrCodeInvalidElement, "element %q has negative position (%g, %g)", e.ID, e.X, e.Y))
		}
		if e.Width < MinWidth || e.Height < MinHeight {
			errs = append(errs, errors.New(errors.ErrCodeInvalidElement, "element %q is %gx%g, below the %dx%d minimum", e.ID, e.Width, e.Height, MinWidth, MinHeight))
		}
	}
	return stderrors.Join(errs...)
}

// Normalize clamps positions to be non-negative and sizes to the minimum.
// It returns a new slice.
func Normalize(elements []Element) []Element {
	out := CloneAll(elements)
	for i := range out {
		out[i].X = max(0, out[i].X)
		out[i].Y = max(0, out[i].Y)
		out[i].Width = max(MinWidth, out[i].Width)
		out[i].Height = max(MinHeight, out[i].Height)
	}
	return out
}
