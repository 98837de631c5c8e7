package roi

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Overlap describes how a predicted mask and a true mask coincide.
type Overlap struct {
	// Intersection is the number of pixels set in both masks.
	Intersection float64
	// IoU is the intersection over the union of both pixel sets.
	IoU float64
	// Precision is the share of predicted pixels that are also true pixels.
	Precision float64
	// Recall is the share of true pixels covered by the prediction.
	Recall float64
}

// ComputeOverlap compares a predicted mask p with a true mask t.
//
// When the masks do not intersect every ratio is 0, which also covers two
// empty masks.
func ComputeOverlap(p, t Mask) (Overlap, error) {
	if !p.SameShape(t) {
		return Overlap{}, fmt.Errorf("%w: predicted %dx%d, true %dx%d",
			ErrShapeMismatch, p.width, p.height, t.width, t.height)
	}
	return computeOverlap(p, t), nil
}

// computeOverlap assumes both masks share a shape.
func computeOverlap(p, t Mask) Overlap {
	intersection := floats.Dot(p.pix, t.pix)
	if intersection == 0 {
		return Overlap{}
	}

	pred := floats.Sum(p.pix)
	truth := floats.Sum(t.pix)
	union := pred + truth - intersection

	return Overlap{
		Intersection: intersection,
		IoU:          intersection / union,
		Precision:    intersection / pred,
		Recall:       intersection / truth,
	}
}
