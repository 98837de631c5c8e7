package roi

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// BoundaryQuality summarises the pixel-level precision and recall of matched
// pairs. Standard deviations are population standard deviations.
//
// Without pairs the statistics are undefined: every field is NaN and Defined
// reports false.
type BoundaryQuality struct {
	MeanPrecision float64
	StdPrecision  float64
	MeanRecall    float64
	StdRecall     float64
	// Pairs is the number of true-positive pairs the statistics cover.
	Pairs int
}

// Defined reports whether the statistics were computed from at least one pair.
func (b BoundaryQuality) Defined() bool {
	return b.Pairs > 0
}

// ComputeBoundaryQuality computes boundary quality over true-positive pairs.
func ComputeBoundaryQuality(pairs []Pair) BoundaryQuality {
	if len(pairs) == 0 {
		nan := math.NaN()
		return BoundaryQuality{
			MeanPrecision: nan,
			StdPrecision:  nan,
			MeanRecall:    nan,
			StdRecall:     nan,
		}
	}

	precisions := make([]float64, len(pairs))
	recalls := make([]float64, len(pairs))
	for i, p := range pairs {
		precisions[i] = p.Overlap.Precision
		recalls[i] = p.Overlap.Recall
	}

	var b BoundaryQuality
	b.MeanPrecision, b.StdPrecision = stat.PopMeanStdDev(precisions, nil)
	b.MeanRecall, b.StdRecall = stat.PopMeanStdDev(recalls, nil)
	b.Pairs = len(pairs)
	return b
}
