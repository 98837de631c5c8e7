package roi

import "fmt"

// Stack holds the predicted and true ROIs of one image stack.
type Stack struct {
	// Name identifies the stack in logs and errors. Optional.
	Name      string
	Predicted []Mask
	Truth     []Mask
}

// ROI is a mask together with its position in the sequence it came from.
type ROI struct {
	Index int
	Mask  Mask
}

// Pair is a predicted ROI matched to a true ROI.
type Pair struct {
	Predicted ROI
	True      ROI
	Overlap   Overlap
}

// Categorization partitions a stack's ROIs into true positives, false
// positives and false negatives. Every predicted ROI is either in a Pair or a
// false positive; every true ROI is either in a Pair or a false negative.
type Categorization struct {
	TruePositives  []Pair
	FalsePositives []ROI
	FalseNegatives []ROI
}

// Categorize matches the predicted ROIs of a stack against its true ROIs.
//
// Predicted ROIs are visited in order. Each one is compared with every true
// ROI not yet claimed; the first true ROI with the highest IoU is claimed when
// that IoU is greater than threshold, otherwise the prediction is a false
// positive. True ROIs still unclaimed at the end are false negatives.
//
// The assignment is greedy, not globally optimal: an earlier prediction can
// take the true ROI a later prediction overlaps more.
func Categorize(stack Stack, threshold float64) (Categorization, error) {
	if err := validateStack(stack); err != nil {
		return Categorization{}, err
	}

	pool := make([]ROI, len(stack.Truth))
	for i, m := range stack.Truth {
		pool[i] = ROI{Index: i, Mask: m}
	}

	var c Categorization
	for i, pred := range stack.Predicted {
		current := ROI{Index: i, Mask: pred}

		best, bestIndex := Overlap{}, -1
		for j, candidate := range pool {
			o := computeOverlap(pred, candidate.Mask)
			if bestIndex < 0 || o.IoU > best.IoU {
				best, bestIndex = o, j
			}
		}

		if bestIndex >= 0 && best.IoU > threshold {
			c.TruePositives = append(c.TruePositives, Pair{
				Predicted: current,
				True:      pool[bestIndex],
				Overlap:   best,
			})
			pool = append(pool[:bestIndex], pool[bestIndex+1:]...)
			continue
		}
		c.FalsePositives = append(c.FalsePositives, current)
	}

	c.FalseNegatives = pool
	return c, nil
}

// validateStack checks mask values first and shapes second, so a malformed
// mask is reported even when its shape also disagrees.
func validateStack(stack Stack) error {
	for i, m := range stack.Predicted {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("predicted roi %d: %w", i, err)
		}
	}
	for i, m := range stack.Truth {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("true roi %d: %w", i, err)
		}
	}

	var ref Mask
	switch {
	case len(stack.Predicted) > 0:
		ref = stack.Predicted[0]
	case len(stack.Truth) > 0:
		ref = stack.Truth[0]
	default:
		return nil
	}

	for i, m := range stack.Predicted {
		if !m.SameShape(ref) {
			return fmt.Errorf("%w: predicted roi %d is %dx%d, expected %dx%d",
				ErrShapeMismatch, i, m.width, m.height, ref.width, ref.height)
		}
	}
	for i, m := range stack.Truth {
		if !m.SameShape(ref) {
			return fmt.Errorf("%w: true roi %d is %dx%d, expected %dx%d",
				ErrShapeMismatch, i, m.width, m.height, ref.width, ref.height)
		}
	}
	return nil
}
