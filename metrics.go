package roi

// StackMetrics holds detection counts and scores for one stack.
type StackMetrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
}

// ComputeMetrics derives precision, recall and F1 from a categorization.
// Ratios with a zero denominator are 0.
func ComputeMetrics(c Categorization) StackMetrics {
	tp := len(c.TruePositives)
	fp := len(c.FalsePositives)
	fn := len(c.FalseNegatives)

	m := StackMetrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	m.F1 = f1Score(m.Precision, m.Recall)

	return m
}

// f1Score is the harmonic mean of precision and recall, 0 when recall is 0.
func f1Score(precision, recall float64) float64 {
	if recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
