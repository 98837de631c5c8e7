package bench

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	roi "github.com/jamesainslie/go-roi"
)

// SweepResult holds the report for one match threshold.
type SweepResult struct {
	Threshold float64
	Report    *roi.Report
}

// SweepThresholds generates threshold values from min (inclusive) to max
// (exclusive) with the given step.
func SweepThresholds(min, max, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	var thresholds []float64
	for i := 0; ; i++ {
		t := min + float64(i)*step
		if t >= max {
			break
		}
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep scores the stacks at every threshold and returns results sorted by
// total F1, best first. Equal scores keep threshold order.
func Sweep(ctx context.Context, stacks []roi.Stack, thresholds []float64, opts ...roi.Option) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(thresholds))

	for _, threshold := range thresholds {
		scorer, err := roi.New(append(opts[:len(opts):len(opts)], roi.WithMatchThreshold(threshold))...)
		if err != nil {
			return nil, err
		}

		report, err := scorer.Score(ctx, stacks)
		if err != nil {
			return nil, errors.Wrapf(err, "threshold %.3f", threshold)
		}

		results = append(results, SweepResult{
			Threshold: threshold,
			Report:    report,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Report.F1 > results[j].Report.F1
	})

	return results, nil
}
