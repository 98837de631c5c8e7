// Package roi scores an automated region-of-interest detector against
// ground-truth annotations.
//
// Each image stack supplies two ordered collections of binary masks, the
// predicted ROIs and the true ROIs. Predicted ROIs are matched greedily, in
// input order, to the true ROI they overlap best; a match is accepted when the
// intersection-over-union exceeds the match threshold (0.5 by default). From
// the resulting true-positive pairs, false positives and false negatives the
// package derives precision, recall and F1 per stack and averaged across
// stacks, plus pixel-level boundary quality of the matched pairs.
//
// # Quick Start
//
//	report, err := roi.Score(ctx, []roi.Stack{
//	    {Name: "stack01", Predicted: predicted, Truth: truth},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(report)
//
// # Matching
//
// Matching is order dependent. A predicted ROI that comes earlier in
// the sequence claims its best true ROI even when a later prediction would
// have overlapped it more. Historical scores depend on this behaviour.
//
// # Thread Safety
//
// A Scorer holds no mutable state and is safe for concurrent use. Stacks are
// scored in parallel, bounded by WithConcurrency; the report always lists
// stacks in input order.
package roi
