package roi

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Scorer scores predicted ROIs against true ROIs across image stacks.
// It is safe for concurrent use.
type Scorer struct {
	threshold   float64
	concurrency int
	logger      *slog.Logger
}

// New creates a Scorer.
func New(opts ...Option) (*Scorer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// NaN fails both comparisons.
	if !(cfg.threshold >= 0 && cfg.threshold < 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, cfg.threshold)
	}

	return &Scorer{
		threshold:   cfg.threshold,
		concurrency: cfg.concurrency,
		logger:      cfg.logger,
	}, nil
}

// Score is a shorthand for New followed by Scorer.Score.
func Score(ctx context.Context, stacks []Stack, opts ...Option) (*Report, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.Score(ctx, stacks)
}

// Threshold returns the IoU acceptance threshold.
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Score categorizes every stack and builds the report.
//
// Stacks are independent and scored in parallel. Any stack failing with a
// shape or mask value error aborts the run with a *StackError; no partial
// report is returned.
func (s *Scorer) Score(ctx context.Context, stacks []Stack) (*Report, error) {
	scores := make([]StackScore, len(stacks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, stack := range stacks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := s.ScoreStack(stack)
			if err != nil {
				return &StackError{Stack: i, Name: stack.Name, Err: err}
			}
			scores[i] = score
			s.logger.Debug("scored stack",
				"stack", i,
				"name", stack.Name,
				"tp", score.Metrics.TruePositives,
				"fp", score.Metrics.FalsePositives,
				"fn", score.Metrics.FalseNegatives,
				"f1", score.Metrics.F1,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := BuildReport(scores)
	s.logger.Info("scoring complete",
		"stacks", len(stacks),
		"threshold", s.threshold,
		"precision", report.Precision,
		"recall", report.Recall,
		"f1", report.F1,
	)
	return report, nil
}

// ScoreStack scores a single stack.
func (s *Scorer) ScoreStack(stack Stack) (StackScore, error) {
	c, err := Categorize(stack, s.threshold)
	if err != nil {
		return StackScore{}, err
	}
	return StackScore{
		Name:           stack.Name,
		Categorization: c,
		Metrics:        ComputeMetrics(c),
		Boundary:       ComputeBoundaryQuality(c.TruePositives),
	}, nil
}
