package roi

import (
	"log/slog"
	"runtime"
)

// DefaultMatchThreshold is the IoU a predicted ROI must exceed to be paired
// with a true ROI.
const DefaultMatchThreshold = 0.5

// Option configures a Scorer.
type Option func(*config)

type config struct {
	threshold   float64
	concurrency int
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		threshold:   DefaultMatchThreshold,
		concurrency: runtime.NumCPU(),
		logger:      slog.Default(),
	}
}

// WithMatchThreshold sets the IoU acceptance threshold (default: 0.5).
// A pair is accepted only when its IoU is strictly greater than t.
func WithMatchThreshold(t float64) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithConcurrency sets how many stacks are scored in parallel
// (default: runtime.NumCPU()).
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
