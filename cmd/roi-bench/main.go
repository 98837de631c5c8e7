package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	roi "github.com/jamesainslie/go-roi"
	"github.com/jamesainslie/go-roi/internal/bench"
	"github.com/jamesainslie/go-roi/internal/config"
	"github.com/jamesainslie/go-roi/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	configPath  string
	dataDir     string
	width       int
	height      int
	radius      int
	threshold   float64
	concurrency int
	logLevel    string

	sweep     bool
	sweepMin  float64
	sweepMax  float64
	sweepStep float64
	split     string
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version+" ("+commit+", "+date+")")); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "roi-bench",
		Short: "Score detector output for every split of a labeled dataset",
		Long: "roi-bench pairs ground truth in <data_dir>/<split>/ with detector output in\n" +
			"<data_dir>_postprocessed/<split>/ by file name, scores each split and writes\n" +
			"score.txt and score.json next to the detector output.\n\n" +
			"With --sweep it scores one split at a range of match thresholds instead.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.sweep {
				return runSweep(cmd, cfg, opts)
			}
			return runSplits(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.StringVar(&opts.dataDir, "data-dir", "", "labeled dataset directory (overrides general.data_dir)")
	f.IntVar(&opts.width, "width", 0, "image width (overrides general.img_width)")
	f.IntVar(&opts.height, "height", 0, "image height (overrides general.img_height)")
	f.IntVar(&opts.radius, "radius", bench.DefaultCentroidRadius, "CSV centroid disk radius (overrides scoring.centroid_radius)")
	f.Float64Var(&opts.threshold, "threshold", roi.DefaultMatchThreshold, "IoU a match must exceed (overrides scoring.match_threshold)")
	f.IntVar(&opts.concurrency, "concurrency", 0, "stacks scored in parallel, 0 for one per CPU (overrides scoring.concurrency)")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (overrides logging.level)")
	f.BoolVar(&opts.sweep, "sweep", false, "run a match threshold sweep")
	f.Float64Var(&opts.sweepMin, "sweep-min", 0.1, "sweep minimum threshold")
	f.Float64Var(&opts.sweepMax, "sweep-max", 0.95, "sweep maximum threshold (exclusive)")
	f.Float64Var(&opts.sweepStep, "sweep-step", 0.05, "sweep step size")
	f.StringVar(&opts.split, "split", "validation", "split scored by the sweep")

	return cmd
}

// resolveConfig loads the configuration file, if any, and applies the flags
// the user set on top of it.
func resolveConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	f := cmd.Flags()
	if f.Changed("data-dir") {
		cfg.General.DataDir = opts.dataDir
	}
	if f.Changed("width") {
		cfg.General.ImgWidth = opts.width
	}
	if f.Changed("height") {
		cfg.General.ImgHeight = opts.height
	}
	if f.Changed("radius") {
		cfg.Scoring.CentroidRadius = opts.radius
	}
	if f.Changed("threshold") {
		cfg.Scoring.MatchThreshold = opts.threshold
	}
	if f.Changed("concurrency") {
		cfg.Scoring.Concurrency = opts.concurrency
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.General.DataDir == "" {
		return cfg, errors.New("no data directory: set general.data_dir or --data-dir")
	}
	return cfg, nil
}

func runSplits(cmd *cobra.Command, cfg config.Config) error {
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level)
	if err != nil {
		return err
	}

	scorer, err := roi.New(append(cfg.ScorerOptions(), roi.WithLogger(logger))...)
	if err != nil {
		return err
	}

	dataset := bench.NewDataset(cfg.General.DataDir, cfg.LoadOptions(), logger)
	results, err := dataset.ScoreSplits(cmd.Context(), scorer)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no splits found in %s", cfg.General.DataDir)
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "== %s (%d stacks) -> %s\n", r.Split, len(r.Report.Stacks), r.Dir)
		if _, err := r.Report.WriteTo(out); err != nil {
			return err
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, cfg config.Config, opts options) error {
	if !slices.Contains(bench.Splits, opts.split) {
		return fmt.Errorf("unknown split %q, want one of %s", opts.split, strings.Join(bench.Splits, ", "))
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level)
	if err != nil {
		return err
	}

	dataset := bench.NewDataset(cfg.General.DataDir, cfg.LoadOptions(), logger)
	stacks, err := dataset.LoadSplit(opts.split)
	if err != nil {
		return err
	}
	if len(stacks) == 0 {
		return fmt.Errorf("no stacks to score in split %s", opts.split)
	}

	thresholds := bench.SweepThresholds(opts.sweepMin, opts.sweepMax, opts.sweepStep)
	results, err := bench.Sweep(cmd.Context(), stacks, thresholds, append(cfg.ScorerOptions(), roi.WithLogger(logger))...)
	if err != nil {
		return err
	}

	printSweep(cmd.OutOrStdout(), opts.split, thresholds, results)
	return nil
}

func printSweep(w io.Writer, split string, thresholds []float64, results []bench.SweepResult) {
	fmt.Fprintf(w, "Threshold Sweep Results (%s)\n", split)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%-8s %-8s %-8s %-8s\n", "Thresh", "Prec", "Rec", "F1")

	// Print sorted by threshold for readability
	for _, t := range thresholds {
		for _, r := range results {
			if r.Threshold == t {
				fmt.Fprintf(w, "%-8.3f %-8.3f %-8.3f %-8.3f\n",
					r.Threshold, r.Report.Precision, r.Report.Recall, r.Report.F1)
				break
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("-", 40))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(w, "Optimal: %.3f (F1: %.3f)\n", best.Threshold, best.Report.F1)
	}
}
