package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	roi "github.com/jamesainslie/go-roi"
	"github.com/jamesainslie/go-roi/internal/bench"
	"github.com/jamesainslie/go-roi/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	predicted string
	truth     string
	width     int
	height    int
	radius    int
	threshold float64
	format    string
	logLevel  string
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version+" ("+commit+", "+date+")")); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "roi-cli",
		Short: "Score detected ROIs of one stack against ground truth",
		Long: "roi-cli matches the ROIs of a detector output file against a ground truth\n" +
			"file of the same stack and prints precision, recall, F1 and boundary quality.\n\n" +
			"Mask files are JSON or YAML pixel lists, or CSV centroid files.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.predicted, "predicted", "", "detector output mask file")
	f.StringVar(&opts.truth, "truth", "", "ground truth mask file")
	f.IntVar(&opts.width, "width", 0, "image width (required for CSV files)")
	f.IntVar(&opts.height, "height", 0, "image height (required for CSV files)")
	f.IntVar(&opts.radius, "radius", bench.DefaultCentroidRadius, "disk radius drawn around CSV centroids")
	f.Float64Var(&opts.threshold, "threshold", roi.DefaultMatchThreshold, "IoU a match must exceed")
	f.StringVar(&opts.format, "format", "text", "output format: text or json")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	_ = cmd.MarkFlagRequired("predicted")
	_ = cmd.MarkFlagRequired("truth")

	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel)
	if err != nil {
		return err
	}

	load := bench.LoadOptions{Width: opts.width, Height: opts.height, Radius: opts.radius}
	predicted, err := bench.LoadMasks(opts.predicted, load)
	if err != nil {
		return err
	}
	truth, err := bench.LoadMasks(opts.truth, load)
	if err != nil {
		return err
	}

	stack := roi.Stack{Name: opts.truth, Predicted: predicted, Truth: truth}
	report, err := roi.Score(cmd.Context(), []roi.Stack{stack},
		roi.WithMatchThreshold(opts.threshold),
		roi.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err = report.WriteTo(out)
	return err
}
