package bench

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	roi "github.com/jamesainslie/go-roi"
)

// Splits are the labeled partitions of a dataset, scored in this order.
var Splits = []string{"training", "validation", "test"}

const (
	// ScoreTextFile is the text report written into each scored split.
	ScoreTextFile = "score.txt"
	// ScoreJSONFile is the JSON report written into each scored split.
	ScoreJSONFile = "score.json"
)

// Dataset locates ground truth and detector output on disk.
//
// Ground truth lives in DataDir/<split>/<name>.<ext>; detector output for the
// same stack lives in PostprocessDir/<split>/<name>.<ext>.
type Dataset struct {
	DataDir        string
	PostprocessDir string
	Load           LoadOptions
	Logger         *slog.Logger
}

// NewDataset returns a dataset rooted at dataDir whose detector output sits in
// the sibling directory dataDir + "_postprocessed".
func NewDataset(dataDir string, load LoadOptions, logger *slog.Logger) *Dataset {
	if logger == nil {
		logger = slog.Default()
	}
	clean := filepath.Clean(dataDir)
	return &Dataset{
		DataDir:        clean,
		PostprocessDir: clean + "_postprocessed",
		Load:           load,
		Logger:         logger,
	}
}

// SplitResult is the scored outcome of one split.
type SplitResult struct {
	Split  string
	Report *roi.Report
	// Dir is where the score files were written.
	Dir string
}

// LoadSplit pairs ground truth and detector files of a split by base name.
// Stacks missing either side are skipped with a warning. Stacks are returned
// sorted by name.
func (d *Dataset) LoadSplit(split string) ([]roi.Stack, error) {
	truthFiles, err := maskFiles(filepath.Join(d.DataDir, split))
	if err != nil {
		return nil, errors.Wrap(err, "list ground truth")
	}
	predictedFiles, err := maskFiles(filepath.Join(d.PostprocessDir, split))
	if err != nil {
		return nil, errors.Wrap(err, "list detector output")
	}

	names := make([]string, 0, len(truthFiles))
	for name := range truthFiles {
		if _, ok := predictedFiles[name]; !ok {
			d.Logger.Warn("unable to score stack: missing detector data", "split", split, "stack", name)
			continue
		}
		names = append(names, name)
	}
	for name := range predictedFiles {
		if _, ok := truthFiles[name]; !ok {
			d.Logger.Warn("unable to score stack: missing ground truth data", "split", split, "stack", name)
		}
	}
	sort.Strings(names)

	stacks := make([]roi.Stack, 0, len(names))
	for _, name := range names {
		truth, err := LoadMasks(truthFiles[name], d.Load)
		if err != nil {
			return nil, errors.Wrapf(err, "ground truth %s", name)
		}
		predicted, err := LoadMasks(predictedFiles[name], d.Load)
		if err != nil {
			return nil, errors.Wrapf(err, "detector output %s", name)
		}
		stacks = append(stacks, roi.Stack{Name: name, Predicted: predicted, Truth: truth})
	}
	return stacks, nil
}

// ScoreSplits scores every split present in the dataset and writes the score
// files next to the detector output. Splits without a ground truth directory
// are skipped.
func (d *Dataset) ScoreSplits(ctx context.Context, scorer *roi.Scorer) ([]SplitResult, error) {
	var results []SplitResult
	for _, split := range Splits {
		if _, err := os.Stat(filepath.Join(d.DataDir, split)); err != nil {
			if os.IsNotExist(err) {
				d.Logger.Warn("skipping split: no ground truth directory", "split", split)
				continue
			}
			return nil, errors.Wrapf(err, "split %s", split)
		}

		stacks, err := d.LoadSplit(split)
		if err != nil {
			return nil, errors.Wrapf(err, "split %s", split)
		}

		report, err := scorer.Score(ctx, stacks)
		if err != nil {
			return nil, errors.Wrapf(err, "split %s", split)
		}

		dir := filepath.Join(d.PostprocessDir, split)
		if err := WriteReport(dir, report); err != nil {
			return nil, errors.Wrapf(err, "split %s", split)
		}
		d.Logger.Info("scored split", "split", split, "stacks", len(stacks), "f1", report.F1, "dir", dir)

		results = append(results, SplitResult{Split: split, Report: report, Dir: dir})
	}
	return results, nil
}

// WriteReport writes score.txt and score.json into dir.
func WriteReport(dir string, report *roi.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create score directory")
	}
	if err := os.WriteFile(filepath.Join(dir, ScoreTextFile), []byte(report.String()), 0o644); err != nil {
		return errors.Wrap(err, "write text report")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "encode json report")
	}
	if err := os.WriteFile(filepath.Join(dir, ScoreJSONFile), data, 0o644); err != nil {
		return errors.Wrap(err, "write json report")
	}
	return nil
}

// maskFiles maps stack name to mask file path for a directory. A missing
// directory yields no files. Two mask files with the same base name are an
// error.
func maskFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	files := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ScoreJSONFile || !IsMaskFile(entry.Name()) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if prev, ok := files[name]; ok {
			return nil, errors.Errorf("stack %q has more than one mask file: %s, %s",
				name, filepath.Base(prev), entry.Name())
		}
		files[name] = filepath.Join(dir, entry.Name())
	}
	return files, nil
}
