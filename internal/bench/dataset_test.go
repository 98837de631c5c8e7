package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roi "github.com/jamesainslie/go-roi"
)

const (
	squareDoc = `{"width": 4, "height": 4, "rois": [[[0, 0], [1, 0], [0, 1], [1, 1]]]}`
	cornerDoc = `{"width": 4, "height": 4, "rois": [[[3, 3]]]}`
)

func newTestDataset(t *testing.T) (*Dataset, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewDataset(filepath.Join(t.TempDir(), "labeled"), LoadOptions{}, logger), &logs
}

func TestNewDataset(t *testing.T) {
	d := NewDataset("/data/labeled/", LoadOptions{}, nil)

	assert.Equal(t, "/data/labeled", d.DataDir)
	assert.Equal(t, "/data/labeled_postprocessed", d.PostprocessDir)
	assert.NotNil(t, d.Logger)
}

func TestLoadSplitPairsByName(t *testing.T) {
	d, logs := newTestDataset(t)

	writeFile(t, filepath.Join(d.DataDir, "test", "b.json"), squareDoc)
	writeFile(t, filepath.Join(d.DataDir, "test", "a.json"), squareDoc)
	writeFile(t, filepath.Join(d.DataDir, "test", "only-truth.json"), squareDoc)
	writeFile(t, filepath.Join(d.DataDir, "test", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(d.PostprocessDir, "test", "a.json"), squareDoc)
	writeFile(t, filepath.Join(d.PostprocessDir, "test", "b.json"), cornerDoc)
	writeFile(t, filepath.Join(d.PostprocessDir, "test", "only-detector.json"), squareDoc)
	writeFile(t, filepath.Join(d.PostprocessDir, "test", ScoreJSONFile), `{}`)

	stacks, err := d.LoadSplit("test")
	require.NoError(t, err)

	require.Len(t, stacks, 2)
	assert.Equal(t, "a", stacks[0].Name)
	assert.Equal(t, "b", stacks[1].Name)
	assert.Equal(t, 1.0, stacks[1].Predicted[0].At(3, 3))

	out := logs.String()
	assert.Contains(t, out, "missing detector data")
	assert.Contains(t, out, "stack=only-truth")
	assert.Contains(t, out, "missing ground truth data")
	assert.Contains(t, out, "stack=only-detector")
	assert.NotContains(t, out, "stack=score")
}

func TestLoadSplitDuplicateStackName(t *testing.T) {
	d, _ := newTestDataset(t)

	writeFile(t, filepath.Join(d.DataDir, "test", "a.json"), squareDoc)
	writeFile(t, filepath.Join(d.DataDir, "test", "a.yaml"), "width: 4\nheight: 4\nrois: []\n")
	writeFile(t, filepath.Join(d.PostprocessDir, "test", "a.json"), squareDoc)

	_, err := d.LoadSplit("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list ground truth")
	assert.Contains(t, err.Error(), `stack "a" has more than one mask file: a.json, a.yaml`)
}

func TestScoreSplits(t *testing.T) {
	d, logs := newTestDataset(t)

	writeFile(t, filepath.Join(d.DataDir, "training", "s1.json"), squareDoc)
	writeFile(t, filepath.Join(d.PostprocessDir, "training", "s1.json"), squareDoc)
	writeFile(t, filepath.Join(d.DataDir, "test", "s2.json"), squareDoc)
	writeFile(t, filepath.Join(d.PostprocessDir, "test", "s2.json"), cornerDoc)

	scorer, err := roi.New(roi.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)

	results, err := d.ScoreSplits(context.Background(), scorer)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "training", results[0].Split)
	assert.Equal(t, 1.0, results[0].Report.F1)
	assert.Equal(t, "test", results[1].Split)
	assert.Equal(t, 0.0, results[1].Report.F1)
	assert.Contains(t, logs.String(), "split=validation")

	text, err := os.ReadFile(filepath.Join(d.PostprocessDir, "training", ScoreTextFile))
	require.NoError(t, err)
	assert.Equal(t, results[0].Report.String(), string(text))

	data, err := os.ReadFile(filepath.Join(d.PostprocessDir, "test", ScoreJSONFile))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 0.0, doc["f1"])
}

func TestScoreSplitsPropagatesStackErrors(t *testing.T) {
	d, _ := newTestDataset(t)

	writeFile(t, filepath.Join(d.DataDir, "validation", "s1.json"), squareDoc)
	writeFile(t, filepath.Join(d.PostprocessDir, "validation", "s1.json"),
		`{"width": 5, "height": 4, "rois": [[[0, 0]]]}`)

	scorer, err := roi.New()
	require.NoError(t, err)

	_, err = d.ScoreSplits(context.Background(), scorer)
	require.ErrorIs(t, err, roi.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "split validation")
	assert.Contains(t, err.Error(), "s1")

	_, statErr := os.Stat(filepath.Join(d.PostprocessDir, "validation", ScoreTextFile))
	assert.True(t, os.IsNotExist(statErr))
}
