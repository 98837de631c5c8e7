package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roi "github.com/jamesainslie/go-roi"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.5, cfg.Scoring.MatchThreshold)
	assert.Equal(t, 5, cfg.Scoring.CentroidRadius)
	assert.Equal(t, 0, cfg.Scoring.Concurrency)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
general:
  data_dir: /data/labeled
  img_width: 512
  img_height: 256
scoring:
  match_threshold: 0.3
  concurrency: 4
logging:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "/data/labeled", cfg.General.DataDir)
	assert.Equal(t, 512, cfg.General.ImgWidth)
	assert.Equal(t, 256, cfg.General.ImgHeight)
	assert.Equal(t, 0.3, cfg.Scoring.MatchThreshold)
	assert.Equal(t, 4, cfg.Scoring.Concurrency)
	assert.Equal(t, 5, cfg.Scoring.CentroidRadius, "missing key keeps default")
	assert.Equal(t, "debug", cfg.Logging.Level)

	load := cfg.LoadOptions()
	assert.Equal(t, 512, load.Width)
	assert.Equal(t, 256, load.Height)
	assert.Equal(t, 5, load.Radius)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"unknown key", "general:\n  data: x\n", "decode"},
		{"threshold too high", "scoring:\n  match_threshold: 1\n", "match_threshold"},
		{"negative threshold", "scoring:\n  match_threshold: -0.1\n", "match_threshold"},
		{"nan threshold", "scoring:\n  match_threshold: .nan\n", "match_threshold"},
		{"negative concurrency", "scoring:\n  concurrency: -2\n", "concurrency"},
		{"zero radius", "scoring:\n  centroid_radius: 0\n", "centroid_radius"},
		{"negative size", "general:\n  img_width: -1\n", "image size"},
		{"bad level", "logging:\n  level: loud\n", "logging level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  match_threshold: 0.25\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Scoring.MatchThreshold)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScorerOptions(t *testing.T) {
	cfg := Default()
	cfg.Scoring.MatchThreshold = 0.2

	scorer, err := roi.New(cfg.ScorerOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 0.2, scorer.Threshold())

	cfg.Scoring.Concurrency = 3
	assert.Len(t, cfg.ScorerOptions(), 2)
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "roi.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data/labeled", cfg.General.DataDir)
	assert.Equal(t, roi.DefaultMatchThreshold, cfg.Scoring.MatchThreshold)
	assert.Equal(t, "info", cfg.Logging.Level)
}
