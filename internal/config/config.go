// Package config loads the YAML run configuration of the ROI binaries.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	roi "github.com/jamesainslie/go-roi"
	"github.com/jamesainslie/go-roi/internal/bench"
)

// Config is the run configuration.
type Config struct {
	General General `yaml:"general"`
	Scoring Scoring `yaml:"scoring"`
	Logging Logging `yaml:"logging"`
}

// General locates the dataset and sizes its images.
type General struct {
	DataDir   string `yaml:"data_dir"`
	ImgWidth  int    `yaml:"img_width"`
	ImgHeight int    `yaml:"img_height"`
}

// Scoring controls matching and the scoring worker count.
type Scoring struct {
	MatchThreshold float64 `yaml:"match_threshold"`
	// Concurrency of 0 means one worker per CPU.
	Concurrency    int `yaml:"concurrency"`
	CentroidRadius int `yaml:"centroid_radius"`
}

// Logging selects the log level: debug, info, warn or error.
type Logging struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scoring: Scoring{
			MatchThreshold: roi.DefaultMatchThreshold,
			CentroidRadius: bench.DefaultCentroidRadius,
		},
		Logging: Logging{Level: "info"},
	}
}

// Load reads and validates the configuration file at path. Keys missing from
// the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a YAML configuration from r on top of Default, rejecting
// unknown keys, and validates the result. An empty document yields the
// defaults.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.General.ImgWidth < 0 || c.General.ImgHeight < 0 {
		return fmt.Errorf("config: image size %dx%d must not be negative", c.General.ImgWidth, c.General.ImgHeight)
	}
	if !(c.Scoring.MatchThreshold >= 0 && c.Scoring.MatchThreshold < 1) {
		return fmt.Errorf("config: match_threshold %v must be in [0, 1)", c.Scoring.MatchThreshold)
	}
	if c.Scoring.Concurrency < 0 {
		return errors.New("config: concurrency must be >= 0")
	}
	if c.Scoring.CentroidRadius <= 0 {
		return errors.New("config: centroid_radius must be > 0")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Logging.Level))); err != nil {
		return fmt.Errorf("config: logging level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// LoadOptions returns the mask loader settings of the configuration.
func (c Config) LoadOptions() bench.LoadOptions {
	return bench.LoadOptions{
		Width:  c.General.ImgWidth,
		Height: c.General.ImgHeight,
		Radius: c.Scoring.CentroidRadius,
	}
}

// ScorerOptions returns the scorer options of the configuration.
func (c Config) ScorerOptions() []roi.Option {
	opts := []roi.Option{roi.WithMatchThreshold(c.Scoring.MatchThreshold)}
	if c.Scoring.Concurrency > 0 {
		opts = append(opts, roi.WithConcurrency(c.Scoring.Concurrency))
	}
	return opts
}
