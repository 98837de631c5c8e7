// Package bench loads labeled ROI datasets from disk, scores them and
// persists the results.
package bench

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	roi "github.com/jamesainslie/go-roi"
)

// DefaultCentroidRadius is the disk radius drawn around each centroid read
// from a CSV file.
const DefaultCentroidRadius = 5

// ErrUnsupportedFormat indicates a mask file extension the loader cannot read.
var ErrUnsupportedFormat = errors.New("bench: unsupported mask file format")

// LoadOptions controls how mask files are turned into masks.
type LoadOptions struct {
	// Width and Height are the image size. Required for CSV files; when set,
	// JSON and YAML documents must declare the same size.
	Width  int
	Height int
	// Radius is the disk radius for CSV centroids (default 5).
	Radius int
}

func (o LoadOptions) radius() int {
	if o.Radius > 0 {
		return o.Radius
	}
	return DefaultCentroidRadius
}

// maskDocument is the JSON and YAML layout of a mask file: the image size and
// one list of [x, y] pixel coordinates per ROI.
type maskDocument struct {
	Width  int       `json:"width" yaml:"width"`
	Height int       `json:"height" yaml:"height"`
	ROIs   [][][]int `json:"rois" yaml:"rois"`
}

// IsMaskFile reports whether the loader understands the file extension.
func IsMaskFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml", ".csv":
		return true
	}
	return false
}

// LoadMasks reads the ROIs of one stack from a mask file.
func LoadMasks(path string, opts LoadOptions) ([]roi.Mask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read mask file")
	}

	var masks []roi.Mask
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var doc maskDocument
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrapf(err, "decode %s", filepath.Base(path))
		}
		masks, err = doc.masks(opts)
	case ".yaml", ".yml":
		var doc maskDocument
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "decode %s", filepath.Base(path))
		}
		masks, err = doc.masks(opts)
	case ".csv":
		masks, err = centroidMasks(bytes.NewReader(data), opts)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filepath.Base(path))
	}
	return masks, nil
}

func (d maskDocument) masks(opts LoadOptions) ([]roi.Mask, error) {
	if d.Width < 0 || d.Height < 0 {
		return nil, errors.Wrapf(roi.ErrShapeMismatch, "document is %dx%d", d.Width, d.Height)
	}
	if opts.Width > 0 && opts.Height > 0 && (d.Width != opts.Width || d.Height != opts.Height) {
		return nil, errors.Wrapf(roi.ErrShapeMismatch, "document is %dx%d, expected %dx%d",
			d.Width, d.Height, opts.Width, opts.Height)
	}

	masks := make([]roi.Mask, 0, len(d.ROIs))
	for i, coords := range d.ROIs {
		pts := make([]image.Point, 0, len(coords))
		for _, c := range coords {
			if len(c) != 2 {
				return nil, errors.Errorf("roi %d: coordinate %v is not an [x, y] pair", i, c)
			}
			pts = append(pts, image.Pt(c[0], c[1]))
		}
		m, err := roi.MaskFromPoints(d.Width, d.Height, pts)
		if err != nil {
			return nil, errors.Wrapf(err, "roi %d", i)
		}
		masks = append(masks, m)
	}
	return masks, nil
}

// centroidMasks reads "x,y" rows and draws a disk around each centroid.
func centroidMasks(r io.Reader, opts LoadOptions) ([]roi.Mask, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("image width and height are required for centroid files")
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var masks []roi.Mask
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		if len(record) < 2 {
			return nil, errors.Errorf("line %d: expected x,y", line)
		}
		x, errX := strconv.Atoi(strings.TrimSpace(record[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(record[1]))
		if errX != nil || errY != nil {
			return nil, errors.Errorf("line %d: invalid centroid %q", line, strings.Join(record, ","))
		}
		center := image.Pt(x, y)
		if !center.In(image.Rect(0, 0, opts.Width, opts.Height)) {
			return nil, errors.Wrapf(roi.ErrPointOutOfBounds, "line %d: %v", line, center)
		}
		masks = append(masks, roi.Disk(opts.Width, opts.Height, center, opts.radius()))
	}
	return masks, nil
}
