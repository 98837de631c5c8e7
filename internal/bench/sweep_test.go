package bench

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roi "github.com/jamesainslie/go-roi"
)

func TestSweepThresholds(t *testing.T) {
	thresholds := SweepThresholds(0.1, 0.9, 0.2)

	want := []float64{0.1, 0.3, 0.5, 0.7}
	require.Len(t, thresholds, len(want))
	for i := range want {
		assert.InDelta(t, want[i], thresholds[i], 1e-9, "threshold[%d]", i)
	}

	assert.Empty(t, SweepThresholds(0.5, 0.1, 0.1))
	assert.Empty(t, SweepThresholds(0.1, 0.5, 0))
}

func TestSweep(t *testing.T) {
	var truthPts, predPts []image.Point
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			truthPts = append(truthPts, image.Pt(x, y))
			if y < 7 {
				predPts = append(predPts, image.Pt(x, y))
			}
		}
	}
	truth, err := roi.MaskFromPoints(10, 10, truthPts)
	require.NoError(t, err)
	predicted, err := roi.MaskFromPoints(10, 10, predPts) // IoU 0.7
	require.NoError(t, err)

	stacks := []roi.Stack{{Predicted: []roi.Mask{predicted}, Truth: []roi.Mask{truth}}}

	results, err := Sweep(context.Background(), stacks, []float64{0.9, 0.5, 0.8, 0.6})
	require.NoError(t, err)

	require.Len(t, results, 4)
	assert.Equal(t, 0.5, results[0].Threshold)
	assert.Equal(t, 0.6, results[1].Threshold)
	assert.Equal(t, 1.0, results[0].Report.F1)
	assert.Equal(t, 0.9, results[2].Threshold)
	assert.Equal(t, 0.8, results[3].Threshold)
	assert.Equal(t, 0.0, results[3].Report.F1)
}

func TestSweepInvalidThreshold(t *testing.T) {
	_, err := Sweep(context.Background(), nil, []float64{0.5, 1.5})
	assert.ErrorIs(t, err, roi.ErrInvalidThreshold)
}
