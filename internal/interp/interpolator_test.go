package interp

import (
	"context"
	"testing"

	"apgcal/domain/core"
	"apgcal/internal/calibration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolatorValidates(t *testing.T) {
	_, err := NewInterpolator([]float64{1}, []float64{1}, MethodExact)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = NewInterpolator([]float64{1, 2}, []float64{1}, MethodExact)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestInterpolatorCopiesSamples(t *testing.T) {
	xs := []float64{0, 1}
	ys := []float64{0, 2}
	ip, err := NewInterpolator(xs, ys, MethodExact)
	require.NoError(t, err)

	ys[1] = 100
	assert.Equal(t, 1.0, ip.At(0.5))
	lo, hi := ip.Domain()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestGridPointsHistorical(t *testing.T) {
	g801 := GridPoints(2.0, 0, 801, 100)
	require.Len(t, g801, 801)
	assert.Equal(t, 2.0, g801[0])
	assert.Equal(t, 2.0+800/100.0, g801[800])

	g803 := GridPoints(2.0, -1, 803, 100)
	require.Len(t, g803, 803)
	assert.InDelta(t, 1.99, g803[0], 1e-12)
	assert.Equal(t, g801[0], g803[1])
}

func TestSegmentedMatchesCombined(t *testing.T) {
	text := calibration.ReferenceTable()
	windowed, err := calibration.BuildDataset(text, calibration.BuildOptions{Mode: calibration.ModeWindowed})
	require.NoError(t, err)
	combined, err := calibration.BuildDataset(text, calibration.BuildOptions{Mode: calibration.ModeCombine})
	require.NoError(t, err)

	wSeries, err := windowed.SelectSeries(calibration.MarkerVolts, calibration.MarkerTorr)
	require.NoError(t, err)
	cSeries, err := combined.SelectSeries(calibration.MarkerVolts, calibration.MarkerTorr)
	require.NoError(t, err)

	seg, err := NewSegmented(wSeries, MethodExact)
	require.NoError(t, err)
	assert.Equal(t, 2, seg.Segments())
	flat, err := NewInterpolator(cSeries[0].X, cSeries[0].Y, MethodExact)
	require.NoError(t, err)

	qs := GridPoints(1.9, 0, 830, 100)
	assert.Equal(t, flat.Grid(qs), seg.Grid(qs))
}

func TestCompareReferenceGridAgrees(t *testing.T) {
	xs, ys := referenceSeries(t)

	d, err := Compare(context.Background(), GridPoints(2.0, -1, 803, 100), xs, ys)
	require.NoError(t, err)
	assert.True(t, d.Agree())
	assert.Empty(t, d.Indices)
	assert.Len(t, d.Exact, 803)
}

func TestCompareLargeTableSnapshot(t *testing.T) {
	xs, ys := squares(100)
	qs := GridPoints(0, 0, 199, 2)

	d, err := Compare(context.Background(), qs, xs, ys)
	require.NoError(t, err)

	var want []int
	for i := 129; i <= 198; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, d.Indices)

	again, err := Compare(context.Background(), qs, xs, ys)
	require.NoError(t, err)
	assert.Equal(t, d.Indices, again.Indices)
}

func TestCompareHonorsCancellation(t *testing.T) {
	xs, ys := squares(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compare(ctx, GridPoints(0, 0, 10, 1), xs, ys)
	assert.ErrorIs(t, err, context.Canceled)
}
