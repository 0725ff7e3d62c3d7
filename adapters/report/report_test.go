package report

import (
	"testing"

	"apgcal/adapters/stats/fit"
	"apgcal/internal/calibration"
	"apgcal/internal/interp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownAndHTML(t *testing.T) {
	ds, err := calibration.BuildDataset(calibration.ReferenceTable(), calibration.BuildOptions{Mode: calibration.ModeWindowed})
	require.NoError(t, err)

	summary := Summary{
		Source:  "embedded",
		Dataset: ds,
		Fit: &fit.Result{
			Polynomial: fit.Polynomial{Coefficients: []float64{1.5, -2}},
			Options:    fit.Options{Order: 1},
			Points:     47,
			RSquared:   0.99,
		},
		Divergence: &interp.Divergence{
			Queries:   []float64{1, 2},
			Exact:     []float64{1, 4},
			Alternate: []float64{1, 3},
			Indices:   []int{1},
		},
	}

	md := Markdown(summary)
	assert.Contains(t, md, "- Stitch mode: windowed")
	assert.Contains(t, md, "- Pressure axis: log10")
	assert.Contains(t, md, "| 1 | 24 | Pressure (mbar), Output voltage (V), Pressure (torr) |")
	assert.Contains(t, md, "| 1 | 1.500000e+00 |")
	assert.Contains(t, md, "1 of 2 queries differ")

	html := string(HTML(summary))
	assert.Contains(t, html, "<h1>Calibration report</h1>")
	assert.Contains(t, html, "<table>")
}

func TestMarkdownAgreement(t *testing.T) {
	ds, err := calibration.BuildDataset(calibration.ReferenceTable(), calibration.BuildOptions{Mode: calibration.ModeCombine})
	require.NoError(t, err)

	md := Markdown(Summary{
		Dataset:    ds,
		Linear:     true,
		Divergence: &interp.Divergence{Queries: make([]float64, 803)},
	})
	assert.Contains(t, md, "Both methods agree on all 803 queries.")
	assert.Contains(t, md, "- Pressure axis: linear")
	assert.NotContains(t, md, "Polynomial fit")
}
