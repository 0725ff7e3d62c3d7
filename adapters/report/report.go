package report

import (
	"fmt"
	"strings"

	"apgcal/adapters/stats/fit"
	"apgcal/internal/calibration"
	"apgcal/internal/interp"

	"github.com/gomarkdown/markdown"
)

// Summary collects everything a calibration report shows. Fit and
// Divergence are optional.
type Summary struct {
	Source     string
	Dataset    *calibration.Dataset
	Fit        *fit.Result
	Divergence *interp.Divergence
	// Linear marks the pressure axis as linear rather than logarithmic
	Linear bool
}

// Markdown renders the summary as a markdown document
func Markdown(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Calibration report\n\n")
	fmt.Fprintf(&b, "- Source: `%s`\n", s.Source)
	fmt.Fprintf(&b, "- Fingerprint: `%s`\n", s.Dataset.Fingerprint.Short())
	fmt.Fprintf(&b, "- Stitch mode: %s\n", s.Dataset.Mode)
	if s.Linear {
		fmt.Fprintf(&b, "- Pressure axis: linear\n")
	} else {
		fmt.Fprintf(&b, "- Pressure axis: log10\n")
	}

	fmt.Fprintf(&b, "\n## Tables\n\n")
	fmt.Fprintf(&b, "| # | Rows | Columns |\n|---|---|---|\n")
	for i, t := range s.Dataset.Tables {
		fmt.Fprintf(&b, "| %d | %d | %s |\n", i, t.Len(), strings.Join(t.Names(), ", "))
	}

	if s.Fit != nil {
		opts := s.Fit.Options
		fmt.Fprintf(&b, "\n## Polynomial fit\n\n")
		fmt.Fprintf(&b, "Order %d over %d points (chopped %d left, %d right).\n\n", opts.Order, s.Fit.Points, opts.ChopLeft, opts.ChopRight)
		fmt.Fprintf(&b, "| Power | Coefficient |\n|---|---|\n")
		for i, c := range s.Fit.Coefficients {
			fmt.Fprintf(&b, "| %d | %.6e |\n", len(s.Fit.Coefficients)-1-i, c)
		}
		fmt.Fprintf(&b, "\n- R²: %.6f\n- Residual std dev: %.4e\n- Max abs residual: %.4e\n",
			s.Fit.RSquared, s.Fit.ResidualStdDev, s.Fit.MaxAbsResidual)
	}

	if d := s.Divergence; d != nil {
		fmt.Fprintf(&b, "\n## Exact vs alternate search\n\n")
		if d.Agree() {
			fmt.Fprintf(&b, "Both methods agree on all %d queries.\n", len(d.Queries))
		} else {
			fmt.Fprintf(&b, "%d of %d queries differ:\n\n", len(d.Indices), len(d.Queries))
			fmt.Fprintf(&b, "| i | Query | Exact | Alternate |\n|---|---|---|---|\n")
			for _, i := range d.Indices {
				fmt.Fprintf(&b, "| %d | %.4f | %.4e | %.4e |\n", i, d.Queries[i], d.Exact[i], d.Alternate[i])
			}
		}
	}

	return b.String()
}

// HTML renders the summary as an HTML fragment
func HTML(s Summary) []byte {
	return markdown.ToHTML([]byte(Markdown(s)), nil, nil)
}
