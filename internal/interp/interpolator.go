package interp

import (
	"fmt"

	"apgcal/domain/core"
	"apgcal/internal/calibration"
)

// Interpolator binds one pair of sample columns to a search method. It never
// changes after construction and is safe for concurrent use.
type Interpolator struct {
	xs, ys []float64
	method Method
	search SearchFunc
}

// NewInterpolator checks the length preconditions and copies the samples
func NewInterpolator(xs, ys []float64, method Method) (*Interpolator, error) {
	if err := checkSeries(xs, ys); err != nil {
		return nil, err
	}
	return &Interpolator{
		xs:     append([]float64(nil), xs...),
		ys:     append([]float64(nil), ys...),
		method: method,
		search: Search(method),
	}, nil
}

// At returns the interpolated value at q
func (ip *Interpolator) At(q float64) float64 {
	return ip.search(q, ip.xs, ip.ys)
}

// Grid evaluates every query in qs
func (ip *Interpolator) Grid(qs []float64) []float64 {
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = ip.At(q)
	}
	return out
}

// Method returns the search method in use
func (ip *Interpolator) Method() Method { return ip.method }

// Domain returns the first and last sample positions
func (ip *Interpolator) Domain() (float64, float64) {
	return ip.xs[0], ip.xs[len(ip.xs)-1]
}

// Len returns the number of samples
func (ip *Interpolator) Len() int { return len(ip.xs) }

// Segmented answers queries over the tables of a windowed dataset. A query is
// routed to the first table whose last sample is at or beyond it, or to the
// last table when it lies past every table.
type Segmented struct {
	parts []*Interpolator
}

// NewSegmented builds one interpolator per series
func NewSegmented(series []calibration.Series, method Method) (*Segmented, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no series to interpolate", core.ErrInsufficientData)
	}
	parts := make([]*Interpolator, len(series))
	for i, s := range series {
		ip, err := NewInterpolator(s.X, s.Y, method)
		if err != nil {
			return nil, fmt.Errorf("series %d: %w", i, err)
		}
		parts[i] = ip
	}
	return &Segmented{parts: parts}, nil
}

// At returns the interpolated value at q
func (s *Segmented) At(q float64) float64 {
	for _, ip := range s.parts {
		if _, hi := ip.Domain(); q <= hi {
			return ip.At(q)
		}
	}
	return s.parts[len(s.parts)-1].At(q)
}

// Grid evaluates every query in qs
func (s *Segmented) Grid(qs []float64) []float64 {
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = s.At(q)
	}
	return out
}

// Segments returns the number of tables queries are routed over
func (s *Segmented) Segments() int { return len(s.parts) }

// GridPoints returns count queries start + (first+i)/per. With start 2.0 and
// per 100 this reproduces the historical 801 point (first 0) and 803 point
// (first -1) voltage grids bit for bit.
func GridPoints(start float64, first, count int, per float64) []float64 {
	qs := make([]float64, count)
	for i := range qs {
		qs[i] = start + float64(first+i)/per
	}
	return qs
}

func checkSeries(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d x samples but %d y samples", core.ErrInsufficientData, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return fmt.Errorf("%w: interpolation needs at least 2 samples, got %d", core.ErrInsufficientData, len(xs))
	}
	return nil
}
