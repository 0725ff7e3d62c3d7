package fit

import (
	"fmt"
	"math"

	"apgcal/domain/core"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Options controls a polynomial fit
type Options struct {
	Order     int `json:"order"`      // polynomial order; Order+1 coefficients
	ChopLeft  int `json:"chop_left"`  // leading samples left out of the fit
	ChopRight int `json:"chop_right"` // trailing samples left out of the fit
}

// DefaultOptions matches the historical fit: fifth order, nothing chopped
func DefaultOptions() Options {
	return Options{Order: 5}
}

// Polynomial holds coefficients highest power first
type Polynomial struct {
	Coefficients []float64 `json:"coefficients"`
}

// Eval evaluates the polynomial at x using Horner's scheme
func (p Polynomial) Eval(x float64) float64 {
	y := 0.0
	for _, c := range p.Coefficients {
		y = y*x + c
	}
	return y
}

// Result is a fitted polynomial with its goodness-of-fit diagnostics
type Result struct {
	Polynomial
	Options Options `json:"options"`
	Points  int     `json:"points"`

	// InitialSlope is the mean slope between consecutive fitted samples, the
	// linear term an iterative solver would start from
	InitialSlope   float64 `json:"initial_slope"`
	RSquared       float64 `json:"r_squared"`
	ResidualStdDev float64 `json:"residual_std_dev"`
	MaxAbsResidual float64 `json:"max_abs_residual"`

	logScale bool
}

// Fit solves the least-squares polynomial through (xs, ys) after chopping
func Fit(xs, ys []float64, opts Options) (*Result, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x samples but %d y samples", core.ErrInsufficientData, len(xs), len(ys))
	}
	if opts.Order < 1 {
		return nil, fmt.Errorf("%w: polynomial order must be at least 1, got %d", core.ErrInsufficientData, opts.Order)
	}
	if opts.ChopLeft < 0 || opts.ChopRight < 0 {
		return nil, fmt.Errorf("%w: chops cannot be negative", core.ErrInsufficientData)
	}

	end := len(xs) - opts.ChopRight
	if end-opts.ChopLeft < opts.Order+1 {
		return nil, fmt.Errorf("%w: order %d needs %d points, %d left after chopping %d+%d of %d",
			core.ErrInsufficientData, opts.Order, opts.Order+1, max(end-opts.ChopLeft, 0), opts.ChopLeft, opts.ChopRight, len(xs))
	}
	x := xs[opts.ChopLeft:end]
	y := ys[opts.ChopLeft:end]

	// Vandermonde design matrix, highest power in column 0.
	n, terms := len(x), opts.Order+1
	a := mat.NewDense(n, terms, nil)
	for i, xi := range x {
		for j := 0; j < terms; j++ {
			a.Set(i, j, math.Pow(xi, float64(opts.Order-j)))
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	result := &Result{
		Polynomial: Polynomial{Coefficients: mat.Col(nil, 0, &coef)},
		Options:    opts,
		Points:     n,
	}
	if err := result.diagnose(x, y); err != nil {
		return nil, err
	}
	return result, nil
}

// LogPressure fits log10(pressure) as a polynomial of voltage
func LogPressure(volts, pressure []float64, opts Options) (*Result, error) {
	logP := make([]float64, len(pressure))
	for i, p := range pressure {
		if p <= 0 {
			return nil, fmt.Errorf("%w: pressure %g at row %d has no logarithm", core.ErrInsufficientData, p, i)
		}
		logP[i] = math.Log10(p)
	}
	result, err := Fit(volts, logP, opts)
	if err != nil {
		return nil, err
	}
	result.logScale = true
	return result, nil
}

// Value evaluates the model in the original units: 10^poly(x) for a
// LogPressure fit, poly(x) otherwise
func (r *Result) Value(x float64) float64 {
	if r.logScale {
		return math.Pow(10, r.Eval(x))
	}
	return r.Eval(x)
}

// Curve samples the model at n evenly spaced points over [lo, hi]
func (r *Result) Curve(lo, hi float64, n int) ([]float64, []float64) {
	xs := floats.Span(make([]float64, n), lo, hi)
	ys := make([]float64, n)
	for i, x := range xs {
		ys[i] = r.Value(x)
	}
	return xs, ys
}

func (r *Result) diagnose(x, y []float64) error {
	estimates := make([]float64, len(x))
	residuals := make([]float64, len(x))
	magnitudes := make([]float64, len(x))
	for i, xi := range x {
		estimates[i] = r.Eval(xi)
		residuals[i] = y[i] - estimates[i]
		magnitudes[i] = math.Abs(residuals[i])
	}
	r.RSquared = stat.RSquaredFrom(estimates, y, nil)

	maxResidual, err := stats.Max(magnitudes)
	if err != nil {
		return err
	}
	r.MaxAbsResidual = maxResidual

	spread, err := stats.StandardDeviation(residuals)
	if err != nil {
		return err
	}
	r.ResidualStdDev = spread

	slopes := make([]float64, 0, len(x)-1)
	for i := 1; i < len(x); i++ {
		if dx := x[i] - x[i-1]; dx != 0 {
			slopes = append(slopes, (y[i]-y[i-1])/dx)
		}
	}
	if len(slopes) > 0 {
		slope, err := stats.Mean(slopes)
		if err != nil {
			return err
		}
		r.InitialSlope = slope
	}
	return nil
}
