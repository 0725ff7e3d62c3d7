// Package interp answers point queries against tabulated samples by
// piecewise-linear interpolation between the two samples that bracket the
// query.
//
// Preconditions shared by every search here: len(xs) >= 2, len(ys) ==
// len(xs), and xs non-decreasing. Only the length match is checked (by
// panicking); an unsorted xs silently yields a meaningless answer.
package interp

import (
	"fmt"
	"strings"

	"apgcal/domain/core"
)

// SearchFunc interpolates ys at q over the sample positions xs
type SearchFunc func(q float64, xs, ys []float64) float64

// Method names a search strategy
type Method string

const (
	MethodExact     Method = "exact"
	MethodAlternate Method = "alternate"
)

// ParseMethod converts a user supplied method name
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodExact:
		return MethodExact, nil
	case MethodAlternate:
		return MethodAlternate, nil
	}
	return "", fmt.Errorf("%w: %q (want exact or alternate)", core.ErrUnknownMethod, s)
}

// Search returns the search function for m, defaulting to Exact
func Search(m Method) SearchFunc {
	if m == MethodAlternate {
		return Alternate
	}
	return Exact
}

// Exact interpolates with a bracket-narrowing binary search over the whole
// table. Queries below xs[0] extrapolate from the first segment; queries at
// or above the last sample extrapolate from the last segment.
func Exact(q float64, xs, ys []float64) float64 {
	mustMatch(xs, ys)
	lo, hi := exactBracket(q, xs)
	return lerp(q, xs, ys, lo, hi)
}

func exactBracket(q float64, xs []float64) (int, int) {
	last := len(xs) - 1
	if q < xs[0] {
		return 0, 1
	}
	if q >= xs[last] {
		return last - 1, last
	}

	// Invariant: xs[lo] <= q <= xs[hi], and q > xs[lo] once lo moves.
	lo, hi := 0, last
	for diff := hi - lo; diff > 1; diff = hi - lo {
		mid := lo + diff>>1
		if q > xs[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, hi
}

// Fixed geometry of the alternate search: six halvings of a 64 wide span.
const (
	alternateSpan  = 64
	alternateSteps = 6

	// AlternateMaxIndex is the largest lower bracket index Alternate can reach
	AlternateMaxIndex = alternateSpan - 1
)

// Alternate interpolates using exactly six halving steps starting from a
// step of 32, whatever the table length.
//
// It is NOT a general search. The lower bracket index can never exceed
// AlternateMaxIndex, so on tables longer than 65 samples every query beyond
// xs[64] is silently extrapolated from the [63, 64] segment. It exists for
// speed on the known table size and for comparison against Exact; see
// AlternateSafe.
func Alternate(q float64, xs, ys []float64) float64 {
	mustMatch(xs, ys)
	lo := alternateBracket(q, xs)
	return lerp(q, xs, ys, lo, lo+1)
}

func alternateBracket(q float64, xs []float64) int {
	last := len(xs) - 1
	lo, step := 0, alternateSpan
	for i := 0; i < alternateSteps; i++ {
		step >>= 1
		if c := lo + step; c < last && q > xs[c] {
			lo = c
		}
	}
	return lo
}

// AlternateSafe reports whether Alternate brackets every query correctly on
// a table of n samples
func AlternateSafe(n int) bool {
	return n >= 2 && n-2 <= AlternateMaxIndex
}

// lerp evaluates the segment [lo, hi] at q as
// Y[lo] + (q-X[lo])*(Y[hi]-Y[lo])/(X[hi]-X[lo]). A query sitting on X[hi]
// returns Y[hi] itself.
func lerp(q float64, xs, ys []float64, lo, hi int) float64 {
	if q == xs[hi] {
		return ys[hi]
	}
	return ys[lo] + (q-xs[lo])*(ys[hi]-ys[lo])/(xs[hi]-xs[lo])
}

func mustMatch(xs, ys []float64) {
	if len(xs) != len(ys) {
		panic(fmt.Sprintf("interp: %d x samples but %d y samples", len(xs), len(ys)))
	}
}
