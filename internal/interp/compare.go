package interp

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Divergence records where Exact and Alternate disagree over a query grid.
// Disagreement is deterministic: the same table and grid always give the same
// indices.
type Divergence struct {
	Queries   []float64 `json:"queries"`
	Exact     []float64 `json:"exact"`
	Alternate []float64 `json:"alternate"`
	Indices   []int     `json:"indices"`
}

// Agree reports whether both methods produced identical values everywhere
func (d *Divergence) Agree() bool { return len(d.Indices) == 0 }

// Compare evaluates both search methods over qs, each in its own goroutine,
// and returns every index where the results are not bit-identical.
func Compare(ctx context.Context, qs, xs, ys []float64) (*Divergence, error) {
	if err := checkSeries(xs, ys); err != nil {
		return nil, err
	}

	d := &Divergence{
		Queries:   qs,
		Exact:     make([]float64, len(qs)),
		Alternate: make([]float64, len(qs)),
	}

	g, ctx := errgroup.WithContext(ctx)
	evaluate := func(search SearchFunc, out []float64) func() error {
		return func() error {
			for i, q := range qs {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = search(q, xs, ys)
			}
			return nil
		}
	}
	g.Go(evaluate(Exact, d.Exact))
	g.Go(evaluate(Alternate, d.Alternate))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range qs {
		if d.Exact[i] != d.Alternate[i] {
			d.Indices = append(d.Indices, i)
		}
	}
	return d, nil
}
