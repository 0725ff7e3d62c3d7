package calibration

import (
	"fmt"

	"apgcal/domain/core"
)

// Stitch joins decomposed tables according to mode. Inputs are not modified.
func Stitch(tables []NamedTable, mode Mode) ([]NamedTable, error) {
	if len(tables) == 0 {
		return nil, core.NewParseError("nothing to stitch")
	}
	switch mode {
	case ModeCombine:
		return []NamedTable{combine(tables)}, nil
	case ModeWindowed:
		return window(tables), nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownMode, mode)
}

// combine concatenates columns position by position; names come from the
// first table since later blocks may spell the same quantity differently.
func combine(tables []NamedTable) NamedTable {
	out := NamedTable{Columns: make([]Column, len(tables[0].Columns))}
	for c := range out.Columns {
		out.Columns[c].Name = tables[0].Columns[c].Name
		for _, t := range tables {
			out.Columns[c].Values = append(out.Columns[c].Values, t.Columns[c].Values...)
		}
	}
	return out
}

// window prefixes every table after the first with the last row of the one
// before it, so adjacent domains share a sample and leave no gap.
func window(tables []NamedTable) []NamedTable {
	out := make([]NamedTable, len(tables))
	for i, t := range tables {
		cols := make([]Column, len(t.Columns))
		for c, col := range t.Columns {
			var values []float64
			if i > 0 {
				prev := tables[i-1].Columns[c].Values
				values = make([]float64, 0, len(col.Values)+1)
				values = append(values, prev[len(prev)-1])
			}
			cols[c] = Column{Name: col.Name, Values: append(values, col.Values...)}
		}
		out[i] = NamedTable{Columns: cols}
	}
	return out
}
