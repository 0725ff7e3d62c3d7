package calibration

import (
	"strings"

	"apgcal/domain/core"
)

// Extract splits the source text into raw tables.
//
// Header lines collect until the first number; numbers collect until the next
// header line, which opens a new table. Every table must end up with a header
// count and a value count that are both multiples of ColumnsPerTable, and at
// least one value; otherwise the whole extraction fails.
func Extract(text string) ([]RawTable, error) {
	var tables []RawTable

	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		tok := ParseToken(line)
		switch tok.Kind {
		case TokenSkip:
			continue
		case TokenNumber:
			if len(tables) == 0 {
				return nil, core.NewParseError("line %d: value %q appears before any column header", i+1, tok.Text)
			}
			last := &tables[len(tables)-1]
			last.Values = append(last.Values, tok.Value)
		case TokenLabel:
			if len(tables) == 0 || len(tables[len(tables)-1].Values) > 0 {
				tables = append(tables, RawTable{})
			}
			last := &tables[len(tables)-1]
			last.Headers = append(last.Headers, tok.Text)
		}
	}

	if len(tables) == 0 {
		return nil, core.NewParseError("no table found in input")
	}
	for i, t := range tables {
		if len(t.Headers)%ColumnsPerTable != 0 {
			return nil, core.NewParseError("table %d: %d header lines do not split into %d columns", i, len(t.Headers), ColumnsPerTable)
		}
		if len(t.Values) == 0 {
			return nil, core.NewParseError("table %d: header %q has no values", i, t.Headers[0])
		}
		if len(t.Values)%ColumnsPerTable != 0 {
			return nil, core.NewParseError("table %d: %d values do not split into %d columns", i, len(t.Values), ColumnsPerTable)
		}
	}
	return tables, nil
}

// ExtractColumns reads the single-block column format: every label line opens
// a new column named by the label with spaces removed, and the numbers that
// follow belong to it. All columns must be non-empty and of equal length.
func ExtractColumns(text string) (NamedTable, error) {
	var columns []Column

	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		tok := ParseToken(line)
		switch tok.Kind {
		case TokenSkip:
			continue
		case TokenNumber:
			if len(columns) == 0 {
				return NamedTable{}, core.NewParseError("line %d: value %q appears before any column label", i+1, tok.Text)
			}
			last := &columns[len(columns)-1]
			last.Values = append(last.Values, tok.Value)
		case TokenLabel:
			name := strings.ReplaceAll(strings.TrimSpace(tok.Text), " ", "")
			for _, c := range columns {
				if c.Name == name {
					return NamedTable{}, core.NewParseError("line %d: column %q appears twice", i+1, name)
				}
			}
			columns = append(columns, Column{Name: name})
		}
	}

	if len(columns) == 0 {
		return NamedTable{}, core.NewParseError("no column found in input")
	}
	for _, c := range columns {
		if len(c.Values) == 0 {
			return NamedTable{}, core.NewParseError("column %q has no values", c.Name)
		}
		if len(c.Values) != len(columns[0].Values) {
			return NamedTable{}, core.NewParseError("column %q has %d values, column %q has %d",
				c.Name, len(c.Values), columns[0].Name, len(columns[0].Values))
		}
	}
	return NamedTable{Columns: columns}, nil
}

// Named decomposes the table into its three columns. Headers and values are
// each cut into equal contiguous thirds; the first header of a third names the
// column and the rest of that third (translations, aliases) is dropped.
//
// The table must satisfy the postconditions checked by Extract.
func (t RawTable) Named() NamedTable {
	headerSpan := len(t.Headers) / ColumnsPerTable
	valueSpan := len(t.Values) / ColumnsPerTable

	columns := make([]Column, ColumnsPerTable)
	for c := range columns {
		values := make([]float64, valueSpan)
		copy(values, t.Values[c*valueSpan:(c+1)*valueSpan])
		columns[c] = Column{
			Name:   t.Headers[c*headerSpan],
			Values: values,
		}
	}
	return NamedTable{Columns: columns}
}

// ValidateLayout checks that each column name contains the marker expected at
// its position. Positional assignment is otherwise trusted blindly.
func ValidateLayout(t NamedTable, layout []string) error {
	if len(layout) != len(t.Columns) {
		return core.NewParseError("layout names %d columns, table has %d", len(layout), len(t.Columns))
	}
	for i, marker := range layout {
		if !strings.Contains(strings.ToLower(t.Columns[i].Name), strings.ToLower(marker)) {
			return core.NewParseError("column %d %q does not contain %q", i, t.Columns[i].Name, marker)
		}
	}
	return nil
}
