package calibration

import (
	"os"
	"strings"
	"testing"

	"apgcal/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(l ...string) string { return strings.Join(l, "\n") }

func TestExtractSingleBlock(t *testing.T) {
	text := lines(
		"A (mbar)", "A alias",
		"B (V)", "B alias",
		"C (torr)", "C alias",
		"1", "2",
		"3", "4",
		"5", "6",
	)

	tables, err := Extract(text)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	named := tables[0].Named()
	assert.Equal(t, []string{"A (mbar)", "B (V)", "C (torr)"}, named.Names())
	assert.Equal(t, []float64{1, 2}, named.Columns[0].Values)
	assert.Equal(t, []float64{3, 4}, named.Columns[1].Values)
	assert.Equal(t, []float64{5, 6}, named.Columns[2].Values)
}

func TestExtractColumnShape(t *testing.T) {
	for _, n := range []int{3, 6, 9} {
		for _, m := range []int{3, 12, 30} {
			var l []string
			for i := 0; i < n; i++ {
				l = append(l, "header "+string(rune('a'+i)))
			}
			for i := 0; i < m; i++ {
				l = append(l, "1.5")
			}

			tables, err := Extract(lines(l...))
			require.NoError(t, err)
			require.Len(t, tables, 1)

			named := tables[0].Named()
			for c, col := range named.Columns {
				assert.Equal(t, l[c*n/3], col.Name)
				assert.Len(t, col.Values, m/3)
			}
		}
	}
}

func TestExtractStartsNewTableAfterValues(t *testing.T) {
	text := lines(
		"https://example.com/manual.pdf",
		"a", "b", "c",
		"1", "2", "3",
		"d", "e", "f",
		"", // blank lines are ignored
		"4", "5", "6", "7", "8", "9",
	)

	tables, err := Extract(text)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, []string{"a", "b", "c"}, tables[0].Headers)
	assert.Equal(t, []string{"d", "e", "f"}, tables[1].Headers)
	assert.Equal(t, []float64{4, 5, 6, 7, 8, 9}, tables[1].Values)
}

func TestExtractMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"four headers three values", lines("a", "b", "c", "d", "1", "2", "3")},
		{"values not divisible", lines("a", "b", "c", "1", "2", "3", "4")},
		{"value before header", lines("1", "a", "b", "c", "2", "3", "4")},
		{"header only", lines("a", "b", "c")},
		{"trailing header block", lines("a", "b", "c", "1", "2", "3", "d", "e", "f")},
		{"empty", "   \n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := Extract(tt.text)
			assert.Nil(t, tables)
			require.Error(t, err)
			assert.True(t, core.IsParseError(err), "expected parse error, got %v", err)
		})
	}
}

func TestExtractColumnsFixture(t *testing.T) {
	text, err := os.ReadFile("testdata/single_block.txt")
	require.NoError(t, err)

	named, err := ExtractColumns(string(text))
	require.NoError(t, err)

	assert.Equal(t, []string{"Pmbar", "Volt", "Ptorr"}, named.Names())
	assert.Equal(t, 47, named.Len())
	assert.Equal(t, 1e-6, named.Columns[0].Values[0])
	assert.Equal(t, 1000.0, named.Columns[0].Values[46])
	assert.Equal(t, 2.0, named.Columns[1].Values[0])
	assert.Equal(t, 10.0, named.Columns[1].Values[46])
	assert.Equal(t, 750.0, named.Columns[2].Values[46])
	assert.NoError(t, ValidateLayout(named, ColumnLayout))

	// The block extractor sees three one-label tables and refuses them.
	_, err = Extract(string(text))
	assert.True(t, core.IsParseError(err))
}

func TestExtractColumns(t *testing.T) {
	named, err := ExtractColumns(lines("P mbar", "1", "2", "https://example.com", "Volt", "3", "4"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pmbar", "Volt"}, named.Names())
	assert.Equal(t, []float64{3, 4}, named.Columns[1].Values)
}

func TestExtractColumnsErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"value first", lines("1", "Volt", "2")},
		{"empty column", lines("Pmbar", "Volt", "2")},
		{"ragged", lines("Pmbar", "1", "2", "Volt", "3")},
		{"duplicate", lines("Volt", "1", "Volt", "2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractColumns(tt.text)
			require.Error(t, err)
			assert.True(t, core.IsParseError(err), "expected parse error, got %v", err)
		})
	}
}

func TestValidateLayout(t *testing.T) {
	good := NamedTable{Columns: []Column{{Name: "Pressure (mbar)"}, {Name: "Output voltage (V)"}, {Name: "Pressure (torr)"}}}
	assert.NoError(t, ValidateLayout(good, DefaultLayout))

	swapped := NamedTable{Columns: []Column{{Name: "Output voltage (V)"}, {Name: "Pressure (mbar)"}, {Name: "Pressure (torr)"}}}
	err := ValidateLayout(swapped, DefaultLayout)
	require.Error(t, err)
	assert.True(t, core.IsParseError(err))
}
