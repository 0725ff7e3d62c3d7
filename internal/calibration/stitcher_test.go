package calibration

import (
	"testing"

	"apgcal/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(names [3]string, a, b, c []float64) NamedTable {
	return NamedTable{Columns: []Column{
		{Name: names[0], Values: a},
		{Name: names[1], Values: b},
		{Name: names[2], Values: c},
	}}
}

func twoTables() []NamedTable {
	return []NamedTable{
		table([3]string{"P (mbar)", "U (V)", "P (torr)"}, []float64{1, 2}, []float64{2.0, 2.5}, []float64{0.75, 1.5}),
		table([3]string{"Druck (mbar)", "Spannung (V)", "Druck (torr)"}, []float64{3, 4}, []float64{3.0, 3.5}, []float64{2.25, 3.0}),
	}
}

func TestStitchCombine(t *testing.T) {
	out, err := Stitch(twoTables(), ModeCombine)
	require.NoError(t, err)
	require.Len(t, out, 1)

	combined := out[0]
	assert.Equal(t, []string{"P (mbar)", "U (V)", "P (torr)"}, combined.Names())
	assert.Equal(t, []float64{1, 2, 3, 4}, combined.Columns[0].Values)
	assert.Equal(t, []float64{2.0, 2.5, 3.0, 3.5}, combined.Columns[1].Values)
	assert.Equal(t, []float64{0.75, 1.5, 2.25, 3.0}, combined.Columns[2].Values)
}

func TestStitchWindowed(t *testing.T) {
	in := twoTables()
	out, err := Stitch(in, ModeWindowed)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, in[0], out[0])
	assert.Equal(t, "Spannung (V)", out[1].Columns[1].Name)
	assert.Equal(t, []float64{2, 3, 4}, out[1].Columns[0].Values)
	assert.Equal(t, []float64{2.5, 3.0, 3.5}, out[1].Columns[1].Values)

	// Boundary sample is a duplicate of the predecessor's last row.
	assert.Equal(t, out[0].Row(out[0].Len()-1), out[1].Row(0))

	// Inputs stay untouched.
	assert.Equal(t, []float64{3, 4}, in[1].Columns[0].Values)
}

func TestStitchSingleTableWindowedIsIdentity(t *testing.T) {
	in := twoTables()[:1]
	out, err := Stitch(in, ModeWindowed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStitchErrors(t *testing.T) {
	_, err := Stitch(nil, ModeCombine)
	assert.True(t, core.IsParseError(err))

	_, err = Stitch(twoTables(), Mode("zipper"))
	assert.ErrorIs(t, err, core.ErrUnknownMode)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode(" Combine ")
	require.NoError(t, err)
	assert.Equal(t, ModeCombine, mode)

	_, err = ParseMode("onetbl")
	assert.ErrorIs(t, err, core.ErrUnknownMode)
}
