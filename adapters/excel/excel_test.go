package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apgcal/internal/calibration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSVGrid(t *testing.T) {
	sheet := GridSheet("grid", "Volts", "Ptorr", []float64{2.0, 2.01}, []float64{7.5e-7, 1.2346e-5})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sheet))

	assert.Equal(t, "i,Volts,Ptorr\n0,2.00,7.500e-07\n1,2.01,1.235e-05\n", buf.String())
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	ds, err := calibration.BuildDataset(calibration.ReferenceTable(), calibration.BuildOptions{Mode: calibration.ModeWindowed})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "apg.xlsx")
	grid := GridSheet("grid", "Volts", "Ptorr", []float64{2.0, 3.0}, []float64{1, 2})
	require.NoError(t, WriteXLSX(path, grid, TableSheet("table0", ds.Tables[0]), TableSheet("table1", ds.Tables[1])))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"grid", "table0", "table1"}, f.GetSheetList())

	rows, err := f.GetRows("table1")
	require.NoError(t, err)
	require.Len(t, rows, 25)
	assert.Equal(t, []string{"Pressure (mbar)", "Output voltage (V)", "Pressure (torr)"}, rows[0])
	assert.Equal(t, "6.2", rows[1][1])

	rows, err = f.GetRows("grid")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "2"}, rows[2])
}

func TestReadTextFromWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.xlsx")

	f := excelize.NewFile()
	for i, line := range strings.Split(strings.TrimSpace(calibration.ReferenceTable()), "\n") {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetCellStr("Sheet1", cell, line))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	text, err := NewTableReader(path).ReadText()
	require.NoError(t, err)

	ds, err := calibration.BuildDataset(text, calibration.BuildOptions{Mode: calibration.ModeCombine})
	require.NoError(t, err)
	assert.Equal(t, 47, ds.Tables[0].Len())
}

func TestReadTextFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.txt")
	require.NoError(t, os.WriteFile(path, []byte(calibration.ReferenceTable()), 0o644))

	reader := NewTableReader(path)
	text, err := reader.ReadText()
	require.NoError(t, err)
	assert.Equal(t, calibration.ReferenceTable(), text)
	assert.Equal(t, path, reader.Source())

	_, err = NewTableReader(filepath.Join(t.TempDir(), "missing.txt")).ReadText()
	assert.Error(t, err)
}

func TestFileType(t *testing.T) {
	assert.Equal(t, FileTypeXLSX, FileType("a/B.XLSX"))
	assert.Equal(t, FileTypeCSV, FileType("grid.csv"))
	assert.Equal(t, FileTypeText, FileType("table"))
}
