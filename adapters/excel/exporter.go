package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"apgcal/internal/calibration"

	"github.com/xuri/excelize/v2"
)

// GridSheet lays out interpolated values as index, query, value rows, the
// historical "i,Volts,Ptorr" listing
func GridSheet(name, xName, yName string, qs, ys []float64) Sheet {
	rows := make([][]float64, len(qs))
	for i := range qs {
		rows[i] = []float64{float64(i), qs[i], ys[i]}
	}
	return Sheet{
		Name:    name,
		Headers: []string{"i", xName, yName},
		Rows:    rows,
		Formats: []Format{{Verb: 'd'}, {Verb: 'f', Precision: 2}, {Verb: 'e', Precision: 3}},
	}
}

// TableSheet lays out a named table column by column
func TableSheet(name string, t calibration.NamedTable) Sheet {
	rows := make([][]float64, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return Sheet{Name: name, Headers: t.Names(), Rows: rows}
}

// WriteCSV writes the sheet with its header row
func WriteCSV(w io.Writer, s Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Headers); err != nil {
		return err
	}
	record := make([]string, len(s.Headers))
	for _, row := range s.Rows {
		record = record[:0]
		for c, v := range row {
			record = append(record, formatCell(v, s.format(c)))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the sheet to path
func WriteCSVFile(path string, s Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteXLSX writes every sheet into one workbook, in order
func WriteXLSX(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}

		for c, h := range s.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(s.Name, cell, h); err != nil {
				return err
			}
		}
		for r, row := range s.Rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				var value interface{} = v
				if s.format(c).Verb == 'd' {
					value = int64(v)
				}
				if err := f.SetCellValue(s.Name, cell, value); err != nil {
					return err
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func formatCell(v float64, f Format) string {
	if f.Verb == 'd' {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, f.Verb, f.Precision, 64)
}
