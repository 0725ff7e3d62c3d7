package excel

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// TableReader loads calibration table text from a file. Plain text files are
// read as is; for workbooks the first column of the first sheet holds one
// source line per row.
type TableReader struct {
	filePath string
	fileType string
}

// NewTableReader creates a reader for a .txt or .xlsx file
func NewTableReader(filePath string) *TableReader {
	return &TableReader{filePath: filePath, fileType: FileType(filePath)}
}

// Source describes where the text comes from
func (r *TableReader) Source() string {
	return r.filePath
}

// ReadText returns the table text
func (r *TableReader) ReadText() (string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case FileTypeXLSX:
		return r.readWorkbook()
	case FileTypeText:
		data, err := os.ReadFile(r.filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read table file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported table file type: %s", r.fileType)
	}
}

func (r *TableReader) readWorkbook() (string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", r.filePath)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		lines = append(lines, row[0])
	}
	log.Printf("[TableReader] %s read in %.2fms (%d lines)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(lines))

	return strings.Join(lines, "\n"), nil
}
