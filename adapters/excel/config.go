package excel

import (
	"path/filepath"
	"strings"
)

// File types understood by the reader and exporter
const (
	FileTypeText = "txt"
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// FileType infers the file type from the extension, defaulting to plain text
func FileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FileTypeXLSX
	case ".csv":
		return FileTypeCSV
	default:
		return FileTypeText
	}
}
