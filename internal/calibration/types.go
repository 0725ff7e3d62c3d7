// Package calibration turns pasted gauge calibration tables into named numeric
// columns.
//
// The source format is the one produced by copying a manual's table out of a
// PDF: each block is a run of header lines (one per column, possibly followed
// by translations) and then a run of numeric lines, column after column. A
// block always holds three columns laid out as pressure in mbar, output
// voltage, pressure in torr.
package calibration

import (
	"fmt"
	"strings"

	"apgcal/domain/core"
)

// Column markers matched case-insensitively against column names
const (
	MarkerMbar  = "(mbar)"
	MarkerVolts = "(V)"
	MarkerTorr  = "(torr)"
)

// Column names used by the single-block column format, where one bare label
// opens each column
const (
	ColumnMbar  = "Pmbar"
	ColumnVolts = "Volt"
	ColumnTorr  = "Ptorr"
)

// ColumnsPerTable is fixed by the physical layout of the source document
const ColumnsPerTable = 3

// DefaultLayout is the positional column order of every block
var DefaultLayout = []string{MarkerMbar, MarkerVolts, MarkerTorr}

// ColumnLayout is the expected column order of the column format
var ColumnLayout = []string{ColumnMbar, ColumnVolts, ColumnTorr}

// TokenKind classifies a single source line
type TokenKind int

const (
	TokenLabel TokenKind = iota
	TokenNumber
	TokenSkip
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenSkip:
		return "skip"
	default:
		return "label"
	}
}

// Token is the classified form of one line
type Token struct {
	Kind  TokenKind
	Value float64 // set for TokenNumber
	Text  string  // trimmed source line
}

// RawTable is one block of header lines followed by its numeric run
type RawTable struct {
	Headers []string
	Values  []float64
}

// Column is a named numeric sequence
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// NamedTable is an ordered set of equal-length columns
type NamedTable struct {
	Columns []Column `json:"columns"`
}

// Len returns the number of rows
func (t NamedTable) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Names returns the column names in positional order
func (t NamedTable) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Row returns the values at row i across all columns
func (t NamedTable) Row(i int) []float64 {
	row := make([]float64, len(t.Columns))
	for c, col := range t.Columns {
		row[c] = col.Values[i]
	}
	return row
}

// Select returns the values of the single column whose name contains marker,
// compared case-insensitively. Zero or several matches is ErrColumnLookup.
func (t NamedTable) Select(marker string) ([]float64, error) {
	needle := strings.ToLower(marker)
	var matches []string
	var values []float64
	for _, c := range t.Columns {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			matches = append(matches, c.Name)
			values = c.Values
		}
	}
	if len(matches) != 1 {
		return nil, core.NewColumnLookupError(marker, matches)
	}
	return values, nil
}

// Mode is the join policy used when stitching several blocks
type Mode string

const (
	// ModeCombine concatenates every block into one table
	ModeCombine Mode = "combine"
	// ModeWindowed keeps blocks apart, each prefixed with its predecessor's last row
	ModeWindowed Mode = "windowed"
)

// ParseMode converts a user supplied mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCombine:
		return ModeCombine, nil
	case ModeWindowed:
		return ModeWindowed, nil
	}
	return "", fmt.Errorf("%w: %q (want combine or windowed)", core.ErrUnknownMode, s)
}

// Format is the layout of the source text
type Format string

const (
	// FormatBlocks is the manual's multi-block layout: header runs, then value runs
	FormatBlocks Format = "blocks"
	// FormatColumns is one block where each label line opens a new column
	FormatColumns Format = "columns"
)

// ParseFormat converts a user supplied format name; empty means blocks
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatBlocks:
		return FormatBlocks, nil
	case FormatColumns:
		return FormatColumns, nil
	}
	return "", fmt.Errorf("%w: %q (want blocks or columns)", core.ErrUnknownFormat, s)
}

// Markers returns the voltage and pressure-in-torr column markers for the format
func (f Format) Markers() (volts, torr string) {
	if f == FormatColumns {
		return ColumnVolts, ColumnTorr
	}
	return MarkerVolts, MarkerTorr
}

// Dataset is the stitched result of one source text
type Dataset struct {
	Format      Format          `json:"format"`
	Mode        Mode            `json:"mode"`
	Tables      []NamedTable    `json:"tables"`
	Fingerprint core.SourceHash `json:"fingerprint"`
}

// Series is a pair of columns pulled out of one table for interpolation
type Series struct {
	X []float64
	Y []float64
}
