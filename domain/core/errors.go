package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingestion errors
	ErrParse        = errors.New("calibration table parse error")
	ErrColumnLookup = errors.New("column lookup failed")

	// Query errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrUnknownMode      = errors.New("unknown stitch mode")
	ErrUnknownMethod    = errors.New("unknown interpolation method")
	ErrUnknownFormat    = errors.New("unknown table format")
)

// NewParseError reports a structural problem with the source text
func NewParseError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// NewColumnLookupError reports a marker that matched zero or several columns
func NewColumnLookupError(marker string, matches []string) error {
	if len(matches) == 0 {
		return fmt.Errorf("%w: no column matches %q", ErrColumnLookup, marker)
	}
	return fmt.Errorf("%w: %d columns match %q: %v", ErrColumnLookup, len(matches), marker, matches)
}

// Error checking helpers
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

func IsColumnLookupError(err error) bool {
	return errors.Is(err, ErrColumnLookup)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownMode) ||
		errors.Is(err, ErrUnknownMethod) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrInsufficientData)
}
