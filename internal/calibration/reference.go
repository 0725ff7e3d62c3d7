package calibration

import (
	_ "embed"
)

// Edwards APG-M/APG-L output voltage table, pasted from page 27 of the
// APG-MP manual. Two blocks of three columns each.
//
//go:embed reference/edwards_apg_mp.txt
var referenceTable string

// ReferenceTable returns the embedded Edwards APG calibration text
func ReferenceTable() string {
	return referenceTable
}
