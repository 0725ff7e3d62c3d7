package calibration

import (
	"math"
	"strconv"
	"strings"
)

// skipPrefixes mark citation and comment lines pasted along with the table
var skipPrefixes = []string{"https://", "http://", "#"}

// ParseToken classifies one line as a number, a label or a line to skip.
//
// Numbers may carry a leading "<" (instrument floor, the literal is still
// used) and the "x 10" exponent spelling of the source document:
// "1.23 x 10 -1" reads as 1.23E-1 and "2.31 x 103" as 2.31E3. Anything that
// does not reduce to a finite float is a label.
func ParseToken(line string) Token {
	text := strings.TrimSpace(line)
	if text == "" {
		return Token{Kind: TokenSkip, Text: text}
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(text, prefix) {
			return Token{Kind: TokenSkip, Text: text}
		}
	}

	munged := strings.TrimPrefix(text, "<")
	munged = strings.ReplaceAll(munged, "x 10", "E")
	munged = strings.Join(strings.Fields(munged), "")

	value, err := strconv.ParseFloat(munged, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return Token{Kind: TokenLabel, Text: text}
	}
	return Token{Kind: TokenNumber, Value: value, Text: text}
}
