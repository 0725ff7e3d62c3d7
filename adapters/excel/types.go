package excel

// Format says how a column is rendered as text: Verb is a strconv float verb
// ('e', 'f', 'g') or 'd' for integer-valued columns
type Format struct {
	Verb      byte
	Precision int
}

// Sheet is a rectangular block of numbers with a header row
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]float64
	Formats []Format // optional, one per column; default is 'g' with full precision
}

func (s Sheet) format(col int) Format {
	if col < len(s.Formats) {
		return s.Formats[col]
	}
	return Format{Verb: 'g', Precision: -1}
}
