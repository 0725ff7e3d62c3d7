package ports

// TableSource supplies raw calibration table text
type TableSource interface {
	ReadText() (string, error)
	// Source names where the text came from, for logs and reports
	Source() string
}

// Interpolator answers point queries against a loaded table. Implementations
// are immutable and safe for concurrent readers.
type Interpolator interface {
	At(q float64) float64
	Grid(qs []float64) []float64
}
