package calibration

import (
	"fmt"

	"apgcal/domain/core"
	"apgcal/internal"
)

// BuildOptions controls how source text becomes a Dataset
type BuildOptions struct {
	// Format selects the source layout; empty means FormatBlocks
	Format Format
	Mode   Mode
	// Strict validates column names against Layout before trusting their order
	Strict bool
	Layout []string
}

// Builder runs the extract, decompose and stitch pipeline
type Builder struct {
	logger *internal.Logger
}

// NewBuilder creates a builder logging through logger, or the default logger when nil
func NewBuilder(logger *internal.Logger) *Builder {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Builder{logger: logger.With("calibration")}
}

// BuildDataset is the ingestion entry point using the default logger
func BuildDataset(text string, opts BuildOptions) (*Dataset, error) {
	return NewBuilder(nil).Build(text, opts)
}

// Build parses text into a stitched dataset. Any structural problem aborts the
// build; there is no partial result.
func (b *Builder) Build(text string, opts BuildOptions) (*Dataset, error) {
	if opts.Mode == "" {
		opts.Mode = ModeWindowed
	}
	if opts.Format == "" {
		opts.Format = FormatBlocks
	}
	layout := opts.Layout
	if layout == nil {
		layout = DefaultLayout
		if opts.Format == FormatColumns {
			layout = ColumnLayout
		}
	}

	named, err := b.extract(text, opts.Format)
	if err != nil {
		b.logger.Error("extraction failed: %v", err)
		return nil, err
	}

	for i := range named {
		if opts.Strict {
			if err := ValidateLayout(named[i], layout); err != nil {
				return nil, fmt.Errorf("table %d: %w", i, err)
			}
		}
		b.logger.Debug("table %d: %d rows, columns %q", i, named[i].Len(), named[i].Names())
	}

	tables, err := Stitch(named, opts.Mode)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Format:      opts.Format,
		Mode:        opts.Mode,
		Tables:      tables,
		Fingerprint: core.NewSourceHash(text),
	}
	b.logger.Info("built %s dataset %s: %d block(s) into %d table(s), %d rows",
		ds.Mode, ds.Fingerprint.Short(), len(named), len(ds.Tables), ds.Rows())
	return ds, nil
}

func (b *Builder) extract(text string, format Format) ([]NamedTable, error) {
	switch format {
	case FormatColumns:
		t, err := ExtractColumns(text)
		if err != nil {
			return nil, err
		}
		return []NamedTable{t}, nil
	case FormatBlocks:
		raw, err := Extract(text)
		if err != nil {
			return nil, err
		}
		named := make([]NamedTable, len(raw))
		for i, t := range raw {
			named[i] = t.Named()
		}
		return named, nil
	}
	_, err := ParseFormat(string(format))
	return nil, err
}

// Markers returns the voltage and pressure-in-torr markers matching the
// dataset's source format
func (d *Dataset) Markers() (volts, torr string) {
	return d.Format.Markers()
}

// Rows counts rows across all tables, including windowed overlap rows
func (d *Dataset) Rows() int {
	n := 0
	for _, t := range d.Tables {
		n += t.Len()
	}
	return n
}

// SelectSeries pulls the X and Y columns, by marker, out of every table
func (d *Dataset) SelectSeries(xMarker, yMarker string) ([]Series, error) {
	series := make([]Series, len(d.Tables))
	for i, t := range d.Tables {
		x, err := t.Select(xMarker)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		y, err := t.Select(yMarker)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		series[i] = Series{X: x, Y: y}
	}
	return series, nil
}

// Flatten returns a single combined view of the dataset. Windowed overlap rows
// are dropped so the result matches a combine-mode build of the same text.
func (d *Dataset) Flatten() NamedTable {
	if len(d.Tables) == 1 {
		return d.Tables[0]
	}
	parts := make([]NamedTable, len(d.Tables))
	for i, t := range d.Tables {
		if d.Mode == ModeWindowed && i > 0 {
			cols := make([]Column, len(t.Columns))
			for c, col := range t.Columns {
				cols[c] = Column{Name: col.Name, Values: col.Values[1:]}
			}
			t = NamedTable{Columns: cols}
		}
		parts[i] = t
	}
	return combine(parts)
}
