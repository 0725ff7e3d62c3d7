package app

import (
	"context"
	"time"

	"apgcal/adapters/report"
	"apgcal/adapters/stats/fit"
	"apgcal/domain/core"
	"apgcal/internal"
	"apgcal/internal/calibration"
	"apgcal/internal/errors"
	"apgcal/internal/interp"
	"apgcal/ports"

	"gonum.org/v1/gonum/floats"
)

// ReferenceSource serves the embedded Edwards APG table
type ReferenceSource struct{}

func (ReferenceSource) ReadText() (string, error) { return calibration.ReferenceTable(), nil }
func (ReferenceSource) Source() string            { return "embedded:edwards_apg_mp" }

// CalibrationService holds one loaded calibration dataset and answers
// queries against it. Everything it holds is immutable once constructed, so
// handlers may share one instance without locking.
type CalibrationService struct {
	logger   *internal.Logger
	session  core.SessionID
	loadedAt core.Timestamp
	source   string

	dataset *calibration.Dataset
	// flat is the combined volts/torr view used for fitting and comparison
	flat   calibration.Series
	curves map[interp.Method]ports.Interpolator
}

// TableInfo describes one stitched table
type TableInfo struct {
	Columns  []string `json:"columns"`
	Rows     int      `json:"rows"`
	VoltsMin float64  `json:"volts_min"`
	VoltsMax float64  `json:"volts_max"`
}

// Info is a snapshot of what the service has loaded
type Info struct {
	Session     core.SessionID     `json:"session"`
	LoadedAt    string             `json:"loaded_at"`
	Source      string             `json:"source"`
	Format      calibration.Format `json:"format"`
	Mode        calibration.Mode   `json:"mode"`
	Fingerprint string             `json:"fingerprint"`
	Tables      []TableInfo        `json:"tables"`
}

// NewCalibrationService reads src, builds the dataset and prepares one
// interpolator per search method
func NewCalibrationService(src ports.TableSource, opts calibration.BuildOptions, logger *internal.Logger) (*CalibrationService, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	log := logger.With("CalibrationService")
	start := time.Now()

	text, err := src.ReadText()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read table from %s", src.Source())
	}

	ds, err := calibration.NewBuilder(logger).Build(text, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build dataset from %s", src.Source())
	}

	voltsMarker, torrMarker := ds.Markers()
	series, err := ds.SelectSeries(voltsMarker, torrMarker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select voltage and pressure columns")
	}

	flatTable := ds.Flatten()
	volts, err := flatTable.Select(voltsMarker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select voltage column")
	}
	torr, err := flatTable.Select(torrMarker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select pressure column")
	}

	curves := make(map[interp.Method]ports.Interpolator, 2)
	for _, m := range []interp.Method{interp.MethodExact, interp.MethodAlternate} {
		curve, err := newCurve(series, m)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to prepare %s interpolation", m)
		}
		curves[m] = curve
	}

	if n := len(volts); !interp.AlternateSafe(n) {
		log.Warn("table has %d rows; alternate search is only exact up to %d", n, interp.AlternateMaxIndex+2)
	}

	s := &CalibrationService{
		logger:   log,
		session:  core.NewSessionID(),
		loadedAt: core.Now(),
		source:   src.Source(),
		dataset:  ds,
		flat:     calibration.Series{X: volts, Y: torr},
		curves:   curves,
	}
	log.Info("session %s loaded %s in %s", s.session, s.source, time.Since(start))
	return s, nil
}

// newCurve interpolates a single table directly and routes windowed tables
// through a segmented interpolator
func newCurve(series []calibration.Series, m interp.Method) (ports.Interpolator, error) {
	if len(series) == 1 {
		return interp.NewInterpolator(series[0].X, series[0].Y, m)
	}
	return interp.NewSegmented(series, m)
}

// Dataset returns the loaded dataset
func (s *CalibrationService) Dataset() *calibration.Dataset { return s.dataset }

// Session returns the id assigned when the table was loaded
func (s *CalibrationService) Session() core.SessionID { return s.session }

// Source names where the table came from
func (s *CalibrationService) Source() string { return s.source }

// Pressure interpolates the pressure in torr at the given output voltage
func (s *CalibrationService) Pressure(volts float64, method interp.Method) float64 {
	return s.curve(method).At(volts)
}

// Grid interpolates pressure at every voltage in qs
func (s *CalibrationService) Grid(qs []float64, method interp.Method) []float64 {
	return s.curve(method).Grid(qs)
}

func (s *CalibrationService) curve(method interp.Method) ports.Interpolator {
	if c, ok := s.curves[method]; ok {
		return c
	}
	return s.curves[interp.MethodExact]
}

// Compare runs both search methods over qs on the combined table
func (s *CalibrationService) Compare(ctx context.Context, qs []float64) (*interp.Divergence, error) {
	d, err := interp.Compare(ctx, qs, s.flat.X, s.flat.Y)
	if err != nil {
		return nil, errors.Wrap(err, "search comparison failed")
	}
	if !d.Agree() {
		s.logger.Debug("exact and alternate differ at %d of %d queries", len(d.Indices), len(qs))
	}
	return d, nil
}

// Fit fits log10(pressure) against voltage on the combined table
func (s *CalibrationService) Fit(opts fit.Options) (*fit.Result, error) {
	result, err := fit.LogPressure(s.flat.X, s.flat.Y, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "order %d fit failed", opts.Order)
	}
	s.logger.Debug("order %d fit: R²=%.6f", opts.Order, result.RSquared)
	return result, nil
}

// Report assembles a report summary; fit and comparison are included when given
func (s *CalibrationService) Report(result *fit.Result, d *interp.Divergence, linear bool) report.Summary {
	return report.Summary{
		Source:     s.source,
		Dataset:    s.dataset,
		Fit:        result,
		Divergence: d,
		Linear:     linear,
	}
}

// Info describes the loaded session
func (s *CalibrationService) Info() Info {
	info := Info{
		Session:     s.session,
		LoadedAt:    s.loadedAt.String(),
		Source:      s.source,
		Format:      s.dataset.Format,
		Mode:        s.dataset.Mode,
		Fingerprint: s.dataset.Fingerprint.String(),
	}
	voltsMarker, _ := s.dataset.Markers()
	for _, t := range s.dataset.Tables {
		ti := TableInfo{Columns: t.Names(), Rows: t.Len()}
		if volts, err := t.Select(voltsMarker); err == nil && len(volts) > 0 {
			ti.VoltsMin, ti.VoltsMax = floats.Min(volts), floats.Max(volts)
		}
		info.Tables = append(info.Tables, ti)
	}
	return info
}
