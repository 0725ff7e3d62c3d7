package app

import (
	"apgcal/adapters/excel"
	"apgcal/internal"
	"apgcal/internal/calibration"
	"apgcal/internal/config"
	"apgcal/ports"
)

// SourceFor returns the embedded reference table for an empty path and a
// file reader otherwise
func SourceFor(path string) ports.TableSource {
	if path == "" {
		return ReferenceSource{}
	}
	return excel.NewTableReader(path)
}

// NewServiceFromConfig loads the configured table into a CalibrationService
func NewServiceFromConfig(cfg *config.Config, logger *internal.Logger) (*CalibrationService, error) {
	opts := calibration.BuildOptions{
		Format: cfg.Table.Format,
		Mode:   cfg.Table.Mode,
		Strict: cfg.Table.StrictLayout,
	}
	return NewCalibrationService(SourceFor(cfg.Table.File), opts, logger)
}
