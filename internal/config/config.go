package config

import (
	"fmt"
	"os"
	"strconv"

	"apgcal/internal/calibration"
	"apgcal/internal/errors"
	"apgcal/internal/interp"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Table  TableConfig
	Fit    FitConfig
	Server ServerConfig
	Export ExportConfig
}

// TableConfig selects the calibration source and how its blocks are joined
type TableConfig struct {
	// File is a .txt or .xlsx source; empty means the embedded reference table
	File         string
	Format       calibration.Format
	Mode         calibration.Mode
	StrictLayout bool
	Method       interp.Method
}

// FitConfig holds polynomial fit settings
type FitConfig struct {
	Order     int
	ChopLeft  int
	ChopRight int
	// Linear disables the log pressure axis in rendered reports
	Linear bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ExportConfig holds output locations
type ExportConfig struct {
	Dir string
}

// Load reads a .env file if present, then configuration from environment
// variables, and validates it
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	tableConfig, err := loadTableConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load table configuration")
	}

	config := &Config{
		Table:  *tableConfig,
		Fit:    *loadFitConfig(),
		Server: *loadServerConfig(),
		Export: *loadExportConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadTableConfig() (*TableConfig, error) {
	mode := calibration.ModeWindowed
	// ONETBL and APG_COMBINE are historical switches; presence alone selects combine.
	for _, key := range []string{"ONETBL", "APG_COMBINE"} {
		if _, ok := os.LookupEnv(key); ok {
			mode = calibration.ModeCombine
		}
	}
	if value := os.Getenv("STITCH_MODE"); value != "" {
		parsed, err := calibration.ParseMode(value)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}

	format, err := calibration.ParseFormat(getEnvOrDefault("TABLE_FORMAT", string(calibration.FormatBlocks)))
	if err != nil {
		return nil, err
	}

	method, err := interp.ParseMethod(getEnvOrDefault("INTERP_METHOD", string(interp.MethodExact)))
	if err != nil {
		return nil, err
	}

	return &TableConfig{
		File:         getEnvOrDefault("TABLE_FILE", ""),
		Format:       format,
		Mode:         mode,
		StrictLayout: getEnvBoolOrDefault("TABLE_STRICT_LAYOUT", false),
		Method:       method,
	}, nil
}

func loadFitConfig() *FitConfig {
	_, linear := os.LookupEnv("GOLINEAR")
	return &FitConfig{
		Order:     getEnvIntOrDefault("FIT_ORDER", 5),
		ChopLeft:  getEnvIntOrDefault("FIT_CHOP_LEFT", 0),
		ChopRight: getEnvIntOrDefault("FIT_CHOP_RIGHT", 0),
		Linear:    linear,
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadExportConfig() *ExportConfig {
	return &ExportConfig{
		Dir: getEnvOrDefault("EXPORT_DIR", "."),
	}
}

func validateConfig(config *Config) error {
	if config.Fit.Order < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("FIT_ORDER must be at least 1, got %d", config.Fit.Order))
	}
	if config.Fit.ChopLeft < 0 || config.Fit.ChopRight < 0 {
		return errors.ConfigInvalid("FIT_CHOP_LEFT and FIT_CHOP_RIGHT cannot be negative")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
