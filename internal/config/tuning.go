package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/acoustics.report/internal/acoustics"
	"github.com/banshee-data/acoustics.report/internal/analyzer"
)

// TuningConfig carries the tunable constants of the acoustic model. Fields
// are pointers so a partial JSON file overrides only what it names; the Get*
// accessors supply compiled defaults for everything else.
type TuningConfig struct {
	// Acoustic model params
	SpeedOfSoundMps   *float64 `json:"speed_of_sound_mps,omitempty"`
	MaxModeOrder      *int     `json:"max_mode_order,omitempty"`
	AbsorptionFloor   *float64 `json:"absorption_floor,omitempty"`
	BackgroundNoiseDB *float64 `json:"background_noise_db,omitempty"`

	// Analyzer params
	EmptyGeometryConfidence *float64 `json:"empty_geometry_confidence,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields unset, resolving
// to the compiled defaults.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted from
// the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that any set values are physically plausible.
func (c *TuningConfig) Validate() error {
	if c.SpeedOfSoundMps != nil {
		if *c.SpeedOfSoundMps < 100 || *c.SpeedOfSoundMps > 1000 {
			return fmt.Errorf("speed_of_sound_mps must be between 100 and 1000, got %f", *c.SpeedOfSoundMps)
		}
	}

	if c.MaxModeOrder != nil {
		if *c.MaxModeOrder < 1 || *c.MaxModeOrder > 10 {
			return fmt.Errorf("max_mode_order must be between 1 and 10, got %d", *c.MaxModeOrder)
		}
	}

	if c.AbsorptionFloor != nil {
		if *c.AbsorptionFloor <= 0 || *c.AbsorptionFloor >= 1 {
			return fmt.Errorf("absorption_floor must be in (0,1), got %f", *c.AbsorptionFloor)
		}
	}

	if c.BackgroundNoiseDB != nil {
		if *c.BackgroundNoiseDB < 0 || *c.BackgroundNoiseDB > 120 {
			return fmt.Errorf("background_noise_db must be between 0 and 120, got %f", *c.BackgroundNoiseDB)
		}
	}

	if c.EmptyGeometryConfidence != nil {
		if *c.EmptyGeometryConfidence <= 0 || *c.EmptyGeometryConfidence > 1 {
			return fmt.Errorf("empty_geometry_confidence must be in (0,1], got %f", *c.EmptyGeometryConfidence)
		}
	}

	return nil
}

// GetSpeedOfSoundMps returns the speed_of_sound_mps value or the default.
func (c *TuningConfig) GetSpeedOfSoundMps() float64 {
	if c.SpeedOfSoundMps == nil {
		return acoustics.DefaultSpeedOfSound
	}
	return *c.SpeedOfSoundMps
}

// GetMaxModeOrder returns the max_mode_order value or the default.
func (c *TuningConfig) GetMaxModeOrder() int {
	if c.MaxModeOrder == nil {
		return acoustics.DefaultMaxModeOrder
	}
	return *c.MaxModeOrder
}

// GetAbsorptionFloor returns the absorption_floor value or the default.
func (c *TuningConfig) GetAbsorptionFloor() float64 {
	if c.AbsorptionFloor == nil {
		return acoustics.DefaultAbsorptionFloor
	}
	return *c.AbsorptionFloor
}

// GetBackgroundNoiseDB returns the background_noise_db value or the default.
func (c *TuningConfig) GetBackgroundNoiseDB() float64 {
	if c.BackgroundNoiseDB == nil {
		return acoustics.DefaultBackgroundNoise
	}
	return *c.BackgroundNoiseDB
}

// GetEmptyGeometryConfidence returns the empty_geometry_confidence value or
// the default.
func (c *TuningConfig) GetEmptyGeometryConfidence() float64 {
	if c.EmptyGeometryConfidence == nil {
		return analyzer.DefaultEmptyGeometryConfidence
	}
	return *c.EmptyGeometryConfidence
}

// AnalyzerConfig resolves the tuning values into the analyzer's config.
func (c *TuningConfig) AnalyzerConfig() analyzer.Config {
	return analyzer.Config{
		Acoustics: acoustics.Config{
			SpeedOfSound:    c.GetSpeedOfSoundMps(),
			MaxModeOrder:    c.GetMaxModeOrder(),
			AbsorptionFloor: c.GetAbsorptionFloor(),
			BackgroundNoise: c.GetBackgroundNoiseDB(),
		},
		EmptyGeometryConfidence: c.GetEmptyGeometryConfidence(),
	}
}
