package detsim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes one simulation run. It is read from JSON or YAML.
type Config struct {
	Input         string      `json:"input,omitempty" yaml:"input,omitempty"`     // RAW (.raw) or PNG irradiance image
	Pattern       string      `json:"pattern,omitempty" yaml:"pattern,omitempty"` // flat | ramp, used when Input is empty
	Rows          int         `json:"rows,omitempty" yaml:"rows,omitempty"`
	Cols          int         `json:"cols,omitempty" yaml:"cols,omitempty"`
	PeakElectrons Real        `json:"peakElectrons" yaml:"peakElectrons"`
	Seed          *uint64     `json:"seed,omitempty" yaml:"seed,omitempty"` // nil: time based, logged
	Frames        int         `json:"frames,omitempty" yaml:"frames,omitempty"`
	Workers       int         `json:"workers,omitempty" yaml:"workers,omitempty"`
	PNGOut        string      `json:"pngOut,omitempty" yaml:"pngOut,omitempty"` // prefix for the PNG sequence
	GIFOut        string      `json:"gifOut,omitempty" yaml:"gifOut,omitempty"`
	GIFDelay      int         `json:"gifDelay,omitempty" yaml:"gifDelay,omitempty"`
	Gamma         Real        `json:"gamma,omitempty" yaml:"gamma,omitempty"`
	RawOut        string      `json:"rawOut,omitempty" yaml:"rawOut,omitempty"` // scaled electron image
	ArchiveOut    string      `json:"archiveOut,omitempty" yaml:"archiveOut,omitempty"`
	Catalog       string      `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Detector      DetectorCfg `json:"detector" yaml:"detector"`
}

// DefaultConfig returns the values a config file is decoded on top of, so keys
// missing from the file keep these defaults while explicit zeros are honored.
func DefaultConfig() Config {
	return Config{
		Pattern:       Pattern,
		Rows:          Rows,
		Cols:          Cols,
		PeakElectrons: PeakElectrons,
		Frames:        Frames,
		GIFDelay:      GIFDelay,
		Gamma:         Gamma,
		Detector:      DefaultDetectorCfg(),
	}
}

// ParseConfig decodes data as YAML when yamlFormat is set, JSON otherwise,
// then applies defaults and validates.
func ParseConfig(data []byte, yamlFormat bool) (*Config, error) {
	cfg := DefaultConfig()
	if yamlFormat {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: yaml: %v", ErrConfig, err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: json: %v", ErrConfig, err)
		}
	}
	// Defaults / validation
	if cfg.Rows <= 0 {
		cfg.Rows = Rows
	}
	if cfg.Cols <= 0 {
		cfg.Cols = Cols
	}
	if cfg.Frames <= 0 {
		cfg.Frames = Frames
	}
	if cfg.GIFDelay <= 0 {
		cfg.GIFDelay = GIFDelay
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = Gamma
	}
	if cfg.Pattern == "" {
		cfg.Pattern = Pattern
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks run level fields and the detector section.
func (c *Config) Validate() error {
	if c.Input == "" && c.Pattern != "flat" && c.Pattern != "ramp" {
		return fmt.Errorf("%w: unknown pattern %q (want flat or ramp)", ErrConfig, c.Pattern)
	}
	if !isFinite(c.PeakElectrons) || c.PeakElectrons < 0 {
		return fmt.Errorf("%w: peakElectrons must be finite and >= 0, got %g", ErrConfig, c.PeakElectrons)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrConfig, c.Workers)
	}
	return c.Detector.Validate()
}

// LoadConfig reads a run config; .yaml and .yml files are YAML, anything else JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	cfg, err := ParseConfig(data, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	DebugLog("Loaded config from %s: input=%q pattern=%s size=(%d, %d), peak=%.6g e-, frames=%d", path, cfg.Input, cfg.Pattern, cfg.Rows, cfg.Cols, cfg.PeakElectrons, cfg.Frames)
	return cfg, nil
}
