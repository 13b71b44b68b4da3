package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

type Config struct {
	Workers      int     `json:"workers"`      // Number of datapoints processed concurrently. Zero = number of CPUs.
	OutputFormat string  `json:"outputFormat"` // "json" or "cbor"
	TaxonomyFile string  `json:"taxonomyFile"` // Taxonomy JSON, or a text file with one class name per line
	OverlayAlpha float64 `json:"overlayAlpha"` // Opacity of the colour mask previews, 0..1
	Overlays     bool    `json:"overlays"`     // Write a colour preview next to every segmentation mask
}

func DefaultConfig() *Config {
	return &Config{
		Workers:      runtime.NumCPU(),
		OutputFormat: FormatJSON,
		OverlayAlpha: 0.3,
	}
}

// LoadConfig reads a JSON config file. Fields that are absent keep their default values.
// An empty filename returns the default config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config %v: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputFormat != FormatJSON && c.OutputFormat != FormatCBOR {
		return fmt.Errorf("outputFormat must be '%v' or '%v', not '%v'", FormatJSON, FormatCBOR, c.OutputFormat)
	}
	if c.OverlayAlpha < 0 || c.OverlayAlpha > 1 {
		return fmt.Errorf("overlayAlpha must be between 0 and 1, not %v", c.OverlayAlpha)
	}
	return nil
}
