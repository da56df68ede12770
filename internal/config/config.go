// Package config loads meter settings from an optional YAML file and
// applies defaults. All dB constants here are tuning values for a
// relative meter, not absolute SPL calibration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable meter settings.
type Config struct {
	// FFTSize is the analysis frame size in samples. Must be a power
	// of two; the FFT plan and window are built once for this size.
	FFTSize int `yaml:"fft_size"`

	// SampleRate is the capture rate in Hz.
	SampleRate int `yaml:"sample_rate"`

	// Bands is the display spectrum band count, clamped to [10,100].
	Bands int `yaml:"bands"`

	// CalibrationOffset is added to every dB reading before clamping.
	CalibrationOffset float64 `yaml:"calibration_offset"`

	// ReferenceOffset shifts spectral power onto the 0-140 display
	// scale.
	ReferenceOffset float64 `yaml:"reference_offset"`

	// WeightingOffset normalises the A-curve at 1 kHz.
	WeightingOffset float64 `yaml:"weighting_offset"`
}

// Default returns the standard meter settings.
func Default() Config {
	return Config{
		FFTSize:           1024,
		SampleRate:        44100,
		Bands:             60,
		CalibrationOffset: 0,
		ReferenceOffset:   100.0,
		WeightingOffset:   2.0,
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings are usable, clamping the band count
// into its supported range rather than failing on it.
func (c *Config) Validate() error {
	if c.FFTSize < 64 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("fft_size %d must be a power of two >= 64", c.FFTSize)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate %d must be positive", c.SampleRate)
	}
	if c.Bands < 10 {
		c.Bands = 10
	}
	if c.Bands > 100 {
		c.Bands = 100
	}
	return nil
}
