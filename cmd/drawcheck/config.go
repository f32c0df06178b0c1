package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the CLI settings, read from drawcheck.yaml and overridable
// by flags.
type Config struct {
	// Tolerance is the numeric match tolerance in mm.
	Tolerance float64 `mapstructure:"tolerance"`
	// Workers is the per-item lookup parallelism.
	Workers int `mapstructure:"workers"`
	// SectionKeywords restricts BOM tables to pages mentioning one of
	// these words. Empty accepts all tables.
	SectionKeywords []string `mapstructure:"section_keywords"`
	// OCREnabled allows scanned input: page images passed as arguments
	// are read through Tesseract instead of the PDF text layer.
	OCREnabled bool `mapstructure:"ocr_enabled"`
	// Language is the Tesseract language string for OCR input, e.g.
	// "eng" or "eng+deu".
	Language string `mapstructure:"language"`
	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
}

// DefaultConfig returns the CLI defaults.
func DefaultConfig() Config {
	return Config{
		Tolerance: 0.5,
		Workers:   1,
		Language:  "eng",
	}
}

// LoadConfig reads drawcheck.yaml from the given path (or the working
// directory when empty). A missing file is not an error; defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("drawcheck")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
	}
	v.SetDefault("tolerance", cfg.Tolerance)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("language", cfg.Language)

	if err := v.ReadInConfig(); err != nil {
		// Without an explicit path, a missing config file means defaults.
		if path == "" {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
