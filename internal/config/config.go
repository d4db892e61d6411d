// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags.
type Config struct {
	// Inputs
	Listings    string `json:"listings,omitempty"`     // path to a listings JSON file
	ListingsCSV string `json:"listings_csv,omitempty"` // path to a listings CSV file

	// Clustering
	Linkage      string  `json:"linkage,omitempty" validate:"omitempty,oneof=single complete average"`
	CutCount     int     `json:"cut_count,omitempty" validate:"omitempty,min=1"`
	CutThreshold float64 `json:"cut_threshold,omitempty" validate:"omitempty,min=0"`
	Strict       bool    `json:"strict,omitempty"` // reject listings with undeclared tokens
	Vocabulary   string  `json:"vocabulary,omitempty"`

	// Scraping
	SearchURL  string `json:"search_url,omitempty" validate:"omitempty,url"`
	NumJobs    int    `json:"num_jobs,omitempty" validate:"omitempty,min=1,max=900"`
	UseBrowser bool   `json:"use_browser,omitempty"`

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`
	OutDir      string `json:"out_dir,omitempty"`
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	OSAPIKey    string `json:"os_api_key,omitempty"`   // OS Names API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are enforced later by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Listings != "" && c.ListingsCSV != "" {
		return fmt.Errorf("config error: 'listings' and 'listings_csv' are mutually exclusive")
	}
	if c.CutCount > 0 && c.CutThreshold > 0 {
		return fmt.Errorf("config error: 'cut_count' and 'cut_threshold' are mutually exclusive")
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	for _, path := range []string{c.Listings, c.ListingsCSV, c.Vocabulary} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: file not found: %s", path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Listings == "" {
		result.Listings = defaults.Listings
	}
	if result.ListingsCSV == "" {
		result.ListingsCSV = defaults.ListingsCSV
	}
	if result.Linkage == "" {
		result.Linkage = defaults.Linkage
	}
	if result.CutCount == 0 {
		result.CutCount = defaults.CutCount
	}
	if result.CutThreshold == 0 {
		result.CutThreshold = defaults.CutThreshold
	}
	if result.Vocabulary == "" {
		result.Vocabulary = defaults.Vocabulary
	}
	if result.SearchURL == "" {
		result.SearchURL = defaults.SearchURL
	}
	if result.NumJobs == 0 {
		result.NumJobs = defaults.NumJobs
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OSAPIKey == "" {
		result.OSAPIKey = defaults.OSAPIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	result.Strict = result.Strict || defaults.Strict
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
