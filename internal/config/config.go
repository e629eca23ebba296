// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-aligner/internal/types"
)

// Environment variable names recognized by ApplyEnv.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
)

// Config represents configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags.
type Config struct {
	// Inputs
	Resume string `json:"resume,omitempty"`  // Path to resume text file
	Job    string `json:"job,omitempty"`     // Path to job posting text file
	JobURL string `json:"job_url,omitempty"` // URL to fetch job posting from

	// Scoring
	Mode            string `json:"mode,omitempty"`             // semantic, keyword, or hybrid
	EmbeddingModel  string `json:"embedding_model,omitempty"`  // Gemini embedding model name
	GenerationModel string `json:"generation_model,omitempty"` // Gemini generation model name
	EmbedCacheSize  int    `json:"embed_cache_size,omitempty"` // LRU embedding cache entries

	// Calibration schedule
	CalibrationIntervalHours int `json:"calibration_interval_hours,omitempty"`
	CalibrationVolume        int `json:"calibration_volume,omitempty"`
	CalibrationMinSample     int `json:"calibration_min_sample,omitempty"`

	// Services
	ListenAddr  string `json:"listen_addr,omitempty"`  // Server bind address
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
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

// Validate checks that the configuration has valid values.
// Required fields are checked by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.Mode != "" && !types.AlignmentMode(c.Mode).Valid() {
		return fmt.Errorf("config error: unknown mode %q", c.Mode)
	}

	if c.EmbedCacheSize < 0 {
		return fmt.Errorf("config error: 'embed_cache_size' must be non-negative")
	}
	if c.CalibrationIntervalHours < 0 {
		return fmt.Errorf("config error: 'calibration_interval_hours' must be non-negative")
	}
	if c.CalibrationVolume < 0 {
		return fmt.Errorf("config error: 'calibration_volume' must be non-negative")
	}
	if c.CalibrationMinSample < 0 {
		return fmt.Errorf("config error: 'calibration_min_sample' must be non-negative")
	}

	for name, path := range map[string]string{"resume": c.Resume, "job": c.Job} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	return nil
}

// ApplyEnv fills credentials left empty by file and flags from the
// environment.
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Mode == "" {
		result.Mode = defaults.Mode
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.GenerationModel == "" {
		result.GenerationModel = defaults.GenerationModel
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.EmbedCacheSize == 0 {
		result.EmbedCacheSize = defaults.EmbedCacheSize
	}
	if result.CalibrationIntervalHours == 0 {
		result.CalibrationIntervalHours = defaults.CalibrationIntervalHours
	}
	if result.CalibrationVolume == 0 {
		result.CalibrationVolume = defaults.CalibrationVolume
	}
	if result.CalibrationMinSample == 0 {
		result.CalibrationMinSample = defaults.CalibrationMinSample
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
