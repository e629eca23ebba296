package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"job_url": "https://example.com/job",
		"mode": "hybrid",
		"embed_cache_size": 2048,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/job", cfg.JobURL)
	assert.Equal(t, "hybrid", cfg.Mode)
	assert.Equal(t, 2048, cfg.EmbedCacheSize)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MutuallyExclusive(t *testing.T) {
	cfg := &Config{
		Job:    "job.txt",
		JobURL: "https://example.com/job",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_UnknownMode(t *testing.T) {
	cfg := &Config{Mode: "psychic"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "psychic")
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := &Config{EmbedCacheSize: -1}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "embed_cache_size")
}

func TestValidate_MissingResumeFile(t *testing.T) {
	cfg := &Config{Resume: "/nonexistent/resume.txt"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "resume file not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Mode:           "keyword",
		EmbedCacheSize: 1024,
		ListenAddr:     ":8080",
	}

	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvDatabaseURL, "postgres://env")

	cfg := &Config{}
	cfg.ApplyEnv()
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)

	// Explicit values win over the environment.
	cfg = &Config{APIKey: "flag-key", DatabaseURL: "postgres://flag"}
	cfg.ApplyEnv()
	assert.Equal(t, "flag-key", cfg.APIKey)
	assert.Equal(t, "postgres://flag", cfg.DatabaseURL)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Mode:           "hybrid",
		ListenAddr:     ":8080",
		EmbedCacheSize: 4096,
		DatabaseURL:    "postgres://default",
	}

	partial := Config{
		Mode:   "keyword",
		Resume: "resume.txt",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "keyword", merged.Mode)
	assert.Equal(t, "resume.txt", merged.Resume)

	// Default values should fill in empty fields
	assert.Equal(t, ":8080", merged.ListenAddr)
	assert.Equal(t, 4096, merged.EmbedCacheSize)
	assert.Equal(t, "postgres://default", merged.DatabaseURL)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{
		Mode:   "semantic",
		Resume: "resume.txt",
	}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "semantic", merged.Mode)
	assert.Equal(t, "resume.txt", merged.Resume)
}
