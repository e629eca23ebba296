package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-aligner/internal/config"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolveInputs_FromFiles(t *testing.T) {
	resumePath := writeTempFile(t, "resume.txt", "Built services using Python")
	jobPath := writeTempFile(t, "job.txt", "Looking for Python experience")

	resume, job, err := resolveInputs(context.Background(), &config.Config{
		Resume: resumePath,
		Job:    jobPath,
	})
	require.NoError(t, err)
	assert.Equal(t, "Built services using Python", resume)
	assert.Equal(t, "Looking for Python experience", job)
}

func TestResolveInputs_MissingJobSource(t *testing.T) {
	resumePath := writeTempFile(t, "resume.txt", "content")

	_, _, err := resolveInputs(context.Background(), &config.Config{Resume: resumePath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--job or --job-url")
}

func TestResolveInputs_EmptyResume(t *testing.T) {
	resumePath := writeTempFile(t, "resume.txt", "")
	jobPath := writeTempFile(t, "job.txt", "job text")

	_, _, err := resolveInputs(context.Background(), &config.Config{
		Resume: resumePath,
		Job:    jobPath,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestBuildStack_LexicalFallbackWithoutKey(t *testing.T) {
	cfg := &config.Config{}

	st, err := buildStack(context.Background(), cfg)
	require.NoError(t, err)
	defer st.cleanup()

	result, err := st.engine.Analyze(context.Background(),
		"Built services using Python and Docker on AWS infra",
		"Looking for a Python engineer with AWS and Docker experience",
		"keyword")
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.OverallScore)
}

func TestResolveConfig_ValidatesMode(t *testing.T) {
	_, err := resolveConfig(config.Config{Mode: "psychic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "psychic")
}
