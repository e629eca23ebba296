package sectionizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-aligner/internal/types"
)

func TestSectionizeEmptyInput(t *testing.T) {
	assert.Empty(t, Sectionize(""))
	assert.Empty(t, Sectionize("   \n\n  \t "))
}

func TestSectionizeNoHeadersFallsBackToOther(t *testing.T) {
	sections := Sectionize("Built services in Go.\nShipped features weekly.")

	require.Len(t, sections, 1)
	assert.Equal(t, types.SectionOther, sections[0].Type)
	assert.Len(t, sections[0].Bullets, 2)
}

func TestSectionizeRecognizesHeaders(t *testing.T) {
	raw := `Summary
Seasoned backend engineer.

EXPERIENCE:
- Built payment APIs in Go
- Led migration to Kubernetes

Technical Skills
Go, PostgreSQL, Docker

Education
BS Computer Science`

	sections := Sectionize(raw)
	require.Len(t, sections, 4)

	assert.Equal(t, types.SectionSummary, sections[0].Type)
	assert.Equal(t, types.SectionExperience, sections[1].Type)
	assert.Equal(t, types.SectionSkills, sections[2].Type)
	assert.Equal(t, types.SectionEducation, sections[3].Type)

	require.Len(t, sections[1].Bullets, 2)
	assert.Equal(t, "Built payment APIs in Go", sections[1].Bullets[0].Text)
	assert.Equal(t, "Led migration to Kubernetes", sections[1].Bullets[1].Text)
}

func TestSectionizeHandlesMisspelledHeaders(t *testing.T) {
	sections := Sectionize("Work Experiance\nDid backend things")

	require.Len(t, sections, 1)
	assert.Equal(t, types.SectionExperience, sections[0].Type)
}

func TestSectionizeIgnoresHeaderWordsInBodyText(t *testing.T) {
	// "experience" appears mid-sentence on a long line; it must not start a
	// new section.
	raw := "Summary\nTen years of professional experience building large distributed systems with Go and gRPC at scale"

	sections := Sectionize(raw)
	require.Len(t, sections, 1)
	assert.Equal(t, types.SectionSummary, sections[0].Type)
}

func TestSectionizeContentBeforeFirstHeader(t *testing.T) {
	raw := "Jane Doe\njane@example.com\n\nSkills\nGo, SQL"

	sections := Sectionize(raw)
	require.Len(t, sections, 2)
	assert.Equal(t, types.SectionOther, sections[0].Type)
	assert.Equal(t, types.SectionSkills, sections[1].Type)
}

func TestSectionizeSplitsInlineBullets(t *testing.T) {
	sections := Sectionize("Experience\nBuilt APIs • Deployed on AWS • Mentored juniors")

	require.Len(t, sections, 1)
	require.Len(t, sections[0].Bullets, 3)
	assert.Equal(t, "Deployed on AWS", sections[0].Bullets[1].Text)
}

func TestSectionizeDeterministic(t *testing.T) {
	raw := "Summary\nEngineer.\nSkills\nGo, SQL"
	first := Sectionize(raw)
	second := Sectionize(raw)
	assert.Equal(t, first, second)
}
