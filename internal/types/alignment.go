// Package types provides type definitions for structured data used throughout the resume-aligner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"
	"time"
)

// AlignmentMode selects how resume/JD similarity is computed.
type AlignmentMode string

// Supported alignment modes.
const (
	ModeSemantic AlignmentMode = "semantic"
	ModeKeyword  AlignmentMode = "keyword"
	ModeHybrid   AlignmentMode = "hybrid"
)

// Valid reports whether the mode is one of the supported values.
func (m AlignmentMode) Valid() bool {
	switch m {
	case ModeSemantic, ModeKeyword, ModeHybrid:
		return true
	}
	return false
}

// ScorePrecision is the number of decimal places all alignment scores are
// rounded to before being returned.
const ScorePrecision = 4

// RoundScore clamps v to [0,1] and rounds it to ScorePrecision decimals.
func RoundScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		v = 1
	}
	shift := math.Pow(10, ScorePrecision)
	return math.Round(v*shift) / shift
}

// LineMatch records the best-matching resume bullet for one JD line.
// BestBulletIndex is -1 when no bullet could be matched (e.g. empty resume or
// every similarity for the line timed out).
type LineMatch struct {
	JDLineIndex     int     `json:"jd_line_index"`
	BestBulletIndex int     `json:"best_bullet_index"`
	Similarity      float64 `json:"similarity"`
}

// AlignmentResult is an immutable snapshot of one alignment analysis. It is
// derived data, not a system of record.
type AlignmentResult struct {
	ResumeID string        `json:"resume_id"`
	JDID     string        `json:"jd_id"`
	Mode     AlignmentMode `json:"mode"`

	// OverallScore is the alignment score in [0,1] for the requested mode.
	// Coverage is the fraction of JD keywords found in the resume. The two
	// are distinct metrics and are always reported separately.
	OverallScore float64 `json:"overall_score"`
	Coverage     float64 `json:"coverage"`

	PerJDLineMatches []LineMatch `json:"per_jd_line_matches"`
	MissingKeywords  []string    `json:"missing_keywords"`
	Suggestions      []string    `json:"suggestions,omitempty"`

	// Partial is true when one or more similarity pairs were excluded due to
	// backend timeouts. Degraded is true when the semantic backend was
	// entirely unavailable and the result fell back to keyword mode.
	Partial  bool `json:"partial"`
	Degraded bool `json:"degraded,omitempty"`

	ModelVersion int       `json:"model_version"`
	ComputedAt   time.Time `json:"computed_at"`
}
