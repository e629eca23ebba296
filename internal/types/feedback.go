// Package types provides type definitions for structured data used throughout the resume-aligner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"
)

// FeedbackType classifies how the user responded to a suggestion.
type FeedbackType string

// Supported feedback types.
const (
	FeedbackAccepted   FeedbackType = "accepted"
	FeedbackManualEdit FeedbackType = "manual_edit"
	FeedbackRejected   FeedbackType = "rejected"
	FeedbackRewritten  FeedbackType = "rewritten"
)

// Valid reports whether the feedback type is one of the supported values.
func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackAccepted, FeedbackManualEdit, FeedbackRejected, FeedbackRewritten:
		return true
	}
	return false
}

// Positive reports whether the feedback counts as an acceptance when
// computing acceptance rates. Manual edits count: the user kept the
// suggestion as a starting point.
func (t FeedbackType) Positive() bool {
	return t == FeedbackAccepted || t == FeedbackManualEdit
}

// FeedbackEvent is one append-only record of a user reacting to a suggestion.
// Events are never mutated or deleted.
type FeedbackEvent struct {
	ID              string       `json:"id"`
	ResumeID        string       `json:"resume_id" validate:"required"`
	Section         SectionType  `json:"section" validate:"required"`
	OldText         string       `json:"old_text"`
	NewText         string       `json:"new_text"`
	FeedbackType    FeedbackType `json:"feedback_type" validate:"required"`
	ConfidenceScore float64      `json:"confidence_score" validate:"gte=0,lte=1"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Validate checks the event fields that the store relies on.
func (e *FeedbackEvent) Validate() error {
	if e.ResumeID == "" {
		return fmt.Errorf("feedback event: resume_id is required")
	}
	if !e.FeedbackType.Valid() {
		return fmt.Errorf("feedback event: unknown feedback_type %q", e.FeedbackType)
	}
	if e.ConfidenceScore < 0 || e.ConfidenceScore > 1 {
		return fmt.Errorf("feedback event: confidence_score %v out of [0,1]", e.ConfidenceScore)
	}
	return nil
}

// ConfidenceBucket labels one of the fixed confidence ranges used when
// aggregating feedback: [0,0.5), [0.5,0.8), [0.8,1.0].
type ConfidenceBucket string

// The fixed confidence buckets.
const (
	BucketLow    ConfidenceBucket = "low"    // [0, 0.5)
	BucketMedium ConfidenceBucket = "medium" // [0.5, 0.8)
	BucketHigh   ConfidenceBucket = "high"   // [0.8, 1.0]
)

// BucketFor returns the fixed confidence bucket containing score.
func BucketFor(score float64) ConfidenceBucket {
	switch {
	case score < 0.5:
		return BucketLow
	case score < 0.8:
		return BucketMedium
	default:
		return BucketHigh
	}
}

// FeedbackSummary aggregates a window of feedback events for trend display
// and calibration.
type FeedbackSummary struct {
	Total                      int                          `json:"total"`
	AcceptanceRate             float64                      `json:"acceptance_rate"`
	CountsByType               map[FeedbackType]int         `json:"counts_by_type"`
	CountsBySection            map[SectionType]int          `json:"counts_by_section"`
	AcceptanceRateByConfidence map[ConfidenceBucket]float64 `json:"acceptance_rate_by_confidence_bucket"`
	From                       time.Time                    `json:"from"`
	To                         time.Time                    `json:"to"`
}
