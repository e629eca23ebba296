// Package types provides type definitions for structured data used throughout the resume-aligner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Hybrid weight bounds and default. The weight is the semantic share of a
// hybrid score; the keyword share is its complement.
const (
	HybridWeightMin     = 0.1
	HybridWeightMax     = 0.9
	HybridWeightDefault = 0.6
)

// ClampHybridWeight bounds w to [HybridWeightMin, HybridWeightMax].
func ClampHybridWeight(w float64) float64 {
	if w < HybridWeightMin {
		return HybridWeightMin
	}
	if w > HybridWeightMax {
		return HybridWeightMax
	}
	return w
}

// CalibrationState is one published, immutable set of scorer weights.
// Publication is copy-on-write: readers hold a snapshot and a newly published
// state never alters one already handed out.
type CalibrationState struct {
	ModelVersion   int                          `json:"model_version"`
	HybridWeight   float64                      `json:"hybrid_weight"`
	BucketRates    map[ConfidenceBucket]float64 `json:"confidence_bucket_rates"`
	SampleSize     int                          `json:"sample_size"`
	PublishedAt    time.Time                    `json:"published_at"`
	AdjustmentNote string                       `json:"adjustment_note,omitempty"`
}

// DefaultCalibrationState returns the state used before any calibration has
// been published.
func DefaultCalibrationState() *CalibrationState {
	return &CalibrationState{
		ModelVersion: 1,
		HybridWeight: HybridWeightDefault,
		BucketRates:  map[ConfidenceBucket]float64{},
	}
}

// Clone returns a deep copy, used by the calibrator to derive the next state
// without touching the active one.
func (s *CalibrationState) Clone() *CalibrationState {
	out := *s
	out.BucketRates = make(map[ConfidenceBucket]float64, len(s.BucketRates))
	for k, v := range s.BucketRates {
		out.BucketRates[k] = v
	}
	return &out
}
