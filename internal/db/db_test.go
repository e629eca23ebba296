package db

import (
	"github.com/jonathan/resume-aligner/internal/calibration"
	"github.com/jonathan/resume-aligner/internal/feedback"
)

// The Postgres layer plugs into the aggregator and calibrator through these
// interfaces; keep the assertions so a signature drift fails at compile time.
var (
	_ feedback.Store    = (*FeedbackStore)(nil)
	_ calibration.Saver = (*DB)(nil)
)
