package calibration

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-aligner/internal/feedback"
	"github.com/jonathan/resume-aligner/internal/types"
)

// Phase is the calibrator's position in its cycle.
type Phase string

// Calibration phases. A cycle runs IDLE → COLLECTING → RECALIBRATING →
// PUBLISHED → IDLE; an insufficient sample short-circuits back to IDLE
// without publishing.
const (
	PhaseIdle          Phase = "IDLE"
	PhaseCollecting    Phase = "COLLECTING"
	PhaseRecalibrating Phase = "RECALIBRATING"
	PhasePublished     Phase = "PUBLISHED"
)

// ErrInsufficientData signals that a calibration cycle was skipped because
// the sampled window held fewer events than the configured minimum. It is
// informational, not a failure.
var ErrInsufficientData = errors.New("insufficient feedback for calibration")

// Defaults for the calibration schedule and hill-climb.
const (
	DefaultInterval        = 24 * time.Hour
	DefaultVolumeThreshold = 50
	DefaultMinSampleSize   = 30
	DefaultStep            = 0.02
	DefaultWindow          = 30 * 24 * time.Hour
	DefaultPollInterval    = time.Minute
)

// Saver durably records published states. Optional: a nil Saver keeps
// calibration in memory only.
type Saver interface {
	SaveCalibrationState(ctx context.Context, state *types.CalibrationState) error
}

// Options configures the Calibrator.
type Options struct {
	Interval        time.Duration // time-based trigger
	VolumeThreshold int           // volume-based trigger (new events)
	MinSampleSize   int           // below this the cycle is skipped
	Step            float64       // hybrid weight adjustment per cycle
	Window          time.Duration // feedback window sampled per cycle
	PollInterval    time.Duration // how often Run checks the triggers
}

// DefaultOptions returns the standard calibration schedule.
func DefaultOptions() Options {
	return Options{
		Interval:        DefaultInterval,
		VolumeThreshold: DefaultVolumeThreshold,
		MinSampleSize:   DefaultMinSampleSize,
		Step:            DefaultStep,
		Window:          DefaultWindow,
		PollInterval:    DefaultPollInterval,
	}
}

// Calibrator owns calibration-state publication. It is the single writer of
// the Publisher and runs entirely off the request-serving path.
type Calibrator struct {
	agg       *feedback.Aggregator
	publisher *Publisher
	saver     Saver
	opts      Options
	logger    *zap.Logger

	phase       atomic.Value // Phase
	lastCycleAt time.Time
	lastTotal   int
}

// NewCalibrator creates a Calibrator. saver and logger may be nil.
func NewCalibrator(agg *feedback.Aggregator, publisher *Publisher, saver Saver, opts Options, logger *zap.Logger) *Calibrator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.VolumeThreshold <= 0 {
		opts.VolumeThreshold = DefaultVolumeThreshold
	}
	if opts.MinSampleSize <= 0 {
		opts.MinSampleSize = DefaultMinSampleSize
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Calibrator{
		agg:         agg,
		publisher:   publisher,
		saver:       saver,
		opts:        opts,
		logger:      logger,
		lastCycleAt: time.Now().UTC(),
	}
	c.phase.Store(PhaseIdle)
	return c
}

// Phase returns the calibrator's current phase.
func (c *Calibrator) Phase() Phase {
	return c.phase.Load().(Phase)
}

// Run polls the time and volume triggers until ctx is cancelled, executing a
// cycle when either fires. User-facing calls never block on it.
func (c *Calibrator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fire, reason := c.shouldFire(ctx)
			if !fire {
				continue
			}
			c.logger.Info("calibration triggered", zap.String("reason", reason))
			if err := c.RunOnce(ctx); err != nil {
				if errors.Is(err, ErrInsufficientData) {
					c.logger.Info("calibration skipped", zap.Error(err))
				} else {
					c.logger.Error("calibration cycle failed", zap.Error(err))
				}
			}
		}
	}
}

// shouldFire checks the two triggers: elapsed interval, or enough new events
// since the last cycle, whichever comes first.
func (c *Calibrator) shouldFire(ctx context.Context) (bool, string) {
	now := time.Now().UTC()
	if now.Sub(c.lastCycleAt) >= c.opts.Interval {
		return true, "interval elapsed"
	}

	summary, err := c.agg.Summarize(ctx, now.Add(-c.opts.Window), now)
	if err != nil {
		c.logger.Warn("failed to check volume trigger", zap.Error(err))
		return false, ""
	}
	if summary.Total-c.lastTotal >= c.opts.VolumeThreshold {
		return true, "volume threshold reached"
	}
	return false, ""
}

// RunOnce executes a single calibration cycle. It returns
// ErrInsufficientData when the sampled window is too small to act on; in
// that case nothing is published and the active state is unchanged.
func (c *Calibrator) RunOnce(ctx context.Context) error {
	defer c.phase.Store(PhaseIdle)

	c.phase.Store(PhaseCollecting)
	now := time.Now().UTC()
	c.lastCycleAt = now

	summary, err := c.agg.Summarize(ctx, now.Add(-c.opts.Window), now)
	if err != nil {
		return fmt.Errorf("failed to collect feedback summary: %w", err)
	}
	c.lastTotal = summary.Total

	if summary.Total < c.opts.MinSampleSize {
		return fmt.Errorf("%w: %d events, need %d", ErrInsufficientData, summary.Total, c.opts.MinSampleSize)
	}

	c.phase.Store(PhaseRecalibrating)
	next := c.recalibrate(summary)

	c.phase.Store(PhasePublished)
	c.publisher.publish(next)
	c.logger.Info("calibration published",
		zap.Int("model_version", next.ModelVersion),
		zap.Float64("hybrid_weight", next.HybridWeight),
		zap.Int("sample_size", next.SampleSize))

	if c.saver != nil {
		if err := c.saver.SaveCalibrationState(ctx, next); err != nil {
			// The in-memory publish already happened; persistence failure
			// only affects restart recovery.
			c.logger.Error("failed to persist calibration state", zap.Error(err))
		}
	}
	return nil
}

// recalibrate derives the next state from the current one and a feedback
// summary: bucket acceptance rates are recomputed wholesale, and the hybrid
// weight takes one fixed step toward whichever scoring component correlates
// with higher acceptance. A gradient-free hill-climb: feedback volume is too
// sparse for gradient estimation.
func (c *Calibrator) recalibrate(summary *types.FeedbackSummary) *types.CalibrationState {
	current := c.publisher.Active()
	next := current.Clone()
	next.ModelVersion = current.ModelVersion + 1
	next.SampleSize = summary.Total
	next.PublishedAt = time.Now().UTC()

	next.BucketRates = make(map[types.ConfidenceBucket]float64, len(summary.AcceptanceRateByConfidence))
	for bucket, rate := range summary.AcceptanceRateByConfidence {
		next.BucketRates[bucket] = rate
	}

	// High-confidence suggestions are the semantically strong matches; if
	// they are accepted more than low-confidence ones, the semantic signal
	// is earning trust and its share grows. The inverse shrinks it.
	highRate, hasHigh := summary.AcceptanceRateByConfidence[types.BucketHigh]
	lowRate, hasLow := summary.AcceptanceRateByConfidence[types.BucketLow]
	switch {
	case !hasHigh || !hasLow:
		next.AdjustmentNote = "hybrid weight unchanged: missing confidence bucket coverage"
	case highRate > lowRate:
		next.HybridWeight = types.ClampHybridWeight(current.HybridWeight + c.opts.Step)
		next.AdjustmentNote = "semantic share increased: high-confidence acceptance leads"
	case highRate < lowRate:
		next.HybridWeight = types.ClampHybridWeight(current.HybridWeight - c.opts.Step)
		next.AdjustmentNote = "semantic share decreased: low-confidence acceptance leads"
	default:
		next.AdjustmentNote = "hybrid weight unchanged: no acceptance differential"
	}

	return next
}
