// Package calibration periodically recalibrates scorer weights from
// aggregated feedback and publishes them atomically to concurrent readers.
package calibration

import (
	"sync/atomic"

	"github.com/jonathan/resume-aligner/internal/types"
)

// Publisher holds the active CalibrationState. Reads are lock-free snapshots;
// writes are a copy-on-write pointer swap performed only by the Calibrator,
// so an in-flight scoring pass never observes a half-written state.
type Publisher struct {
	active atomic.Pointer[types.CalibrationState]
}

// NewPublisher creates a Publisher with the given initial state, or the
// default state when initial is nil.
func NewPublisher(initial *types.CalibrationState) *Publisher {
	p := &Publisher{}
	if initial == nil {
		initial = types.DefaultCalibrationState()
	}
	p.active.Store(initial)
	return p
}

// Active returns the current state snapshot. The returned value is immutable;
// callers use it for an entire scoring pass.
func (p *Publisher) Active() *types.CalibrationState {
	return p.active.Load()
}

// publish swaps in a new state. Single-writer: only the Calibrator calls it.
func (p *Publisher) publish(state *types.CalibrationState) {
	p.active.Store(state)
}
