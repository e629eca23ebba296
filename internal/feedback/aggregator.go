// Package feedback collects user reactions to rewrite suggestions in an
// append-only log and aggregates them for trend display and calibration.
package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-aligner/internal/types"
)

// Filter narrows a feedback query. Zero values match everything.
type Filter struct {
	ResumeID string
	Section  types.SectionType
	Type     types.FeedbackType
	From     time.Time
	To       time.Time
}

// Matches reports whether an event passes the filter.
func (f Filter) Matches(e *types.FeedbackEvent) bool {
	if f.ResumeID != "" && e.ResumeID != f.ResumeID {
		return false
	}
	if f.Section != "" && e.Section != f.Section {
		return false
	}
	if f.Type != "" && e.FeedbackType != f.Type {
		return false
	}
	if !f.From.IsZero() && e.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !e.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

// Store persists feedback events. Implementations are insert-only: events
// are never updated or deleted, which is what makes unbounded concurrent
// recording safe.
type Store interface {
	Append(ctx context.Context, event *types.FeedbackEvent) error
	List(ctx context.Context, filter Filter) ([]types.FeedbackEvent, error)
}

// Aggregator is the write and read surface over the feedback log.
type Aggregator struct {
	store  Store
	logger *zap.Logger
}

// NewAggregator creates an Aggregator over the given store. logger may be nil.
func NewAggregator(store Store, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{store: store, logger: logger}
}

// Record validates and appends one event, returning its assigned ID. A
// persistence failure is reported to the caller, never swallowed.
func (a *Aggregator) Record(ctx context.Context, event types.FeedbackEvent) (string, error) {
	if err := event.Validate(); err != nil {
		return "", err
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := a.store.Append(ctx, &event); err != nil {
		return "", fmt.Errorf("failed to persist feedback event: %w", err)
	}

	a.logger.Debug("feedback recorded",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.FeedbackType)),
		zap.String("section", string(event.Section)))
	return event.ID, nil
}

// Query returns the events matching the filter, oldest first.
func (a *Aggregator) Query(ctx context.Context, filter Filter) ([]types.FeedbackEvent, error) {
	events, err := a.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback events: %w", err)
	}
	return events, nil
}

// Summarize aggregates the events in [from, to): counts by type and section,
// the overall acceptance rate, and the acceptance rate per fixed confidence
// bucket.
func (a *Aggregator) Summarize(ctx context.Context, from, to time.Time) (*types.FeedbackSummary, error) {
	events, err := a.store.List(ctx, Filter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to summarize feedback: %w", err)
	}

	summary := &types.FeedbackSummary{
		Total:                      len(events),
		CountsByType:               map[types.FeedbackType]int{},
		CountsBySection:            map[types.SectionType]int{},
		AcceptanceRateByConfidence: map[types.ConfidenceBucket]float64{},
		From:                       from,
		To:                         to,
	}

	accepted := 0
	bucketTotals := map[types.ConfidenceBucket]int{}
	bucketAccepted := map[types.ConfidenceBucket]int{}

	for i := range events {
		e := &events[i]
		summary.CountsByType[e.FeedbackType]++
		summary.CountsBySection[e.Section]++

		bucket := types.BucketFor(e.ConfidenceScore)
		bucketTotals[bucket]++
		if e.FeedbackType.Positive() {
			accepted++
			bucketAccepted[bucket]++
		}
	}

	if summary.Total > 0 {
		summary.AcceptanceRate = float64(accepted) / float64(summary.Total)
	}
	for bucket, total := range bucketTotals {
		summary.AcceptanceRateByConfidence[bucket] = float64(bucketAccepted[bucket]) / float64(total)
	}
	return summary, nil
}
