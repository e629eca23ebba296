package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-aligner/internal/feedback"
	"github.com/jonathan/resume-aligner/internal/types"
)

// FeedbackStore implements feedback.Store on PostgreSQL. Writes are pure
// inserts, so concurrent recorders never contend on a read-modify-write.
type FeedbackStore struct {
	db *DB
}

// NewFeedbackStore returns a Postgres-backed feedback store.
func NewFeedbackStore(db *DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Append inserts one feedback event.
func (s *FeedbackStore) Append(ctx context.Context, event *types.FeedbackEvent) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO feedback_events
		 (id, resume_id, section, old_text, new_text, feedback_type, confidence_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.ResumeID, string(event.Section), event.OldText, event.NewText,
		string(event.FeedbackType), event.ConfidenceScore, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback event: %w", err)
	}
	return nil
}

// List returns the events matching the filter, oldest first.
func (s *FeedbackStore) List(ctx context.Context, filter feedback.Filter) ([]types.FeedbackEvent, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ResumeID != "" {
		conds = append(conds, "resume_id = "+arg(filter.ResumeID))
	}
	if filter.Section != "" {
		conds = append(conds, "section = "+arg(string(filter.Section)))
	}
	if filter.Type != "" {
		conds = append(conds, "feedback_type = "+arg(string(filter.Type)))
	}
	if !filter.From.IsZero() {
		conds = append(conds, "created_at >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "created_at < "+arg(filter.To))
	}

	query := `SELECT id, resume_id, section, old_text, new_text, feedback_type, confidence_score, created_at
		 FROM feedback_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback events: %w", err)
	}
	defer rows.Close()

	var out []types.FeedbackEvent
	for rows.Next() {
		var (
			e           types.FeedbackEvent
			section, ft string
		)
		if err := rows.Scan(&e.ID, &e.ResumeID, &section, &e.OldText, &e.NewText, &ft, &e.ConfidenceScore, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback event: %w", err)
		}
		e.Section = types.SectionType(section)
		e.FeedbackType = types.FeedbackType(ft)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feedback events: %w", err)
	}
	return out, nil
}
