package feedback

import (
	"context"
	"sync"

	"github.com/jonathan/resume-aligner/internal/types"
)

// MemoryStore is an in-process append-only event log. It is safe under
// unbounded concurrent writers and is the default store when no database is
// configured.
type MemoryStore struct {
	mu     sync.RWMutex
	events []types.FeedbackEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds one event to the log.
func (s *MemoryStore) Append(_ context.Context, event *types.FeedbackEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

// List returns copies of the events matching the filter, in append order.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]types.FeedbackEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.FeedbackEvent, 0, len(s.events))
	for i := range s.events {
		if filter.Matches(&s.events[i]) {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

// Len returns the number of stored events.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
