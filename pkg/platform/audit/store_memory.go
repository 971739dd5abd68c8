package audit

import (
	"context"
	"sync"
)

// InMemoryStore appends events to a slice. Suitable for tests and
// single-process deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByInstitution(_ context.Context, institutionID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.InstitutionID == institutionID {
			out = append(out, event)
		}
	}
	return out, nil
}
