package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"schoolgate/internal/policy/models"
	id "schoolgate/pkg/domain"
)

// InMemory keeps policy entries in insertion order per institution. It plays
// the role of a Registry with no uniqueness guarantees: double bootstrap
// duplicates entries, matching the core contract.
type InMemory struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]*models.PolicyEntry
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[uuid.UUID][]*models.PolicyEntry)}
}

func (s *InMemory) CreateBatch(_ context.Context, entries []*models.PolicyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		copied := *entry
		key := uuid.UUID(entry.InstitutionID)
		s.entries[key] = append(s.entries[key], &copied)
	}
	return nil
}

func (s *InMemory) ListByInstitution(_ context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.entries[uuid.UUID(institutionID)]
	out := make([]*models.PolicyEntry, 0, len(stored))
	for _, entry := range stored {
		copied := *entry
		out = append(out, &copied)
	}
	return out, nil
}

func (s *InMemory) SetAllowed(_ context.Context, institutionID id.InstitutionID, appName string, allowed bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Exact, case-sensitive match; with duplicate app names the first entry
	// in insertion order wins.
	for _, entry := range s.entries[uuid.UUID(institutionID)] {
		if entry.AppName == appName {
			entry.Allowed = allowed
			return true, nil
		}
	}
	return false, nil
}
