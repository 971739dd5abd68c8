package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"schoolgate/internal/institution/models"
	id "schoolgate/pkg/domain"
	"schoolgate/pkg/platform/sentinel"
)

// InMemory keeps institutions in a map. It favors clarity over performance
// and doubles as the fake Registry in unit tests.
type InMemory struct {
	mu           sync.RWMutex
	institutions map[uuid.UUID]*models.Institution
}

func NewInMemory() *InMemory {
	return &InMemory{institutions: make(map[uuid.UUID]*models.Institution)}
}

func (s *InMemory) Create(_ context.Context, institution *models.Institution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := uuid.UUID(institution.ID)
	if _, exists := s.institutions[key]; exists {
		return sentinel.ErrConflict
	}
	copied := *institution
	s.institutions[key] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, institutionID id.InstitutionID) (*models.Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	institution, ok := s.institutions[uuid.UUID(institutionID)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *institution
	return &copied, nil
}
