package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"schoolgate/internal/student/models"
	id "schoolgate/pkg/domain"
	"schoolgate/pkg/platform/sentinel"
)

// InMemory keeps student records in a map with a device-id index enforcing
// the global hardware uniqueness the Registry guarantees in production.
type InMemory struct {
	mu       sync.RWMutex
	students map[uuid.UUID]*models.Student
	devices  map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		students: make(map[uuid.UUID]*models.Student),
		devices:  make(map[string]uuid.UUID),
	}
}

func (s *InMemory) Create(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if student.DeviceID != "" {
		if _, taken := s.devices[student.DeviceID]; taken {
			return sentinel.ErrAlreadyUsed
		}
	}

	key := uuid.UUID(student.ID)
	if _, exists := s.students[key]; exists {
		return sentinel.ErrConflict
	}

	copied := *student
	s.students[key] = &copied
	if student.DeviceID != "" {
		s.devices[student.DeviceID] = key
	}
	return nil
}

func (s *InMemory) FindByID(_ context.Context, studentID id.StudentID) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[uuid.UUID(studentID)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *student
	return &copied, nil
}
