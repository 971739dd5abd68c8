package models

import (
	"time"

	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

// Student is a registered identity bound to one institution, optionally to
// one physical device.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - InstitutionID references an existing institution (enforced at the
//     service layer)
//   - DeviceID, when present, is unique across all students (enforced by
//     the Registry)
//   - Credential is assigned once at registration and never regenerated
//     implicitly
type Student struct {
	ID            id.StudentID     `json:"id"`
	Name          string           `json:"name"`
	InstitutionID id.InstitutionID `json:"institution_id"`
	DeviceID      string           `json:"device_id,omitempty"`
	Credential    string           `json:"credential,omitempty"`
	Active        bool             `json:"active"`
	RegisteredAt  time.Time        `json:"registered_at"`
}

// NewStudent validates the construction invariants and builds the record.
// The credential is attached by the registration service before the record
// is persisted; a half-formed credential must never reach the store.
func NewStudent(studentID id.StudentID, name string, institutionID id.InstitutionID, deviceID string, now time.Time) (*Student, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "student name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "student name must be 128 characters or less")
	}
	if institutionID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "student must belong to an institution")
	}
	return &Student{
		ID:            studentID,
		Name:          name,
		InstitutionID: institutionID,
		DeviceID:      deviceID,
		Active:        true,
		RegisteredAt:  now,
	}, nil
}
