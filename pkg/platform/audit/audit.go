// Package audit records administrative mutations (institution creation,
// student registration, policy changes) for after-the-fact review.
//
// Presence verifications are intentionally not audited.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an audit event.
type Kind string

const (
	KindInstitutionCreated   Kind = "institution.created"
	KindStudentRegistered    Kind = "student.registered"
	KindPoliciesBootstrapped Kind = "policies.bootstrapped"
	KindPoliciesUpdated      Kind = "policies.updated"
)

// Event is one recorded mutation. Detail carries small, non-sensitive
// key/value context (counts, names); never credentials.
type Event struct {
	ID            uuid.UUID         `json:"id"`
	Kind          Kind              `json:"kind"`
	InstitutionID string            `json:"institution_id,omitempty"`
	StaffID       string            `json:"staff_id,omitempty"`
	Detail        map[string]string `json:"detail,omitempty"`
	At            time.Time         `json:"at"`
}

// NewEvent stamps identity and time onto an event.
func NewEvent(kind Kind, institutionID string, at time.Time) Event {
	return Event{
		ID:            uuid.New(),
		Kind:          kind,
		InstitutionID: institutionID,
		At:            at,
	}
}

// Publisher accepts events from services. Implementations must not block
// request handling indefinitely.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Store persists events. The worker is the only writer.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByInstitution(ctx context.Context, institutionID string) ([]Event, error)
}
