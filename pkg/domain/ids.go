// Package domain defines the typed identifiers shared across modules.
//
// Wrapping uuid.UUID in distinct named types keeps institution, student, and
// policy-entry identifiers from being mixed up at compile time. Parse
// functions enforce the trust-boundary invariant: IDs must be valid,
// non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "schoolgate/pkg/domain-errors"
)

// InstitutionID identifies a registered institution (school tenant).
type InstitutionID uuid.UUID

// StudentID identifies a registered student/device record.
type StudentID uuid.UUID

// PolicyEntryID identifies a single allow/deny policy row.
type PolicyEntryID uuid.UUID

func (i InstitutionID) String() string { return uuid.UUID(i).String() }
func (i StudentID) String() string     { return uuid.UUID(i).String() }
func (i PolicyEntryID) String() string { return uuid.UUID(i).String() }

func (i InstitutionID) IsZero() bool { return uuid.UUID(i) == uuid.Nil }
func (i StudentID) IsZero() bool     { return uuid.UUID(i) == uuid.Nil }
func (i PolicyEntryID) IsZero() bool { return uuid.UUID(i) == uuid.Nil }

// MarshalText/UnmarshalText make the typed IDs round-trip as plain UUID
// strings in JSON bodies and URL parameters.

func (i InstitutionID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *InstitutionID) UnmarshalText(text []byte) error {
	parsed, err := ParseInstitutionID(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

func (i StudentID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *StudentID) UnmarshalText(text []byte) error {
	parsed, err := ParseStudentID(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

func (i PolicyEntryID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *PolicyEntryID) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicyEntryID(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ParseInstitutionID parses and validates an institution ID string.
func ParseInstitutionID(s string) (InstitutionID, error) {
	parsed, err := parseUUID(s, "institution id")
	if err != nil {
		return InstitutionID{}, err
	}
	return InstitutionID(parsed), nil
}

// ParseStudentID parses and validates a student ID string.
func ParseStudentID(s string) (StudentID, error) {
	parsed, err := parseUUID(s, "student id")
	if err != nil {
		return StudentID{}, err
	}
	return StudentID(parsed), nil
}

// ParsePolicyEntryID parses and validates a policy entry ID string.
func ParsePolicyEntryID(s string) (PolicyEntryID, error) {
	parsed, err := parseUUID(s, "policy entry id")
	if err != nil {
		return PolicyEntryID{}, err
	}
	return PolicyEntryID(parsed), nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return parsed, nil
}
