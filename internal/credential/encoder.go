// Package credential encodes identity payloads into opaque, transportable
// tokens.
//
// Encoding is one-way: the Registry remains the source of truth for
// identity, and the token is a presentation artifact (scanned by staff
// tooling outside this service). No decode is provided anywhere.
package credential

import (
	"encoding/json"

	"github.com/mr-tron/base58"

	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

// Payload is the small fixed set of identity fields bound into a credential.
type Payload struct {
	InstitutionID id.InstitutionID `json:"institution_id"`
	StudentID     id.StudentID     `json:"student_id"`
	DeviceID      string           `json:"device_id,omitempty"`
}

// Encode produces the credential token for a payload. The same payload
// always yields byte-identical output: the canonical form is the JSON
// rendering of the fixed-order Payload struct, and base58 keeps the result
// printable and QR-friendly.
func Encode(payload Payload) (string, error) {
	if payload.InstitutionID.IsZero() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential payload is missing institution id")
	}
	if payload.StudentID.IsZero() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential payload is missing student id")
	}

	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode credential payload")
	}
	return base58.Encode(canonical), nil
}
