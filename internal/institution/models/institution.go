package models

import (
	"math"
	"time"

	"github.com/asaskevich/govalidator"

	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

// Institution is the aggregate root for a school tenant.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Anchor coordinates are both set or both unset
//   - When set, coordinates are finite and within latitude [-90, 90] /
//     longitude [-180, 180]
//   - CreatedAt is immutable after construction
//
// The anchor location and trusted SSID together form the reference an
// on-premises claim is checked against. Policy entries and students hold the
// institution ID as a weak back-reference; there is no live object graph.
type Institution struct {
	ID          id.InstitutionID `json:"id"`
	Name        string           `json:"name"`
	Address     string           `json:"address,omitempty"`
	Latitude    *float64         `json:"latitude,omitempty"`
	Longitude   *float64         `json:"longitude,omitempty"`
	TrustedSSID string           `json:"trusted_ssid,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Anchor returns the anchor coordinate pair, reporting whether one is set.
func (i *Institution) Anchor() (lat, lon float64, ok bool) {
	if i.Latitude == nil || i.Longitude == nil {
		return 0, 0, false
	}
	return *i.Latitude, *i.Longitude, true
}

// NewInstitution validates the construction invariants and builds the record.
func NewInstitution(institutionID id.InstitutionID, name, address string, lat, lon *float64, trustedSSID string, now time.Time) (*Institution, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution name must be 128 characters or less")
	}
	if err := validateAnchor(lat, lon); err != nil {
		return nil, err
	}
	return &Institution{
		ID:          institutionID,
		Name:        name,
		Address:     address,
		Latitude:    lat,
		Longitude:   lon,
		TrustedSSID: trustedSSID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validateAnchor(lat, lon *float64) error {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "anchor latitude and longitude must be set together")
	}
	if math.IsNaN(*lat) || math.IsInf(*lat, 0) || math.IsNaN(*lon) || math.IsInf(*lon, 0) {
		return dErrors.New(dErrors.CodeInvariantViolation, "anchor coordinates must be finite")
	}
	if !govalidator.InRangeFloat64(*lat, -90, 90) {
		return dErrors.New(dErrors.CodeInvariantViolation, "anchor latitude must be within [-90, 90]")
	}
	if !govalidator.InRangeFloat64(*lon, -180, 180) {
		return dErrors.New(dErrors.CodeInvariantViolation, "anchor longitude must be within [-180, 180]")
	}
	return nil
}
