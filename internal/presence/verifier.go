// Package presence decides whether a device is on an institution's premises.
//
// The decision is pure domain logic - no I/O, no side effects. Rules run in
// a fixed order and the first match wins; checks are never averaged or
// combined.
package presence

import "math"

// ProximityThreshold is the axis-aligned coordinate delta under which a
// claim counts as on premises (roughly 1 km at moderate latitudes). This is
// a deliberate bounding-box approximation, not geodesic distance; changing
// it to true distance is a behavior change, not a fix.
const ProximityThreshold = 0.01

// Anchor is the institution-side reference a claim is checked against.
// Coordinates are both set or both unset (institution model invariant).
type Anchor struct {
	Latitude    *float64
	Longitude   *float64
	TrustedSSID string
}

// Claim is a caller-supplied, unverified assertion of current location and
// network. It is transient and never persisted.
type Claim struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	SSID      string   `json:"wifi_ssid"`
}

// OnPremises evaluates the presence rules:
//
//  1. Anchor and claim both carry a full coordinate pair, and both deltas
//     are under the threshold -> on premises.
//  2. Anchor has a trusted SSID and the claim's SSID equals it exactly
//     (case-sensitive) -> on premises.
//  3. Otherwise -> off premises.
//
// A partial coordinate pair on either side counts as no pair and falls
// through to the network check. No network check happens when the anchor's
// trusted SSID is unset, regardless of what the claim supplies.
func OnPremises(anchor Anchor, claim Claim) bool {
	if anchor.Latitude != nil && anchor.Longitude != nil &&
		claim.Latitude != nil && claim.Longitude != nil {
		latDiff := math.Abs(*anchor.Latitude - *claim.Latitude)
		lonDiff := math.Abs(*anchor.Longitude - *claim.Longitude)
		if latDiff < ProximityThreshold && lonDiff < ProximityThreshold {
			return true
		}
	}

	if anchor.TrustedSSID != "" && claim.SSID == anchor.TrustedSSID {
		return true
	}

	return false
}
