package models

import (
	"time"

	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

// PolicyEntry is one allow/deny decision for a named application within one
// institution. AppName and PackageName are immutable after creation; only
// Allowed may change.
type PolicyEntry struct {
	ID            id.PolicyEntryID `json:"id"`
	InstitutionID id.InstitutionID `json:"institution_id"`
	AppName       string           `json:"app_name"`
	PackageName   string           `json:"package_name,omitempty"`
	Allowed       bool             `json:"allowed"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TemplateEntry is one row of the default bootstrap template.
type TemplateEntry struct {
	AppName     string
	PackageName string
	Allowed     bool
}

// DefaultTemplate returns the fixed list applied to every new institution.
// Order is part of the contract; consumers may store unordered but must
// reproduce exactly these triples.
func DefaultTemplate() []TemplateEntry {
	return []TemplateEntry{
		{AppName: "Google Classroom", PackageName: "com.google.android.apps.classroom", Allowed: true},
		{AppName: "Notes", PackageName: "com.google.android.keep", Allowed: true},
		{AppName: "Calculator", PackageName: "com.android.calculator2", Allowed: true},
		{AppName: "WhatsApp", PackageName: "com.whatsapp", Allowed: false},
		{AppName: "Instagram", PackageName: "com.instagram.android", Allowed: false},
		{AppName: "YouTube", PackageName: "com.google.android.youtube", Allowed: false},
		{AppName: "Games", PackageName: "com.android.games", Allowed: false},
	}
}

// UpdateItem is one element of a bulk allow-flag update. Matching is by
// exact, case-sensitive app name; unknown names are skipped, not errors.
type UpdateItem struct {
	AppName string `json:"app_name"`
	Allowed bool   `json:"allowed"`
}

// Validate rejects malformed update items before any mutation is applied.
func (u UpdateItem) Validate() error {
	if u.AppName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "update item is missing app_name")
	}
	return nil
}
