package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	institutionmodels "schoolgate/internal/institution/models"
	policymetrics "schoolgate/internal/policy/metrics"
	"schoolgate/internal/policy/models"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
	"schoolgate/pkg/platform/audit"
	"schoolgate/pkg/platform/sentinel"
	"schoolgate/pkg/requestcontext"
)

// Store is the Registry capability for policy rows.
type Store interface {
	CreateBatch(ctx context.Context, entries []*models.PolicyEntry) error
	ListByInstitution(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error)
	// SetAllowed flips the allow flag on the entry matching institution and
	// exact app name. Reports whether an entry matched; a miss is not an
	// error.
	SetAllowed(ctx context.Context, institutionID id.InstitutionID, appName string, allowed bool) (bool, error)
}

// InstitutionStore is the lookup capability used to resolve the owning
// institution before mutating its policy set.
type InstitutionStore interface {
	FindByID(ctx context.Context, institutionID id.InstitutionID) (*institutionmodels.Institution, error)
}

// Service owns the per-institution application policy set.
type Service struct {
	policies       Store
	institutions   InstitutionStore
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *policymetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *policymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(policies Store, institutions InstitutionStore, opts ...Option) *Service {
	s := &Service{policies: policies, institutions: institutions}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap creates the default policy set for an institution: exactly the
// template entries, in template order. The core does not deduplicate;
// calling twice inserts the template twice unless the Registry enforces
// uniqueness. Callers own idempotency.
func (s *Service) Bootstrap(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error) {
	if err := s.requireInstitution(ctx, institutionID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	template := models.DefaultTemplate()
	entries := make([]*models.PolicyEntry, 0, len(template))
	for _, t := range template {
		entries = append(entries, &models.PolicyEntry{
			ID:            id.PolicyEntryID(uuid.New()),
			InstitutionID: institutionID,
			AppName:       t.AppName,
			PackageName:   t.PackageName,
			Allowed:       t.Allowed,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.policies.CreateBatch(ctx, entries); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "policy set already bootstrapped")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create default policies")
	}

	s.emitAudit(ctx, audit.NewEvent(audit.KindPoliciesBootstrapped, institutionID.String(), now))
	if s.metrics != nil {
		s.metrics.Bootstraps.Inc()
	}
	return entries, nil
}

// List returns the institution's policy entries, in insertion order where
// the backing store preserves it. An institution with no entries yields an
// empty list, not an error.
func (s *Service) List(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error) {
	if institutionID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "institution id is required")
	}
	entries, err := s.policies.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list policies")
	}
	return entries, nil
}

// Update applies a best-effort bulk update of allow flags and returns how
// many entries changed. Items naming an unknown application are skipped
// silently; that is defined success behavior, not a failure. A malformed
// item rejects the whole batch before any mutation.
func (s *Service) Update(ctx context.Context, institutionID id.InstitutionID, items []models.UpdateItem) (int, error) {
	if err := s.requireInstitution(ctx, institutionID); err != nil {
		return 0, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return 0, err
		}
	}

	updated := 0
	for _, item := range items {
		matched, err := s.policies.SetAllowed(ctx, institutionID, item.AppName, item.Allowed)
		if err != nil {
			return updated, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update policy entry")
		}
		if matched {
			updated++
			if s.metrics != nil {
				s.metrics.EntriesUpdated.Inc()
			}
		} else if s.metrics != nil {
			s.metrics.UpdatesSkipped.Inc()
		}
	}

	event := audit.NewEvent(audit.KindPoliciesUpdated, institutionID.String(), requestcontext.Now(ctx))
	event.Detail = map[string]string{
		"requested": strconv.Itoa(len(items)),
		"updated":   strconv.Itoa(updated),
	}
	s.emitAudit(ctx, event)
	return updated, nil
}

func (s *Service) requireInstitution(ctx context.Context, institutionID id.InstitutionID) error {
	if institutionID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "institution id is required")
	}
	if _, err := s.institutions.FindByID(ctx, institutionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}
	return nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit event dropped",
			"kind", string(event.Kind),
			"error", err,
		)
	}
}
