package service

import (
	"context"
	"errors"
	"log/slog"

	institutionmodels "schoolgate/internal/institution/models"
	"schoolgate/internal/presence"
	presencemetrics "schoolgate/internal/presence/metrics"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
	"schoolgate/pkg/platform/sentinel"
)

// InstitutionStore resolves the anchor for a claim. In production this is
// the redis-cached institution store; presence verification is the hottest
// lookup path in the system.
type InstitutionStore interface {
	FindByID(ctx context.Context, institutionID id.InstitutionID) (*institutionmodels.Institution, error)
}

// Service resolves an institution and evaluates a presence claim against it.
type Service struct {
	institutions InstitutionStore
	logger       *slog.Logger
	metrics      *presencemetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *presencemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(institutions InstitutionStore, opts ...Option) *Service {
	s := &Service{institutions: institutions}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify reports whether the claim places the device on the institution's
// premises. An unresolvable institution is an error raised before the
// decision algorithm runs, never a false-presence result.
func (s *Service) Verify(ctx context.Context, institutionID id.InstitutionID, claim presence.Claim) (bool, error) {
	if institutionID.IsZero() {
		return false, dErrors.New(dErrors.CodeInvalidInput, "institution id is required")
	}

	institution, err := s.institutions.FindByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}

	onPremises := presence.OnPremises(presence.Anchor{
		Latitude:    institution.Latitude,
		Longitude:   institution.Longitude,
		TrustedSSID: institution.TrustedSSID,
	}, claim)

	if s.metrics != nil {
		s.metrics.ObserveCheck(onPremises)
	}
	return onPremises, nil
}
