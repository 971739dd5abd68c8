package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	instmetrics "schoolgate/internal/institution/metrics"
	"schoolgate/internal/institution/models"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
	"schoolgate/pkg/platform/audit"
	"schoolgate/pkg/platform/sentinel"
	"schoolgate/pkg/requestcontext"
)

// Store is the Registry capability the institution service needs.
type Store interface {
	Create(ctx context.Context, institution *models.Institution) error
	FindByID(ctx context.Context, institutionID id.InstitutionID) (*models.Institution, error)
}

// CreateInstitutionRequest carries the registration fields. Anchor
// coordinates are optional but must come as a pair.
type CreateInstitutionRequest struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	TrustedSSID string   `json:"trusted_ssid"`
}

// Service orchestrates institution lifecycle management.
type Service struct {
	institutions   Store
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *instmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *instmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(institutions Store, opts ...Option) *Service {
	s := &Service{institutions: institutions}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new institution. Default policies are bootstrapped by
// the caller as a separate, retryable step.
func (s *Service) Create(ctx context.Context, req CreateInstitutionRequest) (*models.Institution, error) {
	name := strings.TrimSpace(req.Name)

	institution, err := models.NewInstitution(
		id.InstitutionID(uuid.New()),
		name,
		strings.TrimSpace(req.Address),
		req.Latitude,
		req.Longitude,
		req.TrustedSSID,
		requestcontext.Now(ctx),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeBadRequest, err.Error())
		}
		return nil, err
	}

	if err := s.institutions.Create(ctx, institution); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create institution")
	}

	s.emitAudit(ctx, audit.NewEvent(audit.KindInstitutionCreated, institution.ID.String(), institution.CreatedAt))
	if s.metrics != nil {
		s.metrics.InstitutionsCreated.Inc()
	}
	return institution, nil
}

// Get fetches an institution by ID.
func (s *Service) Get(ctx context.Context, institutionID id.InstitutionID) (*models.Institution, error) {
	if institutionID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "institution id is required")
	}
	institution, err := s.institutions.FindByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}
	return institution, nil
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
