package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"schoolgate/internal/credential"
	institutionmodels "schoolgate/internal/institution/models"
	studentmetrics "schoolgate/internal/student/metrics"
	"schoolgate/internal/student/models"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
	"schoolgate/pkg/platform/audit"
	"schoolgate/pkg/platform/sentinel"
	"schoolgate/pkg/requestcontext"
)

// Store is the Registry capability for student records. Create enforces
// hardware device uniqueness and reports violations as
// sentinel.ErrAlreadyUsed.
type Store interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, studentID id.StudentID) (*models.Student, error)
}

// InstitutionStore resolves the owning institution during registration.
type InstitutionStore interface {
	FindByID(ctx context.Context, institutionID id.InstitutionID) (*institutionmodels.Institution, error)
}

// RegisterRequest carries the registration fields.
type RegisterRequest struct {
	Name          string           `json:"name"`
	InstitutionID id.InstitutionID `json:"institution_id"`
	DeviceID      string           `json:"device_id"`
}

// Service orchestrates student/device registration.
type Service struct {
	students       Store
	institutions   InstitutionStore
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *studentmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *studentmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(students Store, institutions InstitutionStore, opts ...Option) *Service {
	s := &Service{students: students, institutions: institutions}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a student record with its credential in a single write.
// The credential is deterministic over identity fields and is never
// regenerated implicitly afterwards. A duplicate hardware device id
// surfaces as a conflict and leaves nothing persisted.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.Student, error) {
	if req.InstitutionID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "institution id is required")
	}
	if _, err := s.institutions.FindByID(ctx, req.InstitutionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}

	student, err := models.NewStudent(
		id.StudentID(uuid.New()),
		strings.TrimSpace(req.Name),
		req.InstitutionID,
		strings.TrimSpace(req.DeviceID),
		requestcontext.Now(ctx),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeBadRequest, err.Error())
		}
		return nil, err
	}

	token, err := credential.Encode(credential.Payload{
		InstitutionID: student.InstitutionID,
		StudentID:     student.ID,
		DeviceID:      student.DeviceID,
	})
	if err != nil {
		return nil, err
	}
	student.Credential = token

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			if s.metrics != nil {
				s.metrics.DuplicateDevices.Inc()
			}
			return nil, dErrors.New(dErrors.CodeConflict, "hardware device is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register student")
	}

	event := audit.NewEvent(audit.KindStudentRegistered, student.InstitutionID.String(), student.RegisteredAt)
	event.Detail = map[string]string{"student_id": student.ID.String()}
	s.emitAudit(ctx, event)
	if s.metrics != nil {
		s.metrics.StudentsRegistered.Inc()
	}
	return student, nil
}

// Get fetches a student by ID.
func (s *Service) Get(ctx context.Context, studentID id.StudentID) (*models.Student, error) {
	if studentID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "student id is required")
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "student not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load student")
	}
	return student, nil
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
