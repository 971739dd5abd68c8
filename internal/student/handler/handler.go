package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"schoolgate/internal/platform/middleware"
	"schoolgate/internal/student/models"
	"schoolgate/internal/student/service"
	"schoolgate/internal/transport/http/shared"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

// Service defines the interface for student operations.
type Service interface {
	Register(ctx context.Context, req service.RegisterRequest) (*models.Student, error)
	Get(ctx context.Context, studentID id.StudentID) (*models.Student, error)
}

// Handler handles student endpoints.
type Handler struct {
	logger       *slog.Logger
	students     Service
	jwtValidator middleware.JWTValidator
}

// New creates a student Handler.
func New(students Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		students:     students,
		jwtValidator: jwtValidator,
	}
}

// Register registers the student routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/students/{studentID}", h.handleGet)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		admin.Post("/api/students/register", h.handleRegister)
	})
}

type registerResponse struct {
	Student    *models.Student `json:"student"`
	Credential string          `json:"credential"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	student, err := h.students.Register(ctx, req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to register student",
				"institution_id", req.InstitutionID.String(),
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, registerResponse{
		Student:    student,
		Credential: student.Credential,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	studentID, err := id.ParseStudentID(chi.URLParam(r, "studentID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	student, err := h.students.Get(ctx, studentID)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load student",
				"student_id", studentID.String(),
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, student)
}
