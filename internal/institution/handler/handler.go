package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"schoolgate/internal/institution/models"
	"schoolgate/internal/institution/service"
	"schoolgate/internal/platform/middleware"
	policymodels "schoolgate/internal/policy/models"
	"schoolgate/internal/transport/http/shared"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

// Service defines the interface for institution operations.
type Service interface {
	Create(ctx context.Context, req service.CreateInstitutionRequest) (*models.Institution, error)
	Get(ctx context.Context, institutionID id.InstitutionID) (*models.Institution, error)
}

// PolicyBootstrapper seeds the default policy set for a newly created
// institution.
type PolicyBootstrapper interface {
	Bootstrap(ctx context.Context, institutionID id.InstitutionID) ([]*policymodels.PolicyEntry, error)
}

// Handler handles institution endpoints.
type Handler struct {
	logger       *slog.Logger
	institutions Service
	policies     PolicyBootstrapper
	jwtValidator middleware.JWTValidator
}

// New creates an institution Handler.
func New(institutions Service, policies PolicyBootstrapper, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		institutions: institutions,
		policies:     policies,
		jwtValidator: jwtValidator,
	}
}

// Register registers the institution routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/institutions/{institutionID}", h.handleGet)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		admin.Post("/api/institutions", h.handleCreate)
	})
}

type createResponse struct {
	Institution *models.Institution         `json:"institution"`
	Policies    []*policymodels.PolicyEntry `json:"policies"`
}

// handleCreate registers an institution and immediately seeds its default
// policy set. A bootstrap failure does not roll the institution back; the
// bootstrap endpoint remains available as a retry path.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateInstitutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	institution, err := h.institutions.Create(ctx, req)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to create institution",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	entries, err := h.policies.Bootstrap(ctx, institution.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to bootstrap policies for new institution",
			"institution_id", institution.ID.String(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		entries = nil
	}

	shared.WriteJSON(w, http.StatusCreated, createResponse{
		Institution: institution,
		Policies:    entries,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	institutionID, err := id.ParseInstitutionID(chi.URLParam(r, "institutionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	institution, err := h.institutions.Get(ctx, institutionID)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load institution",
				"institution_id", institutionID.String(),
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, institution)
}
