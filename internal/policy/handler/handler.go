package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"schoolgate/internal/platform/middleware"
	"schoolgate/internal/policy/models"
	"schoolgate/internal/transport/http/shared"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

// Service defines the interface for policy operations.
type Service interface {
	Bootstrap(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error)
	List(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error)
	Update(ctx context.Context, institutionID id.InstitutionID, items []models.UpdateItem) (int, error)
}

// Handler handles policy endpoints.
type Handler struct {
	logger       *slog.Logger
	policies     Service
	jwtValidator middleware.JWTValidator
}

// New creates a policy Handler.
func New(policies Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		policies:     policies,
		jwtValidator: jwtValidator,
	}
}

// Register registers the policy routes with the chi router. Reads are open;
// mutations require an admin bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/policies/{institutionID}", h.handleList)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		admin.Post("/api/policies/{institutionID}/bootstrap", h.handleBootstrap)
		admin.Put("/api/policies/{institutionID}", h.handleUpdate)
	})
}

func (h *Handler) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	institutionID, err := id.ParseInstitutionID(chi.URLParam(r, "institutionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entries, err := h.policies.Bootstrap(ctx, institutionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to bootstrap policies",
			"institution_id", institutionID.String(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, entries)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	institutionID, err := id.ParseInstitutionID(chi.URLParam(r, "institutionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entries, err := h.policies.List(ctx, institutionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list policies",
			"institution_id", institutionID.String(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.PolicyEntry{}
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	institutionID, err := id.ParseInstitutionID(chi.URLParam(r, "institutionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// The body is a bare JSON array of update items.
	var items []models.UpdateItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		h.logger.WarnContext(ctx, "invalid policy update request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.policies.Update(ctx, institutionID, items)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update policies",
			"institution_id", institutionID.String(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
