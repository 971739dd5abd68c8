package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"schoolgate/internal/platform/middleware"
	"schoolgate/internal/presence"
	"schoolgate/internal/transport/http/shared"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
)

// Service defines the interface for presence verification.
type Service interface {
	Verify(ctx context.Context, institutionID id.InstitutionID, claim presence.Claim) (bool, error)
}

// Handler handles the presence verification endpoint.
type Handler struct {
	logger   *slog.Logger
	presence Service
}

// New creates a presence Handler.
func New(presenceService Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, presence: presenceService}
}

// Register registers the presence routes with the chi router. Devices call
// this unauthenticated; the claim is untrusted input by definition.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/presence/verify", h.handleVerify)
}

type verifyRequest struct {
	InstitutionID string   `json:"institution_id"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	SSID          string   `json:"wifi_ssid"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	institutionID, err := id.ParseInstitutionID(req.InstitutionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	onPremises, err := h.presence.Verify(ctx, institutionID, presence.Claim{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		SSID:      req.SSID,
	})
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "presence verification failed",
				"institution_id", institutionID.String(),
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]bool{"on_premises": onPremises})
}
