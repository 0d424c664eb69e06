package handlers

import (
	"io"
	"net/http"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/services"

	"github.com/rs/zerolog/hlog"
)

// InteractionHandler handles like and dislike submissions
type InteractionHandler struct {
	interactionService *services.InteractionService
	wsHub              *services.WSHub
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactionService *services.InteractionService, wsHub *services.WSHub) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
		wsHub:              wsHub,
	}
}

// CreateInteraction handles POST /api/interactions
func (h *InteractionHandler) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, "Invalid JSON", http.StatusUnprocessableEntity)
		return
	}

	result, err := h.interactionService.Resolve(r.Context(), body)
	if err != nil {
		status := statusFor(err)
		message := apperr.Message(err)
		if status == http.StatusInternalServerError {
			hlog.FromRequest(r).Error().Err(err).Msg("Failed to resolve interaction")
			message = "Interaction failed"
		}
		respondError(w, message, status)
		return
	}

	if result.Match && h.wsHub != nil {
		h.wsHub.NotifyMatchCreated(result.FromUserID, result.ToUserID)
	}

	respondJSON(w, models.InteractionResponse{Match: result.Match}, http.StatusCreated)
}
