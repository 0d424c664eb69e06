package handlers

import (
	"net/http"

	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/services"

	"github.com/rs/zerolog/hlog"
)

// ProfileHandler serves the swipe stack
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfiles handles GET /api/profiles. An empty catalog answers 204.
func (h *ProfileHandler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.List(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to list profiles")
		respondError(w, "Failed to get profiles", http.StatusInternalServerError)
		return
	}

	if len(profiles) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, models.ProfilesResponse{Data: profiles}, http.StatusOK)
}
