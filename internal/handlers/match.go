package handlers

import (
	"encoding/json"
	"net/http"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// MatchHandler exposes the match store over HTTP
type MatchHandler struct {
	store *services.MatchStore
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(store *services.MatchStore) *MatchHandler {
	return &MatchHandler{store: store}
}

// AddMessageRequest represents the request body for sending a message
type AddMessageRequest struct {
	Text     string `json:"text"`
	FromUser *bool  `json:"fromUser"`
}

// ListMatches handles GET /api/matches
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.store.View(), http.StatusOK)
}

// CreateMatch handles POST /api/matches
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&profile); err != nil {
		respondError(w, "Invalid JSON", http.StatusUnprocessableEntity)
		return
	}

	match, err := h.store.AddMatch(profile)
	if err != nil {
		respondError(w, apperr.Message(err), statusFor(err))
		return
	}

	hlog.FromRequest(r).Info().
		Str("match_id", match.ID).
		Int("profile_id", profile.ID).
		Msg("Match created")

	respondJSON(w, match, http.StatusCreated)
}

// GetMatch handles GET /api/matches/{match_id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	match, ok := h.store.GetMatch(chi.URLParam(r, "match_id"))
	if !ok {
		respondError(w, "Match not found", http.StatusNotFound)
		return
	}
	respondJSON(w, match, http.StatusOK)
}

// Unmatch handles DELETE /api/matches/{match_id}
func (h *MatchHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Unmatch(chi.URLParam(r, "match_id")); err != nil {
		respondError(w, apperr.Message(err), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMessage handles POST /api/matches/{match_id}/messages
func (h *MatchHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	var req AddMessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, "Invalid JSON", http.StatusUnprocessableEntity)
		return
	}

	fromUser := true
	if req.FromUser != nil {
		fromUser = *req.FromUser
	}

	if err := h.store.AddMessage(chi.URLParam(r, "match_id"), req.Text, fromUser); err != nil {
		respondError(w, apperr.Message(err), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearMatches handles DELETE /api/matches
func (h *MatchHandler) ClearMatches(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearMatches(r.Context()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to clear matches")
		respondError(w, apperr.Message(err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStorageInfo handles GET /api/matches/storage
func (h *MatchHandler) GetStorageInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.store.StorageInfo(r.Context()), http.StatusOK)
}

// ClearError handles DELETE /api/matches/error
func (h *MatchHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.store.ClearError()
	w.WriteHeader(http.StatusNoContent)
}
