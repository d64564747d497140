package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"points-feed/internal/middleware"
	"points-feed/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AwardHandler handles award-related HTTP requests
type AwardHandler struct {
	awardService *services.AwardService
}

// NewAwardHandler creates a new award handler
func NewAwardHandler(awardService *services.AwardService) *AwardHandler {
	return &AwardHandler{awardService: awardService}
}

// GrantAwardRequest represents the request body for granting an award
type GrantAwardRequest struct {
	Kind string `json:"kind"`
}

// CanAward handles GET /api/v1/posts/{post_id}/awards/{kind}
func (h *AwardHandler) CanAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")
	kind := chi.URLParam(r, "kind")

	ok, err := h.awardService.CanAwardPost(ctx, userID, postID, kind)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to check award")
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"can_award": ok})
}

// GrantAward handles POST /api/v1/posts/{post_id}/awards
func (h *AwardHandler) GrantAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	var req GrantAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	award, err := h.awardService.GrantToPost(ctx, userID, postID, req.Kind)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to grant award")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("post_id", postID).
		Str("kind", award.AwardableType).
		Msg("Award granted")

	respondJSON(w, http.StatusCreated, award)
}
