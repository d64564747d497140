package handlers

import (
	"encoding/json"
	"net/http"

	"points-feed/internal/middleware"
	"points-feed/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FriendshipHandler handles friendship-related HTTP requests
type FriendshipHandler struct {
	friendshipService *services.FriendshipService
}

// NewFriendshipHandler creates a new friendship handler
func NewFriendshipHandler(friendshipService *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// CreateFriendshipRequest represents the request body for adding a friend
type CreateFriendshipRequest struct {
	FriendID string `json:"friend_id"`
}

// CreateFriendship handles POST /api/v1/friendships
func (h *FriendshipHandler) CreateFriendship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateFriendshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FriendID == "" {
		respondError(w, "friend_id is required", http.StatusBadRequest)
		return
	}

	friendship, err := h.friendshipService.Befriend(ctx, userID, req.FriendID)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Str("friend_id", req.FriendID).Msg("Failed to create friendship")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("friend_id", req.FriendID).Msg("Friendship created")
	respondJSON(w, http.StatusCreated, friendship)
}

// DeleteFriendship handles DELETE /api/v1/friendships/{friend_id}
func (h *FriendshipHandler) DeleteFriendship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "friend_id")

	if err := h.friendshipService.Unfriend(ctx, userID, friendID); err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Str("friend_id", friendID).Msg("Failed to delete friendship")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("friend_id", friendID).Msg("Friendship deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ListFriends handles GET /api/v1/friends
func (h *FriendshipHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendshipService.ActiveFriends(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list friends")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}
