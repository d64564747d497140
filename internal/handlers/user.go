package handlers

import (
	"encoding/json"
	"net/http"

	"points-feed/internal/middleware"
	"points-feed/internal/models"
	"points-feed/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthenticationService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, authService *services.AuthenticationService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// Profile is the public view of a user
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Private     bool   `json:"private"`
	Avatar      string `json:"avatar"`
	Background  string `json:"background"`
}

func profileOf(u *models.User) Profile {
	return Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Private:     u.Private,
		Avatar:      u.Avatar(),
		Background:  u.BackgroundImage(),
	}
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.userService.Register(ctx, req)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Msg("Failed to create user")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", resp.User.ID).
		Str("display_name", resp.User.DisplayName).
		Msg("User created")

	respondJSON(w, http.StatusCreated, resp)
}

// GetUser handles GET /api/v1/users/{user_id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profileOf(user))
}

// UpdateMe handles PATCH /api/v1/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, userID, req)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Bool("private", user.Private).Msg("Profile updated")
	respondJSON(w, http.StatusOK, profileOf(user))
}

// DeleteMe handles DELETE /api/v1/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := h.userService.DeleteUser(ctx, userID); err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to delete user")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("User deleted")
	w.WriteHeader(http.StatusNoContent)
}

// LinkAuthentication handles POST /api/v1/authentications
func (h *UserHandler) LinkAuthentication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	auth, created, err := h.authService.GetOrCreate(ctx, userID, req)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Str("provider", req.Provider).Msg("Failed to link provider")
		}
		respondServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		log.Info().Str("user_id", userID).Str("provider", req.Provider).Msg("Provider linked")
	}
	respondJSON(w, status, auth)
}
