package handlers

import (
	"encoding/json"
	"net/http"

	"points-feed/internal/middleware"
	"points-feed/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler hands out pre-signed URLs for image posts
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// CreateUpload handles POST /api/v1/uploads
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Filename == "" {
		respondError(w, "filename is required", http.StatusBadRequest)
		return
	}

	response, err := h.uploadService.PresignImage(ctx, userID, req)
	if err != nil {
		if isServerError(err) {
			log.Error().
				Err(err).
				Str("user_id", userID).
				Str("filename", req.Filename).
				Msg("Failed to generate pre-signed URL")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("file", response.File).
		Str("filename", req.Filename).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}
