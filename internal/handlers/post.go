package handlers

import (
	"encoding/json"
	"net/http"

	"points-feed/internal/middleware"
	"points-feed/internal/posttypes"
	"points-feed/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePost handles POST /api/v1/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.CreatePost(ctx, userID, req)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to create post")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("post_id", post.ID).
		Str("type", post.Kind).
		Msg("Post created")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"post":     post,
		"template": posttypes.Resolve(post.Kind).Template(),
	})
}

// DeletePost handles DELETE /api/v1/posts/{post_id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	if err := h.postService.DeletePost(ctx, userID, postID); err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to delete post")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", postID).Msg("Post deleted")
	w.WriteHeader(http.StatusNoContent)
}

// Repost handles POST /api/v1/posts/{post_id}/repost
func (h *PostHandler) Repost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	post, err := h.postService.Repost(ctx, userID, postID)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to repost")
		}
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", post.ID).Str("original_post_id", *post.OriginalPostID).Msg("Post reposted")
	respondJSON(w, http.StatusCreated, post)
}

// Reposted handles GET /api/v1/posts/{post_id}/reposted
func (h *PostHandler) Reposted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	reposted, err := h.postService.Reposted(ctx, userID, postID)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to check reposts")
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"reposted": reposted})
}
