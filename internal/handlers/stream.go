package handlers

import (
	"context"
	"net/http"
	"time"

	"points-feed/internal/apperr"
	"points-feed/internal/middleware"
	"points-feed/internal/models"
	"points-feed/internal/posttypes"
	"points-feed/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// StreamHandler serves users' aggregated streams
type StreamHandler struct {
	userService   *services.UserService
	gate          *services.VisibilityGate
	streamService *services.StreamService
	pageSize      int
	maxPageSize   int
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(
	userService *services.UserService,
	gate *services.VisibilityGate,
	streamService *services.StreamService,
	pageSize, maxPageSize int,
) *StreamHandler {
	return &StreamHandler{
		userService:   userService,
		gate:          gate,
		streamService: streamService,
		pageSize:      pageSize,
		maxPageSize:   maxPageSize,
	}
}

// StreamEntry is one item of a stream response
type StreamEntry struct {
	Type     string            `json:"type"`
	Template string            `json:"template,omitempty"`
	PostedAt time.Time         `json:"posted_at"`
	Item     models.StreamItem `json:"item"`
}

func entries(items []models.StreamItem) []StreamEntry {
	out := make([]StreamEntry, 0, len(items))
	for _, it := range items {
		e := StreamEntry{Type: it.Discriminator(), PostedAt: it.PostedAt(), Item: it}
		if p, ok := it.(*models.Post); ok {
			e.Template = posttypes.Resolve(p.Kind).Template()
		}
		out = append(out, e)
	}
	return out
}

// authorize loads the target user and checks that the requester may read
// its stream. It writes the error response itself and returns nil on denial.
func (h *StreamHandler) authorize(w http.ResponseWriter, r *http.Request) *models.User {
	ctx := r.Context()
	targetID := chi.URLParam(r, "user_id")

	target, err := h.userService.GetUser(ctx, targetID)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Str("target_id", targetID).Msg("Failed to load stream owner")
		}
		respondServiceError(w, err)
		return nil
	}

	viewer, err := h.viewer(ctx)
	if err != nil {
		if isServerError(err) {
			log.Error().Err(err).Msg("Failed to load viewer")
		}
		respondServiceError(w, err)
		return nil
	}

	ok, err := h.gate.CanView(ctx, viewer, target)
	if err != nil {
		log.Error().Err(err).Str("target_id", targetID).Msg("Failed to check stream visibility")
		respondServiceError(w, err)
		return nil
	}
	if !ok {
		respondError(w, "This stream is private", http.StatusForbidden)
		return nil
	}
	return target
}

// viewer returns the authenticated user, or nil for anonymous requests
func (h *StreamHandler) viewer(ctx context.Context) (*models.User, error) {
	viewerID := middleware.GetUserID(ctx)
	if viewerID == "" {
		return nil, nil
	}
	viewer, err := h.userService.GetUser(ctx, viewerID)
	if apperr.Is(err, apperr.ErrNotFound) {
		return nil, apperr.New(apperr.ErrUnauthorized, "unknown user", err)
	}
	return viewer, err
}

// GetStream handles GET /api/v1/users/{user_id}/stream
func (h *StreamHandler) GetStream(w http.ResponseWriter, r *http.Request) {
	target := h.authorize(w, r)
	if target == nil {
		return
	}

	limit := queryInt(r, "limit", h.pageSize)
	offset := queryInt(r, "offset", 0)
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}

	items, err := h.streamService.Stream(r.Context(), target.ID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("user_id", target.ID).Msg("Failed to build stream")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  entries(items),
		"limit":  limit,
		"offset": offset,
	})
}

// GetRelation handles GET /api/v1/users/{user_id}/relations/{type}
func (h *StreamHandler) GetRelation(w http.ResponseWriter, r *http.Request) {
	target := h.authorize(w, r)
	if target == nil {
		return
	}

	discriminator := chi.URLParam(r, "type")
	collection, items, err := h.streamService.Relation(r.Context(), target.ID, discriminator)
	if err != nil {
		log.Error().Err(err).Str("user_id", target.ID).Str("type", discriminator).Msg("Failed to load relation")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"collection": collection,
		"items":      entries(items),
	})
}

// GetPages handles GET /api/v1/users/{user_id}/pages
func (h *StreamHandler) GetPages(w http.ResponseWriter, r *http.Request) {
	target := h.authorize(w, r)
	if target == nil {
		return
	}

	pages, err := h.streamService.TotalPages(r.Context(), target.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", target.ID).Msg("Failed to count pages")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"total_pages": pages})
}
