package services

import (
	"context"
	"fmt"
	"time"

	"points-feed/internal/apperr"
	"points-feed/internal/models"
	"points-feed/internal/posttypes"

	"github.com/google/uuid"
)

// AwardService grants at most one award of a kind per user and post
type AwardService struct {
	awards AwardStore
	posts  PostStore
	gate   *VisibilityGate
}

// NewAwardService creates a new award service
func NewAwardService(awards AwardStore, posts PostStore, gate *VisibilityGate) *AwardService {
	return &AwardService{
		awards: awards,
		posts:  posts,
		gate:   gate,
	}
}

// CanAward reports whether userID has not yet given post an award of kind.
// The answer may be stale by the time the caller acts on it; Grant is the
// authoritative check.
func (s *AwardService) CanAward(ctx context.Context, userID string, post *models.Post, kind string) (bool, error) {
	existing, err := s.awards.Where(ctx, userID, post.ID, kind)
	if err != nil {
		return false, fmt.Errorf("failed to look up awards: %w", err)
	}
	return len(existing) == 0, nil
}

// Grant records an award of kind from userID to post. A second grant for
// the same (user, post, kind) fails with ALREADY_AWARDED, including when two
// grants race.
func (s *AwardService) Grant(ctx context.Context, userID string, post *models.Post, kind string) (*models.Award, error) {
	if kind == "" {
		return nil, apperr.InvalidInput("award kind is required")
	}

	award := &models.Award{
		ID:            uuid.New().String(),
		UserID:        userID,
		AwardableID:   post.ID,
		AwardableType: kind,
		CreatedAt:     time.Now(),
	}
	created, err := s.awards.CreateIfAbsent(ctx, award)
	if err != nil {
		return nil, fmt.Errorf("failed to grant award: %w", err)
	}
	if !created {
		return nil, apperr.New(apperr.ErrAlreadyAwarded, "award already granted", nil)
	}
	return award, nil
}

// GrantToPost loads the post, if userID may see it, and grants it an
// award. An empty kind uses the post's own variant name.
func (s *AwardService) GrantToPost(ctx context.Context, userID, postID, kind string) (*models.Award, error) {
	post, err := s.gate.VisiblePost(ctx, s.posts, userID, postID)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		kind = posttypes.Resolve(post.Kind).Name()
	}
	return s.Grant(ctx, userID, post, kind)
}

// CanAwardPost loads the post, if userID may see it, and runs CanAward
func (s *AwardService) CanAwardPost(ctx context.Context, userID, postID, kind string) (bool, error) {
	post, err := s.gate.VisiblePost(ctx, s.posts, userID, postID)
	if err != nil {
		return false, err
	}
	return s.CanAward(ctx, userID, post, kind)
}
