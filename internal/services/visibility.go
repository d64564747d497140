package services

import (
	"context"
	"fmt"

	"points-feed/internal/apperr"
	"points-feed/internal/models"
)

// VisibilityGate decides who may read a user's stream
type VisibilityGate struct {
	friends *FriendshipService
}

// NewVisibilityGate creates a new visibility gate
func NewVisibilityGate(friends *FriendshipService) *VisibilityGate {
	return &VisibilityGate{friends: friends}
}

// CanView reports whether viewer may see target's stream. A nil viewer is
// anonymous. Private streams are visible to their owner and to users the
// owner lists as active friends.
func (g *VisibilityGate) CanView(ctx context.Context, viewer, target *models.User) (bool, error) {
	if viewer == nil {
		return !target.Private, nil
	}
	if viewer.ID == target.ID {
		return true, nil
	}
	if !target.Private {
		return true, nil
	}
	friend, err := g.friends.IsFriend(ctx, target.ID, viewer.ID)
	if err != nil {
		return false, err
	}
	return friend, nil
}

// CanViewUser runs CanView for IDs. An empty viewerID is anonymous and an
// unknown viewer is unauthorized.
func (g *VisibilityGate) CanViewUser(ctx context.Context, viewerID, targetID string) (bool, error) {
	target, err := g.friends.users.GetByID(ctx, targetID)
	if err != nil {
		if apperr.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load stream owner: %w", err)
	}

	var viewer *models.User
	if viewerID != "" {
		viewer, err = g.friends.users.GetByID(ctx, viewerID)
		if apperr.Is(err, apperr.ErrNotFound) {
			return false, apperr.New(apperr.ErrUnauthorized, "unknown user", err)
		}
		if err != nil {
			return false, fmt.Errorf("failed to load viewer: %w", err)
		}
	}
	return g.CanView(ctx, viewer, target)
}

// VisiblePost loads postID on behalf of viewerID. Posts whose owner's stream
// the viewer may not read are reported as not found.
func (g *VisibilityGate) VisiblePost(ctx context.Context, posts PostStore, viewerID, postID string) (*models.Post, error) {
	if err := checkID(postID, "post"); err != nil {
		return nil, err
	}
	post, err := posts.GetByID(ctx, postID)
	if apperr.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound("post")
	}
	if err != nil {
		return nil, err
	}
	ok, err := g.CanViewUser(ctx, viewerID, post.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("post")
	}
	return post, nil
}
