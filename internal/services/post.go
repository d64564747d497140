package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"points-feed/internal/apperr"
	"points-feed/internal/models"
	"points-feed/internal/posttypes"

	"github.com/google/uuid"
)

// PostService handles post-related business logic
type PostService struct {
	posts  PostStore
	stream *StreamService
	gate   *VisibilityGate
}

// NewPostService creates a new post service. Reposts, repost checks and
// deletes only reach posts the gate lets the caller see.
func NewPostService(posts PostStore, stream *StreamService, gate *VisibilityGate) *PostService {
	return &PostService{
		posts:  posts,
		stream: stream,
		gate:   gate,
	}
}

// CreatePostRequest represents a request to create a post
type CreatePostRequest struct {
	Type    string  `json:"type"`
	Comment string  `json:"comment"`
	Content string  `json:"content"`
	File    *string `json:"file,omitempty"`
}

// CreatePost validates and stores a post. The type is resolved through the
// registry, so an unknown type creates a text post.
func (s *PostService) CreatePost(ctx context.Context, userID string, req CreatePostRequest) (*models.Post, error) {
	kind := posttypes.Resolve(req.Type)
	post := &models.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind.Name(),
		Comment:   strings.TrimSpace(req.Comment),
		Content:   req.Content,
		File:      req.File,
		CreatedAt: time.Now(),
	}

	if err := kind.Validate(post); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	if err := checkID(postID, "post"); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, postID)
}

func rootOf(post *models.Post) string {
	if post.OriginalPostID != nil {
		return *post.OriginalPostID
	}
	return post.ID
}

// Reposted reports whether userID already reposted postID's root original,
// the same check Repost enforces
func (s *PostService) Reposted(ctx context.Context, userID, postID string) (bool, error) {
	post, err := s.gate.VisiblePost(ctx, s.posts, userID, postID)
	if err != nil {
		return false, err
	}
	return s.stream.HasReposted(ctx, userID, rootOf(post))
}

// Repost copies postID into userID's posts, pointing at the root original.
// Reposting your own post or reposting the same original twice is rejected.
func (s *PostService) Repost(ctx context.Context, userID, postID string) (*models.Post, error) {
	original, err := s.gate.VisiblePost(ctx, s.posts, userID, postID)
	if err != nil {
		return nil, err
	}
	if original.UserID == userID {
		return nil, apperr.InvalidInput("cannot repost your own post")
	}

	root := rootOf(original)

	reposted, err := s.stream.HasReposted(ctx, userID, root)
	if err != nil {
		return nil, err
	}
	if reposted {
		return nil, apperr.New(apperr.ErrDuplicate, "post already reposted", nil)
	}

	post := &models.Post{
		ID:             uuid.New().String(),
		UserID:         userID,
		Kind:           original.Kind,
		Comment:        original.Comment,
		Content:        original.Content,
		File:           original.File,
		OriginalPostID: &root,
		CreatedAt:      time.Now(),
	}
	if err := posttypes.Validate(post); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create repost: %w", err)
	}
	return post, nil
}

// DeletePost deletes a post owned by userID
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.gate.VisiblePost(ctx, s.posts, userID, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperr.Forbidden("post belongs to another user")
	}
	return s.posts.Delete(ctx, postID)
}
