package services

import (
	"context"

	"points-feed/internal/models"
)

// UserStore is the user persistence the services depend on
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	DisplayNameExists(ctx context.Context, displayName string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// PostStore is the post persistence the services depend on
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
	ListByUserAndKind(ctx context.Context, userID, kind string) ([]*models.Post, error)
	ExistsWithOriginal(ctx context.Context, userID string, originalPostID *string) (bool, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// FeedItemStore reads the per-provider item tables filled by ingestion jobs
type FeedItemStore interface {
	ListByUser(ctx context.Context, userID string, provider models.Provider) ([]*models.FeedItem, error)
}

// FriendshipStore is the friendship persistence the services depend on
type FriendshipStore interface {
	Upsert(ctx context.Context, f *models.Friendship) error
	Where(ctx context.Context, friendID, userID, status string) ([]*models.Friendship, error)
	FriendsOf(ctx context.Context, userID, status string) ([]*models.User, error)
	Delete(ctx context.Context, userID, friendID string) error
}

// AwardStore is the award persistence the services depend on.
// CreateIfAbsent must be atomic with respect to (user, awardable id, awardable type).
type AwardStore interface {
	Where(ctx context.Context, userID, awardableID, awardableType string) ([]*models.Award, error)
	CreateIfAbsent(ctx context.Context, award *models.Award) (bool, error)
}

// AuthenticationStore is the linked-identity persistence the services depend on
type AuthenticationStore interface {
	Create(ctx context.Context, a *models.Authentication) error
	Find(ctx context.Context, userID string, provider models.Provider, uid string) (*models.Authentication, error)
	FirstByProvider(ctx context.Context, userID string, provider models.Provider) (*models.Authentication, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
