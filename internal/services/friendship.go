package services

import (
	"context"
	"fmt"
	"time"

	"points-feed/internal/apperr"
	"points-feed/internal/models"

	"github.com/google/uuid"
)

// FriendshipService answers and maintains directed friendship edges
type FriendshipService struct {
	friendships FriendshipStore
	users       UserStore
}

// NewFriendshipService creates a new friendship service
func NewFriendshipService(friendships FriendshipStore, users UserStore) *FriendshipService {
	return &FriendshipService{
		friendships: friendships,
		users:       users,
	}
}

// IsFriend reports whether userID holds an active edge towards otherID.
// The reverse edge is not consulted.
func (s *FriendshipService) IsFriend(ctx context.Context, userID, otherID string) (bool, error) {
	rows, err := s.friendships.Where(ctx, otherID, userID, models.FriendshipActive)
	if err != nil {
		return false, fmt.Errorf("failed to look up friendship: %w", err)
	}
	return len(rows) > 0, nil
}

// ActiveFriends returns the targets of userID's active edges
func (s *FriendshipService) ActiveFriends(ctx context.Context, userID string) ([]*models.User, error) {
	friends, err := s.friendships.FriendsOf(ctx, userID, models.FriendshipActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get active friends: %w", err)
	}
	return friends, nil
}

// Befriend makes friendID an active friend of userID. Calling it again
// reactivates an existing edge.
func (s *FriendshipService) Befriend(ctx context.Context, userID, friendID string) (*models.Friendship, error) {
	if userID == friendID {
		return nil, apperr.InvalidInput("cannot befriend yourself")
	}
	if err := checkID(friendID, "user"); err != nil {
		return nil, fmt.Errorf("friend not found: %w", err)
	}
	if _, err := s.users.GetByID(ctx, friendID); err != nil {
		return nil, fmt.Errorf("friend not found: %w", err)
	}

	f := &models.Friendship{
		ID:        uuid.New().String(),
		UserID:    userID,
		FriendID:  friendID,
		Status:    models.FriendshipActive,
		CreatedAt: time.Now(),
	}
	if err := s.friendships.Upsert(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save friendship: %w", err)
	}
	return f, nil
}

// Unfriend removes the edge userID -> friendID
func (s *FriendshipService) Unfriend(ctx context.Context, userID, friendID string) error {
	if err := checkID(friendID, "friendship"); err != nil {
		return err
	}
	return s.friendships.Delete(ctx, userID, friendID)
}
