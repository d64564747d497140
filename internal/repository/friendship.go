package repository

import (
	"context"
	"fmt"

	"points-feed/internal/apperr"
	"points-feed/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendshipRepository handles database operations for friendships
type FriendshipRepository struct {
	db *pgxpool.Pool
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(db *pgxpool.Pool) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Upsert stores the edge user -> friend, overwriting the status of an existing one
func (r *FriendshipRepository) Upsert(ctx context.Context, f *models.Friendship) error {
	query := `
		INSERT INTO friendships (id, user_id, friend_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, friend_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, f.ID, f.UserID, f.FriendID, f.Status, f.CreatedAt).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save friendship: %w", err)
	}
	return nil
}

// Where retrieves friendships matching friend, user and status
func (r *FriendshipRepository) Where(ctx context.Context, friendID, userID, status string) ([]*models.Friendship, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at
		FROM friendships
		WHERE friend_id = $1 AND user_id = $2 AND status = $3
	`
	rows, err := r.db.Query(ctx, query, friendID, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendships: %w", err)
	}
	defer rows.Close()

	friendships := []*models.Friendship{}
	for rows.Next() {
		var f models.Friendship
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friendships: %w", err)
	}
	return friendships, nil
}

// FriendsOf retrieves the targets of a user's edges with the given status
func (r *FriendshipRepository) FriendsOf(ctx context.Context, userID, status string) ([]*models.User, error) {
	query := `
		SELECT u.id, u.email, u.display_name, u.private, u.background, u.twitter_name, u.created_at
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1 AND f.status = $2
		ORDER BY u.display_name
	`
	rows, err := r.db.Query(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Private, &u.Background, &u.TwitterName, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friends: %w", err)
	}
	return users, nil
}

// Delete removes the edge user -> friend
func (r *FriendshipRepository) Delete(ctx context.Context, userID, friendID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("friendship")
	}
	return nil
}
