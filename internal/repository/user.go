package repository

import (
	"context"
	"errors"
	"fmt"

	"points-feed/internal/apperr"
	"points-feed/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// isUniqueViolation reports whether err comes from a unique constraint
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// isNoSuchRow reports whether a single-row lookup found nothing, including
// when the key is not a valid UUID
func isNoSuchRow(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return true
	}
	return errors.Is(err, pgx.ErrNoRows)
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, display_name, private, background, twitter_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.DisplayName, user.Private, user.Background, user.TwitterName, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.ErrDuplicate, "email or display name already taken", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, display_name, private, background, twitter_name, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.Private,
		&user.Background, &user.TwitterName, &user.CreatedAt,
	)
	if err != nil {
		if isNoSuchRow(err) {
			return nil, apperr.New(apperr.ErrNotFound, "user not found", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// DisplayNameExists checks if a display name is already taken
func (r *UserRepository) DisplayNameExists(ctx context.Context, displayName string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE display_name = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, displayName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check display name existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile updates the privacy flag and background of a user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET private = $1, background = $2, twitter_name = $3 WHERE id = $4`
	result, err := r.db.Exec(ctx, query, user.Private, user.Background, user.TwitterName, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// Delete deletes a user; posts go with it via ON DELETE CASCADE
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}
