package repository

import (
	"context"
	"errors"
	"fmt"

	"points-feed/internal/apperr"
	"points-feed/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const authenticationColumns = `id, user_id, provider, uid, token, secret, created_at`

// AuthenticationRepository handles database operations for linked provider identities
type AuthenticationRepository struct {
	db *pgxpool.Pool
}

// NewAuthenticationRepository creates a new authentication repository
func NewAuthenticationRepository(db *pgxpool.Pool) *AuthenticationRepository {
	return &AuthenticationRepository{db: db}
}

func scanAuthentication(row pgx.Row) (*models.Authentication, error) {
	var a models.Authentication
	if err := row.Scan(&a.ID, &a.UserID, &a.Provider, &a.UID, &a.Token, &a.Secret, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create creates a new authentication
func (r *AuthenticationRepository) Create(ctx context.Context, a *models.Authentication) error {
	query := `
		INSERT INTO authentications (id, user_id, provider, uid, token, secret, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, a.ID, a.UserID, a.Provider, a.UID, a.Token, a.Secret, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.ErrDuplicate, "authentication already linked", err)
		}
		return fmt.Errorf("failed to create authentication: %w", err)
	}
	return nil
}

// Find retrieves the authentication for a provider identity of a user
func (r *AuthenticationRepository) Find(ctx context.Context, userID string, provider models.Provider, uid string) (*models.Authentication, error) {
	query := `SELECT ` + authenticationColumns + ` FROM authentications WHERE user_id = $1 AND provider = $2 AND uid = $3`
	return r.get(ctx, query, userID, provider, uid)
}

// FirstByProvider retrieves the oldest authentication of a user for a provider
func (r *AuthenticationRepository) FirstByProvider(ctx context.Context, userID string, provider models.Provider) (*models.Authentication, error) {
	query := `SELECT ` + authenticationColumns + ` FROM authentications WHERE user_id = $1 AND provider = $2 ORDER BY created_at LIMIT 1`
	return r.get(ctx, query, userID, provider)
}

func (r *AuthenticationRepository) get(ctx context.Context, query string, args ...any) (*models.Authentication, error) {
	a, err := scanAuthentication(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, "authentication not found", err)
		}
		return nil, fmt.Errorf("failed to get authentication: %w", err)
	}
	return a, nil
}

// CountByUser counts the identities linked to a user
func (r *AuthenticationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM authentications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count authentications: %w", err)
	}
	return total, nil
}
