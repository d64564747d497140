package repository

import (
	"context"
	"errors"
	"fmt"

	"points-feed/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AwardRepository handles database operations for awards
type AwardRepository struct {
	db *pgxpool.Pool
}

// NewAwardRepository creates a new award repository
func NewAwardRepository(db *pgxpool.Pool) *AwardRepository {
	return &AwardRepository{db: db}
}

// Where retrieves awards given by a user to one awardable
func (r *AwardRepository) Where(ctx context.Context, userID, awardableID, awardableType string) ([]*models.Award, error) {
	query := `
		SELECT id, user_id, awardable_id, awardable_type, created_at
		FROM awards
		WHERE user_id = $1 AND awardable_id = $2 AND awardable_type = $3
	`
	rows, err := r.db.Query(ctx, query, userID, awardableID, awardableType)
	if err != nil {
		return nil, fmt.Errorf("failed to get awards: %w", err)
	}
	defer rows.Close()

	awards := []*models.Award{}
	for rows.Next() {
		var a models.Award
		if err := rows.Scan(&a.ID, &a.UserID, &a.AwardableID, &a.AwardableType, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan award: %w", err)
		}
		awards = append(awards, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating awards: %w", err)
	}
	return awards, nil
}

// CreateIfAbsent inserts the award unless the same (user, awardable id,
// awardable type) already exists. The unique index decides; the return
// value reports whether this call inserted the row.
func (r *AwardRepository) CreateIfAbsent(ctx context.Context, award *models.Award) (bool, error) {
	query := `
		INSERT INTO awards (id, user_id, awardable_id, awardable_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, awardable_id, awardable_type) DO NOTHING
		RETURNING id
	`
	var id string
	err := r.db.QueryRow(ctx, query,
		award.ID, award.UserID, award.AwardableID, award.AwardableType, award.CreatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create award: %w", err)
	}
	return true, nil
}
