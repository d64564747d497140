package repository

import (
	"context"
	"fmt"

	"points-feed/internal/apperr"
	"points-feed/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, user_id, type, COALESCE(comment, ''), COALESCE(content, ''), file, original_post_id, created_at`

// PostRepository handles database operations for posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.UserID, &post.Kind, &post.Comment, &post.Content,
		&post.File, &post.OriginalPostID, &post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, user_id, type, comment, content, file, original_post_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		post.ID, post.UserID, post.Kind, post.Comment, post.Content,
		post.File, post.OriginalPostID, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoSuchRow(err) {
			return nil, apperr.New(apperr.ErrNotFound, "post not found", err)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListByUser retrieves every post of a user, newest first
func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListByUserAndKind retrieves the posts of one variant, newest first
func (r *PostRepository) ListByUserAndKind(ctx context.Context, userID, kind string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 AND type = $2 ORDER BY created_at DESC`
	return r.list(ctx, query, userID, kind)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

// ExistsWithOriginal checks whether the user owns a post whose
// original_post_id equals originalPostID. A nil pointer matches posts
// that are not reposts.
func (r *PostRepository) ExistsWithOriginal(ctx context.Context, userID string, originalPostID *string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE user_id = $1 AND original_post_id IS NOT DISTINCT FROM $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, originalPostID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reposts: %w", err)
	}
	return exists, nil
}

// CountByUser counts the posts of a user
func (r *PostRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("post")
	}
	return nil
}
