package repository

import (
	"context"
	"fmt"

	"points-feed/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// feedItemTables maps each provider to its item table
var feedItemTables = map[models.Provider]string{
	models.ProviderTwitter:   "twitter_feed_items",
	models.ProviderGithub:    "github_feed_items",
	models.ProviderInstagram: "instagram_feed_items",
}

// FeedItemRepository reads and writes the per-provider feed item tables
type FeedItemRepository struct {
	db *pgxpool.Pool
}

// NewFeedItemRepository creates a new feed item repository
func NewFeedItemRepository(db *pgxpool.Pool) *FeedItemRepository {
	return &FeedItemRepository{db: db}
}

func tableFor(provider models.Provider) (string, error) {
	table, ok := feedItemTables[provider]
	if !ok {
		return "", fmt.Errorf("unknown feed provider %q", provider)
	}
	return table, nil
}

// Create stores an ingested item in its provider's table
func (r *FeedItemRepository) Create(ctx context.Context, item *models.FeedItem) error {
	table, err := tableFor(item.Provider)
	if err != nil {
		return err
	}
	payload := []byte(item.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	query := `
		INSERT INTO ` + table + ` (id, user_id, external_id, payload, posted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.Exec(ctx, query, item.ID, item.UserID, item.ExternalID, payload, item.Posted, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s item: %w", item.Provider, err)
	}
	return nil
}

// ListByUser retrieves a user's items for one provider, newest first
func (r *FeedItemRepository) ListByUser(ctx context.Context, userID string, provider models.Provider) ([]*models.FeedItem, error) {
	table, err := tableFor(provider)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, user_id, external_id, payload, posted_at, created_at
		FROM ` + table + `
		WHERE user_id = $1
		ORDER BY posted_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s items: %w", provider, err)
	}
	defer rows.Close()

	items := []*models.FeedItem{}
	for rows.Next() {
		item := models.FeedItem{Provider: provider}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ExternalID, &item.Payload, &item.Posted, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s item: %w", provider, err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s items: %w", provider, err)
	}
	return items, nil
}
