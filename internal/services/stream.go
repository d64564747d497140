package services

import (
	"context"
	"fmt"
	"sort"

	"points-feed/internal/models"
	"points-feed/internal/posttypes"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PostsPerPage is the page size the post count is divided by in TotalPages
const PostsPerPage = 12

// StreamService merges a user's posts and provider items into one stream
type StreamService struct {
	posts     PostStore
	feedItems FeedItemStore
}

// NewStreamService creates a new stream service
func NewStreamService(posts PostStore, feedItems FeedItemStore) *StreamService {
	return &StreamService{
		posts:     posts,
		feedItems: feedItems,
	}
}

// Stream returns up to limit items of userID's stream, newest first,
// skipping the first offset. A non-positive limit yields an empty page and
// a negative offset counts as zero.
func (s *StreamService) Stream(ctx context.Context, userID string, limit, offset int) ([]models.StreamItem, error) {
	items, err := s.gather(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return paginate(items, limit, offset), nil
}

// gather collects the posts and every provider's items of a user
func (s *StreamService) gather(ctx context.Context, userID string) ([]models.StreamItem, error) {
	g, ctx := errgroup.WithContext(ctx)

	var posts []*models.Post
	g.Go(func() error {
		var err error
		posts, err = s.posts.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get posts: %w", err)
		}
		return nil
	})

	feeds := make([][]*models.FeedItem, len(models.Providers))
	for i, provider := range models.Providers {
		g.Go(func() error {
			items, err := s.feedItems.ListByUser(ctx, userID, provider)
			if err != nil {
				return fmt.Errorf("failed to get %s items: %w", provider, err)
			}
			feeds[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := len(posts)
	for _, items := range feeds {
		total += len(items)
	}
	combined := make([]models.StreamItem, 0, total)
	for _, p := range posts {
		combined = append(combined, p)
	}
	for _, items := range feeds {
		for _, it := range items {
			combined = append(combined, it)
		}
	}
	return combined, nil
}

// Relation returns the items of the collection a discriminator names,
// newest first. Unknown discriminators read the text posts.
func (s *StreamService) Relation(ctx context.Context, userID, discriminator string) (posttypes.Collection, []models.StreamItem, error) {
	collection := posttypes.RelationFor(discriminator)
	if collection == posttypes.DefaultCollection && discriminator != posttypes.TextPost {
		log.Debug().Str("discriminator", discriminator).Msg("Resolved relation to text posts")
	}

	var items []models.StreamItem
	switch {
	case collection == posttypes.Posts:
		posts, err := s.posts.ListByUser(ctx, userID)
		if err != nil {
			return collection, nil, fmt.Errorf("failed to get posts: %w", err)
		}
		items = postItems(posts)
	case collection.IsPostCollection():
		kind, _ := collection.PostKind()
		posts, err := s.posts.ListByUserAndKind(ctx, userID, kind.Name())
		if err != nil {
			return collection, nil, fmt.Errorf("failed to get %s: %w", collection, err)
		}
		items = postItems(posts)
	default:
		provider, _ := collection.Provider()
		feed, err := s.feedItems.ListByUser(ctx, userID, provider)
		if err != nil {
			return collection, nil, fmt.Errorf("failed to get %s: %w", collection, err)
		}
		items = make([]models.StreamItem, 0, len(feed))
		for _, it := range feed {
			items = append(items, it)
		}
	}

	sortNewestFirst(items)
	return collection, items, nil
}

// AlreadyReposted reports whether userID owns a post whose original_post_id
// equals original.OriginalPostID. When original is not itself a repost this
// matches any of the user's non-repost posts.
func (s *StreamService) AlreadyReposted(ctx context.Context, userID string, original *models.Post) (bool, error) {
	exists, err := s.posts.ExistsWithOriginal(ctx, userID, original.OriginalPostID)
	if err != nil {
		return false, fmt.Errorf("failed to check reposts: %w", err)
	}
	return exists, nil
}

// HasReposted reports whether userID owns a post pointing at postID
func (s *StreamService) HasReposted(ctx context.Context, userID, postID string) (bool, error) {
	exists, err := s.posts.ExistsWithOriginal(ctx, userID, &postID)
	if err != nil {
		return false, fmt.Errorf("failed to check reposts: %w", err)
	}
	return exists, nil
}

// TotalPages returns the number of post pages of userID
func (s *StreamService) TotalPages(ctx context.Context, userID string) (int, error) {
	n, err := s.posts.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n/PostsPerPage + 1, nil
}

func postItems(posts []*models.Post) []models.StreamItem {
	items := make([]models.StreamItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, p)
	}
	return items
}

func sortNewestFirst(items []models.StreamItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PostedAt().After(items[j].PostedAt())
	})
}

func paginate(items []models.StreamItem, limit, offset int) []models.StreamItem {
	if limit <= 0 {
		return []models.StreamItem{}
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []models.StreamItem{}
	}
	if remaining := len(items) - offset; limit > remaining {
		limit = remaining
	}
	return items[offset : offset+limit]
}
