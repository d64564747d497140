package services_test

import (
	"context"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"

	"points-feed/internal/models"
	"points-feed/internal/posttypes"
	"points-feed/internal/repository/memory"
	"points-feed/internal/services"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return epoch.Add(time.Duration(minutes) * time.Minute)
}

type fixture struct {
	store       *memory.Store
	friendships *services.FriendshipService
	gate        *services.VisibilityGate
	stream      *services.StreamService
	awards      *services.AwardService
	posts       *services.PostService
}

func newFixture() *fixture {
	store := memory.New()
	friendships := services.NewFriendshipService(store.Friendships(), store.Users())
	stream := services.NewStreamService(store.Posts(), store.FeedItems())
	gate := services.NewVisibilityGate(friendships)
	return &fixture{
		store:       store,
		friendships: friendships,
		gate:        gate,
		stream:      stream,
		awards:      services.NewAwardService(store.Awards(), store.Posts(), gate),
		posts:       services.NewPostService(store.Posts(), stream, gate),
	}
}

func (f *fixture) user(c *qt.C, name string, private bool) *models.User {
	u := &models.User{
		ID:          uuid.New().String(),
		Email:       name + "@example.com",
		DisplayName: name,
		Private:     private,
		CreatedAt:   epoch,
	}
	c.Assert(f.store.Users().Create(context.Background(), u), qt.IsNil)
	return u
}

func (f *fixture) textPost(c *qt.C, owner *models.User, created time.Time) *models.Post {
	p := &models.Post{
		ID:        uuid.New().String(),
		UserID:    owner.ID,
		Kind:      posttypes.TextPost,
		Content:   "post at " + created.Format(time.Kitchen),
		CreatedAt: created,
	}
	c.Assert(f.store.Posts().Create(context.Background(), p), qt.IsNil)
	return p
}

func (f *fixture) feedItem(c *qt.C, owner *models.User, provider models.Provider, posted time.Time) *models.FeedItem {
	it := &models.FeedItem{
		ID:         uuid.New().String(),
		UserID:     owner.ID,
		Provider:   provider,
		ExternalID: uuid.New().String(),
		Payload:    []byte(`{"text":"hi"}`),
		Posted:     posted,
		CreatedAt:  posted,
	}
	c.Assert(f.store.FeedItems().Create(context.Background(), it), qt.IsNil)
	return it
}

func postedTimes(items []models.StreamItem) []time.Time {
	out := make([]time.Time, 0, len(items))
	for _, it := range items {
		out = append(out, it.PostedAt())
	}
	return out
}
