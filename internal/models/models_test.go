package models_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"points-feed/internal/models"
)

func TestAvatar(t *testing.T) {
	c := qt.New(t)
	u := &models.User{Email: "  MyEmailAddress@example.com "}
	c.Assert(u.Avatar(), qt.Equals, "https://secure.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346.png")
}

func TestBackgroundImage(t *testing.T) {
	c := qt.New(t)
	u := &models.User{}
	c.Assert(u.BackgroundImage(), qt.Equals, "dashboard.jpg")

	empty := ""
	u.Background = &empty
	c.Assert(u.BackgroundImage(), qt.Equals, "dashboard.jpg")

	bg := "backgrounds/beach.png"
	u.Background = &bg
	c.Assert(u.BackgroundImage(), qt.Equals, bg)
}

func TestStreamItems(t *testing.T) {
	c := qt.New(t)
	now := time.Now()

	var item models.StreamItem = &models.Post{Kind: "LinkPost", CreatedAt: now}
	c.Assert(item.PostedAt(), qt.Equals, now)
	c.Assert(item.Discriminator(), qt.Equals, "LinkPost")

	item = &models.FeedItem{Provider: models.ProviderInstagram, Posted: now}
	c.Assert(item.PostedAt(), qt.Equals, now)
	c.Assert(item.Discriminator(), qt.Equals, "InstagramFeedItem")

	c.Assert(models.Provider("myspace").Valid(), qt.IsFalse)
}
