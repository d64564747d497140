package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"points-feed/internal/models"
	"points-feed/internal/posttypes"
)

func TestStreamMergesPostsAndFeedItems(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	a := f.user(c, "a", false)

	// t0 < t1 < t2 < t3 < t4
	f.feedItem(c, a, models.ProviderTwitter, at(0))
	f.textPost(c, a, at(1))
	f.textPost(c, a, at(2))
	f.textPost(c, a, at(3))
	f.feedItem(c, a, models.ProviderTwitter, at(4))

	items, err := f.stream.Stream(ctx, a.ID, 3, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(postedTimes(items), qt.DeepEquals, []time.Time{at(4), at(3), at(2)})
	c.Assert(items[0].Discriminator(), qt.Equals, "TwitterFeedItem")
	c.Assert(items[1].Discriminator(), qt.Equals, posttypes.TextPost)
}

func TestStreamPagination(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	u := f.user(c, "u", false)
	other := f.user(c, "other", false)

	providers := []models.Provider{models.ProviderTwitter, models.ProviderGithub, models.ProviderInstagram}
	for i := 0; i < 25; i++ {
		if i%2 == 0 {
			f.textPost(c, u, at(i))
		} else {
			f.feedItem(c, u, providers[i%3], at(i))
		}
	}
	// items of another user never leak in
	f.textPost(c, other, at(100))
	f.feedItem(c, other, models.ProviderGithub, at(101))

	first, err := f.stream.Stream(ctx, u.ID, 10, 0)
	c.Assert(err, qt.IsNil)
	second, err := f.stream.Stream(ctx, u.ID, 10, 10)
	c.Assert(err, qt.IsNil)
	third, err := f.stream.Stream(ctx, u.ID, 10, 20)
	c.Assert(err, qt.IsNil)

	c.Assert(first, qt.HasLen, 10)
	c.Assert(second, qt.HasLen, 10)
	c.Assert(third, qt.HasLen, 5)

	all := append(append(postedTimes(first), postedTimes(second)...), postedTimes(third)...)
	for i := range all {
		c.Assert(all[i], qt.Equals, at(24-i))
	}

	tests := []struct {
		name          string
		limit, offset int
		expected      int
	}{
		{name: "offset past end", limit: 10, offset: 25, expected: 0},
		{name: "offset far past end", limit: 10, offset: 1000, expected: 0},
		{name: "zero limit", limit: 0, offset: 0, expected: 0},
		{name: "negative limit", limit: -5, offset: 0, expected: 0},
		{name: "negative offset counts as zero", limit: 3, offset: -2, expected: 3},
		{name: "huge limit", limit: int(^uint(0) >> 1), offset: 5, expected: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			items, err := f.stream.Stream(ctx, u.ID, tt.limit, tt.offset)
			c.Assert(err, qt.IsNil)
			c.Assert(items, qt.HasLen, tt.expected)
			c.Assert(items, qt.IsNotNil)
		})
	}
}

func TestStreamEmptyUser(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	u := f.user(c, "empty", false)

	for _, page := range [][2]int{{10, 0}, {1, 5}, {0, 0}, {100, 100}} {
		items, err := f.stream.Stream(ctx, u.ID, page[0], page[1])
		c.Assert(err, qt.IsNil)
		c.Assert(items, qt.HasLen, 0)
	}
}

func TestStreamPropagatesStoreFailure(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	u := f.user(c, "u", false)
	f.textPost(c, u, at(1))

	boom := errors.New("timeout")
	f.store.FailWith = boom

	items, err := f.stream.Stream(context.Background(), u.ID, 10, 0)
	c.Assert(errors.Is(err, boom), qt.IsTrue)
	c.Assert(items, qt.IsNil)
}

func TestRelation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	u := f.user(c, "u", false)

	f.textPost(c, u, at(1))
	f.textPost(c, u, at(2))
	link := &models.Post{ID: "link-1", UserID: u.ID, Kind: posttypes.LinkPost, Content: "https://example.com", CreatedAt: at(3)}
	c.Assert(f.store.Posts().Create(ctx, link), qt.IsNil)
	f.feedItem(c, u, models.ProviderTwitter, at(4))

	collection, items, err := f.stream.Relation(ctx, u.ID, "TwitterFeedItem")
	c.Assert(err, qt.IsNil)
	c.Assert(collection, qt.Equals, posttypes.TwitterFeedItems)
	c.Assert(items, qt.HasLen, 1)

	collection, items, err = f.stream.Relation(ctx, u.ID, "LinkPost")
	c.Assert(err, qt.IsNil)
	c.Assert(collection, qt.Equals, posttypes.LinkPosts)
	c.Assert(items, qt.HasLen, 1)

	collection, items, err = f.stream.Relation(ctx, u.ID, "bogus_type")
	c.Assert(err, qt.IsNil)
	c.Assert(collection, qt.Equals, posttypes.TextPosts)
	c.Assert(postedTimes(items), qt.DeepEquals, []time.Time{at(2), at(1)})

	collection, items, err = f.stream.Relation(ctx, u.ID, "Post")
	c.Assert(err, qt.IsNil)
	c.Assert(collection, qt.Equals, posttypes.Posts)
	c.Assert(items, qt.HasLen, 3)
}

func TestAlreadyReposted(t *testing.T) {
	ctx := context.Background()

	t.Run("compares against the original's own original_post_id", func(t *testing.T) {
		c := qt.New(t)
		f := newFixture()
		author := f.user(c, "author", false)
		reposter := f.user(c, "reposter", false)
		third := f.user(c, "third", false)

		root := f.textPost(c, author, at(1))
		rootID := root.ID
		// third reposted root; reposter then looks at third's repost
		thirdRepost := &models.Post{ID: "r-third", UserID: third.ID, Kind: posttypes.TextPost, Content: "x", OriginalPostID: &rootID, CreatedAt: at(2)}
		c.Assert(f.store.Posts().Create(ctx, thirdRepost), qt.IsNil)

		ok, err := f.stream.AlreadyReposted(ctx, reposter.ID, thirdRepost)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)

		mine := &models.Post{ID: "r-mine", UserID: reposter.ID, Kind: posttypes.TextPost, Content: "x", OriginalPostID: &rootID, CreatedAt: at(3)}
		c.Assert(f.store.Posts().Create(ctx, mine), qt.IsNil)

		ok, err = f.stream.AlreadyReposted(ctx, reposter.ID, thirdRepost)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsTrue)
	})

	t.Run("non-repost original matches any own non-repost post", func(t *testing.T) {
		c := qt.New(t)
		f := newFixture()
		author := f.user(c, "author", false)
		reposter := f.user(c, "reposter", false)
		root := f.textPost(c, author, at(1))

		ok, err := f.stream.AlreadyReposted(ctx, reposter.ID, root)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)

		// an unrelated post of the reposter flips the answer
		f.textPost(c, reposter, at(2))
		ok, err = f.stream.AlreadyReposted(ctx, reposter.ID, root)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsTrue)
	})

	t.Run("id based check only matches reposts of that post", func(t *testing.T) {
		c := qt.New(t)
		f := newFixture()
		author := f.user(c, "author", false)
		reposter := f.user(c, "reposter", false)
		root := f.textPost(c, author, at(1))
		f.textPost(c, reposter, at(2))

		ok, err := f.stream.HasReposted(ctx, reposter.ID, root.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)

		_, err = f.posts.Repost(ctx, reposter.ID, root.ID)
		c.Assert(err, qt.IsNil)

		ok, err = f.stream.HasReposted(ctx, reposter.ID, root.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsTrue)
	})
}

func TestTotalPages(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	u := f.user(c, "u", false)

	pages, err := f.stream.TotalPages(ctx, u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(pages, qt.Equals, 1)

	for i := 0; i < 12; i++ {
		f.textPost(c, u, at(i))
	}
	pages, err = f.stream.TotalPages(ctx, u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(pages, qt.Equals, 2)
}
