package services_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"points-feed/internal/apperr"
	"points-feed/internal/posttypes"
	"points-feed/internal/services"
)

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	file := "images/u/cat.jpg"

	tests := []struct {
		name     string
		req      services.CreatePostRequest
		kind     string
		template string
		wantErr  string
	}{
		{
			name:     "text post",
			req:      services.CreatePostRequest{Type: "TextPost", Content: "hello", Comment: "first"},
			kind:     posttypes.TextPost,
			template: "text_post",
		},
		{
			name:     "link post",
			req:      services.CreatePostRequest{Type: "LinkPost", Content: "https://go.dev"},
			kind:     posttypes.LinkPost,
			template: "link_post",
		},
		{
			name:     "image post",
			req:      services.CreatePostRequest{Type: "ImagePost", File: &file},
			kind:     posttypes.ImagePost,
			template: "image_post",
		},
		{
			name:     "unknown type becomes text post",
			req:      services.CreatePostRequest{Type: "Mystery", Content: "still text"},
			kind:     posttypes.TextPost,
			template: "text_post",
		},
		{
			name:    "blank text post",
			req:     services.CreatePostRequest{Type: "TextPost", Content: " ", Comment: "valid comment"},
			wantErr: "validation failed: content can't be blank, Message is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			f := newFixture()
			u := f.user(c, "u", false)

			post, err := f.posts.CreatePost(ctx, u.ID, tt.req)
			if tt.wantErr != "" {
				c.Assert(err, qt.ErrorMatches, tt.wantErr)
				verr, ok := posttypes.AsValidationError(err)
				c.Assert(ok, qt.IsTrue)
				c.Assert(verr.On(posttypes.FieldBase), qt.DeepEquals, []string{"Message is required"})

				posts, err := f.store.Posts().ListByUser(ctx, u.ID)
				c.Assert(err, qt.IsNil)
				c.Assert(posts, qt.HasLen, 0)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(post.Kind, qt.Equals, tt.kind)
			c.Assert(posttypes.Resolve(post.Kind).Template(), qt.Equals, tt.template)

			stored, err := f.store.Posts().GetByID(ctx, post.ID)
			c.Assert(err, qt.IsNil)
			c.Assert(stored.Kind, qt.Equals, tt.kind)
		})
	}
}

func TestRepost(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	author := f.user(c, "author", false)
	first := f.user(c, "first", false)
	second := f.user(c, "second", false)
	root := f.textPost(c, author, at(1))

	repost, err := f.posts.Repost(ctx, first.ID, root.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(*repost.OriginalPostID, qt.Equals, root.ID)
	c.Assert(repost.Content, qt.Equals, root.Content)

	_, err = f.posts.Repost(ctx, first.ID, root.ID)
	c.Assert(apperr.Is(err, apperr.ErrDuplicate), qt.IsTrue)

	// reposting a repost points at the root
	again, err := f.posts.Repost(ctx, second.ID, repost.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(*again.OriginalPostID, qt.Equals, root.ID)

	_, err = f.posts.Repost(ctx, author.ID, root.ID)
	c.Assert(apperr.Is(err, apperr.ErrInvalidInput), qt.IsTrue)
}

func TestDeletePost(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	owner := f.user(c, "owner", false)
	other := f.user(c, "other", false)
	post := f.textPost(c, owner, at(1))

	err := f.posts.DeletePost(ctx, other.ID, post.ID)
	c.Assert(apperr.Is(err, apperr.ErrForbidden), qt.IsTrue)

	c.Assert(f.posts.DeletePost(ctx, owner.ID, post.ID), qt.IsNil)
	_, err = f.posts.GetPost(ctx, post.ID)
	c.Assert(apperr.Is(err, apperr.ErrNotFound), qt.IsTrue)
}

func TestPrivatePostsStayPrivate(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	owner := f.user(c, "owner", true)
	friend := f.user(c, "friend", false)
	stranger := f.user(c, "stranger", false)
	diary := f.textPost(c, owner, at(1))
	_, err := f.friendships.Befriend(ctx, owner.ID, friend.ID)
	c.Assert(err, qt.IsNil)

	_, err = f.posts.Repost(ctx, stranger.ID, diary.ID)
	c.Assert(apperr.Is(err, apperr.ErrNotFound), qt.IsTrue)
	_, err = f.posts.Reposted(ctx, stranger.ID, diary.ID)
	c.Assert(apperr.Is(err, apperr.ErrNotFound), qt.IsTrue)
	err = f.posts.DeletePost(ctx, stranger.ID, diary.ID)
	c.Assert(apperr.Is(err, apperr.ErrNotFound), qt.IsTrue)

	leaked, err := f.store.Posts().ListByUser(ctx, stranger.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(leaked, qt.HasLen, 0)

	// a friend may repost; deleting stays with the owner
	_, err = f.posts.Repost(ctx, friend.ID, diary.ID)
	c.Assert(err, qt.IsNil)
	err = f.posts.DeletePost(ctx, friend.ID, diary.ID)
	c.Assert(apperr.Is(err, apperr.ErrForbidden), qt.IsTrue)
}

func TestRepostedAgreesWithRepost(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture()
	author := f.user(c, "author", false)
	viewer := f.user(c, "viewer", false)
	root := f.textPost(c, author, at(1))
	f.textPost(c, viewer, at(2))

	reposted, err := f.posts.Reposted(ctx, viewer.ID, root.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(reposted, qt.IsFalse)

	repost, err := f.posts.Repost(ctx, viewer.ID, root.ID)
	c.Assert(err, qt.IsNil)

	reposted, err = f.posts.Reposted(ctx, viewer.ID, root.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(reposted, qt.IsTrue)

	// asking about the repost itself resolves to the same root
	reposted, err = f.posts.Reposted(ctx, viewer.ID, repost.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(reposted, qt.IsTrue)
}
