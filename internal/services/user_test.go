package services_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"points-feed/internal/apperr"
	"points-feed/internal/models"
	"points-feed/internal/repository/memory"
	"points-feed/internal/services"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     services.RegisterRequest
		wantErr string
	}{
		{name: "valid", req: services.RegisterRequest{Email: "ann@example.com", DisplayName: "ann_1"}},
		{name: "missing email", req: services.RegisterRequest{DisplayName: "ann"}, wantErr: "email can't be blank"},
		{name: "bad email", req: services.RegisterRequest{Email: "ann", DisplayName: "ann"}, wantErr: "email must be in the form user@server.com"},
		{name: "missing display name", req: services.RegisterRequest{Email: "ann@example.com"}, wantErr: "display_name can't be blank"},
		{name: "bad display name", req: services.RegisterRequest{Email: "ann@example.com", DisplayName: "ann smith"}, wantErr: "display_name must only be letters, numbers, underscore or dashes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			svc := services.NewUserService(memory.New().Users(), "secret")

			resp, err := svc.Register(ctx, tt.req)
			if tt.wantErr != "" {
				c.Assert(err, qt.ErrorMatches, tt.wantErr)
				c.Assert(apperr.Is(err, apperr.ErrInvalidInput), qt.IsTrue)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(resp.Token, qt.Not(qt.Equals), "")

			userID, err := svc.ValidateJWT(resp.Token)
			c.Assert(err, qt.IsNil)
			c.Assert(userID, qt.Equals, resp.User.ID)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	svc := services.NewUserService(memory.New().Users(), "secret")

	_, err := svc.Register(ctx, services.RegisterRequest{Email: "ann@example.com", DisplayName: "ann"})
	c.Assert(err, qt.IsNil)

	_, err = svc.Register(ctx, services.RegisterRequest{Email: "ANN@example.com", DisplayName: "other"})
	c.Assert(err, qt.ErrorMatches, "email has already been taken")

	_, err = svc.Register(ctx, services.RegisterRequest{Email: "new@example.com", DisplayName: "ann"})
	c.Assert(err, qt.ErrorMatches, "display_name has already been taken")
}

func TestValidateJWTRejectsForeignTokens(t *testing.T) {
	c := qt.New(t)
	issuer := services.NewUserService(memory.New().Users(), "one")
	verifier := services.NewUserService(memory.New().Users(), "two")

	token, err := issuer.GenerateJWT("u1")
	c.Assert(err, qt.IsNil)

	_, err = verifier.ValidateJWT(token)
	c.Assert(apperr.Is(err, apperr.ErrInvalidToken), qt.IsTrue)
}

func TestUpdateProfileAndDelete(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	store := memory.New()
	svc := services.NewUserService(store.Users(), "secret")

	resp, err := svc.Register(ctx, services.RegisterRequest{Email: "ann@example.com", DisplayName: "ann"})
	c.Assert(err, qt.IsNil)
	c.Assert(resp.User.BackgroundImage(), qt.Equals, models.DefaultBackground)

	private := true
	bg := "backgrounds/sky.jpg"
	user, err := svc.UpdateProfile(ctx, resp.User.ID, services.UpdateProfileRequest{Private: &private, Background: &bg})
	c.Assert(err, qt.IsNil)
	c.Assert(user.Private, qt.IsTrue)
	c.Assert(user.BackgroundImage(), qt.Equals, bg)

	post := &models.Post{ID: "p1", UserID: user.ID, Kind: "TextPost", Content: "x"}
	c.Assert(store.Posts().Create(ctx, post), qt.IsNil)

	c.Assert(svc.DeleteUser(ctx, user.ID), qt.IsNil)
	_, err = svc.GetUser(ctx, user.ID)
	c.Assert(apperr.Is(err, apperr.ErrNotFound), qt.IsTrue)

	posts, err := store.Posts().ListByUser(ctx, user.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(posts, qt.HasLen, 0)
}
