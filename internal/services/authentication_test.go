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

func TestGetOrCreateAuthentication(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	svc := services.NewAuthenticationService(memory.New().Authentications())

	a, created, err := svc.GetOrCreate(ctx, "u1", services.LinkRequest{Provider: "twitter", UID: "42"})
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsTrue)

	again, created, err := svc.GetOrCreate(ctx, "u1", services.LinkRequest{Provider: "twitter", UID: "42"})
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsFalse)
	c.Assert(again.ID, qt.Equals, a.ID)

	found, err := svc.ForProvider(ctx, "u1", models.ProviderTwitter)
	c.Assert(err, qt.IsNil)
	c.Assert(found.UID, qt.Equals, "42")

	missing, err := svc.ForProvider(ctx, "u1", models.ProviderGithub)
	c.Assert(err, qt.IsNil)
	c.Assert(missing, qt.IsNil)

	_, _, err = svc.GetOrCreate(ctx, "u1", services.LinkRequest{Provider: "myspace", UID: "1"})
	c.Assert(apperr.Is(err, apperr.ErrInvalidInput), qt.IsTrue)
}

func TestAuthenticationProviderLimit(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	svc := services.NewAuthenticationService(memory.New().Authentications())

	links := []services.LinkRequest{
		{Provider: "twitter", UID: "t"},
		{Provider: "github", UID: "g"},
		{Provider: "instagram", UID: "i"},
	}
	for _, l := range links {
		full, err := svc.AllProviders(ctx, "u1")
		c.Assert(err, qt.IsNil)
		c.Assert(full, qt.IsFalse)

		_, _, err = svc.GetOrCreate(ctx, "u1", l)
		c.Assert(err, qt.IsNil)
	}

	full, err := svc.AllProviders(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(full, qt.IsTrue)

	_, _, err = svc.GetOrCreate(ctx, "u1", services.LinkRequest{Provider: "twitter", UID: "second"})
	c.Assert(apperr.Is(err, apperr.ErrTooManyProviders), qt.IsTrue)

	// an identity that is already linked is still returned
	_, created, err := svc.GetOrCreate(ctx, "u1", links[1])
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsFalse)
}
