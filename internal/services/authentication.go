package services

import (
	"context"
	"fmt"
	"time"

	"points-feed/internal/apperr"
	"points-feed/internal/models"

	"github.com/google/uuid"
)

// MaxProviders is how many identities a user may link
const MaxProviders = 3

// AuthenticationService manages the third-party identities linked to users
type AuthenticationService struct {
	auths AuthenticationStore
}

// NewAuthenticationService creates a new authentication service
func NewAuthenticationService(auths AuthenticationStore) *AuthenticationService {
	return &AuthenticationService{auths: auths}
}

// LinkRequest represents a provider identity to link
type LinkRequest struct {
	Provider string  `json:"provider"`
	UID      string  `json:"uid"`
	Token    *string `json:"token,omitempty"`
	Secret   *string `json:"secret,omitempty"`
}

// AllProviders reports whether the user already linked MaxProviders identities
func (s *AuthenticationService) AllProviders(ctx context.Context, userID string) (bool, error) {
	n, err := s.auths.CountByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to count authentications: %w", err)
	}
	return n >= MaxProviders, nil
}

// ForProvider returns the user's identity for a provider, or nil if none is linked
func (s *AuthenticationService) ForProvider(ctx context.Context, userID string, provider models.Provider) (*models.Authentication, error) {
	a, err := s.auths.FirstByProvider(ctx, userID, provider)
	if err != nil {
		if apperr.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// GetOrCreate returns the identity (provider, uid) of the user, linking it
// first if needed. Linking fails once the user holds MaxProviders identities.
func (s *AuthenticationService) GetOrCreate(ctx context.Context, userID string, req LinkRequest) (*models.Authentication, bool, error) {
	provider := models.Provider(req.Provider)
	if !provider.Valid() {
		return nil, false, apperr.InvalidInput("unknown provider " + req.Provider)
	}
	if req.UID == "" {
		return nil, false, apperr.InvalidInput("uid is required")
	}

	existing, err := s.auths.Find(ctx, userID, provider, req.UID)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.Is(err, apperr.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to find authentication: %w", err)
	}

	full, err := s.AllProviders(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if full {
		return nil, false, apperr.New(apperr.ErrTooManyProviders,
			fmt.Sprintf("at most %d providers can be linked", MaxProviders), nil)
	}

	a := &models.Authentication{
		ID:        uuid.New().String(),
		UserID:    userID,
		Provider:  provider,
		UID:       req.UID,
		Token:     req.Token,
		Secret:    req.Secret,
		CreatedAt: time.Now(),
	}
	if err := s.auths.Create(ctx, a); err != nil {
		return nil, false, fmt.Errorf("failed to link authentication: %w", err)
	}
	return a, true, nil
}
