package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"points-feed/internal/apperr"
	"points-feed/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const jwtExpDays = 30

var (
	emailPattern       = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	displayNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// UserService handles user-related business logic
type UserService struct {
	userRepo  UserStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Private     bool   `json:"private"`
	TwitterName string `json:"twitter_name,omitempty"`
}

// RegisterResponse is returned after registration
type RegisterResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", apperr.New(apperr.ErrInvalidToken, "failed to parse token", err)
	}

	if !token.Valid {
		return "", apperr.New(apperr.ErrInvalidToken, "invalid token", nil)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.New(apperr.ErrInvalidToken, "invalid token claims", nil)
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", apperr.New(apperr.ErrInvalidToken, "user_id not found in token", nil)
	}

	return userID, nil
}

// validateRegistration mirrors the user model rules: email present and
// well formed, display name present and made of letters, digits, _ or -
func validateRegistration(req RegisterRequest) error {
	switch {
	case req.Email == "":
		return apperr.InvalidInput("email can't be blank")
	case !emailPattern.MatchString(req.Email):
		return apperr.InvalidInput("email must be in the form user@server.com")
	case req.DisplayName == "":
		return apperr.InvalidInput("display_name can't be blank")
	case !displayNamePattern.MatchString(req.DisplayName):
		return apperr.InvalidInput("display_name must only be letters, numbers, underscore or dashes")
	}
	return nil
}

// Register creates a new user and issues its token
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, apperr.New(apperr.ErrDuplicate, "email has already been taken", nil)
	}
	taken, err = s.userRepo.DisplayNameExists(ctx, req.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("failed to check display name: %w", err)
	}
	if taken {
		return nil, apperr.New(apperr.ErrDuplicate, "display_name has already been taken", nil)
	}

	user := &models.User{
		ID:          uuid.New().String(),
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Private:     req.Private,
		CreatedAt:   time.Now(),
	}
	if req.TwitterName != "" {
		user.TwitterName = &req.TwitterName
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &RegisterResponse{User: user, Token: token}, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id, "user"); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfileRequest represents a profile update; nil fields are kept
type UpdateProfileRequest struct {
	Private    *bool   `json:"private,omitempty"`
	Background *string `json:"background,omitempty"`
}

// UpdateProfile changes the privacy flag or background of a user
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Private != nil {
		user.Private = *req.Private
	}
	if req.Background != nil {
		user.Background = req.Background
	}
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser deletes a user and its posts
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}
