package models

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultBackground is served when a user has not uploaded a background
const DefaultBackground = "dashboard.jpg"

// User represents a registered user
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Private     bool      `json:"private"`
	Background  *string   `json:"background,omitempty"`
	TwitterName *string   `json:"twitter_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BackgroundImage returns the user's background reference or the default one
func (u *User) BackgroundImage() string {
	if u.Background == nil || *u.Background == "" {
		return DefaultBackground
	}
	return *u.Background
}

// Avatar returns the Gravatar image URL for the user's email
func (u *User) Avatar() string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return fmt.Sprintf("https://secure.gravatar.com/avatar/%s.png", hex.EncodeToString(sum[:]))
}

// StreamItem is anything that can appear in a user's aggregated stream
type StreamItem interface {
	PostedAt() time.Time
	Discriminator() string
}

// Post represents a user-authored post. Kind holds the variant tag
// (TextPost, LinkPost, ImagePost).
type Post struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Kind           string    `json:"type"`
	Comment        string    `json:"comment,omitempty"`
	Content        string    `json:"content,omitempty"`
	File           *string   `json:"file,omitempty"`
	OriginalPostID *string   `json:"original_post_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// PostedAt implements StreamItem
func (p *Post) PostedAt() time.Time { return p.CreatedAt }

// Discriminator implements StreamItem
func (p *Post) Discriminator() string { return p.Kind }

// IsRepost reports whether the post references another post
func (p *Post) IsRepost() bool { return p.OriginalPostID != nil }

// Provider identifies an external social network
type Provider string

const (
	ProviderTwitter   Provider = "twitter"
	ProviderGithub    Provider = "github"
	ProviderInstagram Provider = "instagram"
)

// Providers lists every provider whose items participate in streams
var Providers = []Provider{ProviderTwitter, ProviderGithub, ProviderInstagram}

// ItemDiscriminator returns the feed item tag for the provider, e.g. TwitterFeedItem
func (p Provider) ItemDiscriminator() string {
	switch p {
	case ProviderTwitter:
		return "TwitterFeedItem"
	case ProviderGithub:
		return "GithubFeedItem"
	case ProviderInstagram:
		return "InstagramFeedItem"
	default:
		return ""
	}
}

// Valid reports whether p is a known provider
func (p Provider) Valid() bool {
	return p.ItemDiscriminator() != ""
}

// FeedItem is an item ingested from an external provider
type FeedItem struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Provider   Provider        `json:"provider"`
	ExternalID string          `json:"external_id"`
	Payload    json.RawMessage `json:"payload"`
	Posted     time.Time       `json:"posted_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PostedAt implements StreamItem
func (f *FeedItem) PostedAt() time.Time { return f.Posted }

// Discriminator implements StreamItem
func (f *FeedItem) Discriminator() string { return f.Provider.ItemDiscriminator() }

// Friendship statuses
const (
	FriendshipActive  = "active"
	FriendshipPending = "pending"
)

// Friendship is a directed edge: UserID grants FriendID access
type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Award is given by a user to an awardable entity
type Award struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AwardableID   string    `json:"awardable_id"`
	AwardableType string    `json:"awardable_type"`
	CreatedAt     time.Time `json:"created_at"`
}

// Authentication links a user to a third-party identity
type Authentication struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Provider  Provider  `json:"provider"`
	UID       string    `json:"uid"`
	Token     *string   `json:"-"`
	Secret    *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
