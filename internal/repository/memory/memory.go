// Package memory is an in-process implementation of the repositories,
// used by tests and by `serve --store memory`.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"points-feed/internal/apperr"
	"points-feed/internal/models"
)

// Store holds every table behind one lock
type Store struct {
	mu              sync.RWMutex
	users           map[string]*models.User
	posts           []*models.Post
	feedItems       map[models.Provider][]*models.FeedItem
	friendships     []*models.Friendship
	awards          []*models.Award
	authentications []*models.Authentication

	// FailWith, when set, is returned by every read. Tests use it to check
	// that store failures propagate.
	FailWith error
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:     make(map[string]*models.User),
		feedItems: make(map[models.Provider][]*models.FeedItem),
	}
}

func (s *Store) Users() *UserRepository                     { return &UserRepository{s: s} }
func (s *Store) Posts() *PostRepository                     { return &PostRepository{s: s} }
func (s *Store) FeedItems() *FeedItemRepository             { return &FeedItemRepository{s: s} }
func (s *Store) Friendships() *FriendshipRepository         { return &FriendshipRepository{s: s} }
func (s *Store) Awards() *AwardRepository                   { return &AwardRepository{s: s} }
func (s *Store) Authentications() *AuthenticationRepository { return &AuthenticationRepository{s: s} }

func (s *Store) readErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.FailWith
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	return &c
}

// UserRepository stores users
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) || u.DisplayName == user.DisplayName {
			return apperr.New(apperr.ErrDuplicate, "email or display name already taken", nil)
		}
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := r.s.readErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return copyUser(u), nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := r.s.readErr(ctx); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) DisplayNameExists(ctx context.Context, displayName string) (bool, error) {
	if err := r.s.readErr(ctx); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.DisplayName == displayName {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return apperr.NotFound("user")
	}
	u.Private = user.Private
	u.Background = user.Background
	u.TwitterName = user.TwitterName
	return nil
}

// Delete removes the user and the posts it owns
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperr.NotFound("user")
	}
	delete(r.s.users, id)
	kept := r.s.posts[:0]
	for _, p := range r.s.posts {
		if p.UserID != id {
			kept = append(kept, p)
		}
	}
	r.s.posts = kept
	return nil
}

// PostRepository stores posts
type PostRepository struct{ s *Store }

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.posts = append(r.s.posts, copyPost(post))
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if err := r.s.readErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.posts {
		if p.ID == id {
			return copyPost(p), nil
		}
	}
	return nil, apperr.NotFound("post")
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	return r.filter(ctx, func(p *models.Post) bool { return p.UserID == userID })
}

func (r *PostRepository) ListByUserAndKind(ctx context.Context, userID, kind string) ([]*models.Post, error) {
	return r.filter(ctx, func(p *models.Post) bool { return p.UserID == userID && p.Kind == kind })
}

func (r *PostRepository) filter(ctx context.Context, keep func(*models.Post) bool) ([]*models.Post, error) {
	if err := r.s.readErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	posts := []*models.Post{}
	for _, p := range r.s.posts {
		if keep(p) {
			posts = append(posts, copyPost(p))
		}
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (r *PostRepository) ExistsWithOriginal(ctx context.Context, userID string, originalPostID *string) (bool, error) {
	posts, err := r.filter(ctx, func(p *models.Post) bool {
		if p.UserID != userID {
			return false
		}
		if originalPostID == nil || p.OriginalPostID == nil {
			return originalPostID == nil && p.OriginalPostID == nil
		}
		return *p.OriginalPostID == *originalPostID
	})
	if err != nil {
		return false, err
	}
	return len(posts) > 0, nil
}

func (r *PostRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	posts, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, p := range r.s.posts {
		if p.ID == id {
			r.s.posts = append(r.s.posts[:i], r.s.posts[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("post")
}

// FeedItemRepository stores ingested provider items
type FeedItemRepository struct{ s *Store }

func (r *FeedItemRepository) Create(ctx context.Context, item *models.FeedItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *item
	r.s.feedItems[item.Provider] = append(r.s.feedItems[item.Provider], &c)
	return nil
}

func (r *FeedItemRepository) ListByUser(ctx context.Context, userID string, provider models.Provider) ([]*models.FeedItem, error) {
	if err := r.s.readErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []*models.FeedItem{}
	for _, it := range r.s.feedItems[provider] {
		if it.UserID == userID {
			c := *it
			items = append(items, &c)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Posted.After(items[j].Posted) })
	return items, nil
}

// FriendshipRepository stores directed friendship edges
type FriendshipRepository struct{ s *Store }

func (r *FriendshipRepository) Upsert(ctx context.Context, f *models.Friendship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.friendships {
		if existing.UserID == f.UserID && existing.FriendID == f.FriendID {
			existing.Status = f.Status
			f.ID = existing.ID
			f.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	c := *f
	r.s.friendships = append(r.s.friendships, &c)
	return nil
}

func (r *FriendshipRepository) Where(ctx context.Context, friendID, userID, status string) ([]*models.Friendship, error) {
	if err := r.s.readErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*models.Friendship{}
	for _, f := range r.s.friendships {
		if f.FriendID == friendID && f.UserID == userID && f.Status == status {
			c := *f
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *FriendshipRepository) FriendsOf(ctx context.Context, userID, status string) ([]*models.User, error) {
	if err := r.s.readErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := []*models.User{}
	for _, f := range r.s.friendships {
		if f.UserID != userID || f.Status != status {
			continue
		}
		if u, ok := r.s.users[f.FriendID]; ok {
			users = append(users, copyUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].DisplayName < users[j].DisplayName })
	return users, nil
}

func (r *FriendshipRepository) Delete(ctx context.Context, userID, friendID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, f := range r.s.friendships {
		if f.UserID == userID && f.FriendID == friendID {
			r.s.friendships = append(r.s.friendships[:i], r.s.friendships[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("friendship")
}

// AwardRepository stores awards
type AwardRepository struct{ s *Store }

func (r *AwardRepository) Where(ctx context.Context, userID, awardableID, awardableType string) ([]*models.Award, error) {
	if err := r.s.readErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*models.Award{}
	for _, a := range r.s.awards {
		if a.UserID == userID && a.AwardableID == awardableID && a.AwardableType == awardableType {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

// CreateIfAbsent checks and inserts under the write lock, mirroring the
// unique index of the Postgres table
func (r *AwardRepository) CreateIfAbsent(ctx context.Context, award *models.Award) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.awards {
		if a.UserID == award.UserID && a.AwardableID == award.AwardableID && a.AwardableType == award.AwardableType {
			return false, nil
		}
	}
	c := *award
	r.s.awards = append(r.s.awards, &c)
	return true, nil
}

// AuthenticationRepository stores linked provider identities
type AuthenticationRepository struct{ s *Store }

func (r *AuthenticationRepository) Create(ctx context.Context, a *models.Authentication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.authentications {
		if existing.UserID == a.UserID && existing.Provider == a.Provider && existing.UID == a.UID {
			return apperr.New(apperr.ErrDuplicate, "authentication already linked", nil)
		}
	}
	c := *a
	r.s.authentications = append(r.s.authentications, &c)
	return nil
}

func (r *AuthenticationRepository) Find(ctx context.Context, userID string, provider models.Provider, uid string) (*models.Authentication, error) {
	return r.first(ctx, func(a *models.Authentication) bool {
		return a.UserID == userID && a.Provider == provider && a.UID == uid
	})
}

func (r *AuthenticationRepository) FirstByProvider(ctx context.Context, userID string, provider models.Provider) (*models.Authentication, error) {
	return r.first(ctx, func(a *models.Authentication) bool {
		return a.UserID == userID && a.Provider == provider
	})
}

func (r *AuthenticationRepository) first(ctx context.Context, match func(*models.Authentication) bool) (*models.Authentication, error) {
	if err := r.s.readErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.authentications {
		if match(a) {
			c := *a
			return &c, nil
		}
	}
	return nil, apperr.NotFound("authentication")
}

func (r *AuthenticationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := r.s.readErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.authentications {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}
