// Package memory keeps users, profiles and posts in process memory. It
// backs local runs with db.driver=memory and the package tests. Values are
// copied in and out so callers never share state with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*user.User
	profiles map[string]*profile.Profile // keyed by user id
	posts    map[string]*post.Post
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*user.User),
		profiles: make(map[string]*profile.Profile),
		posts:    make(map[string]*post.Post),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() user.Repository       { return &userRepo{s: s} }
func (s *Store) Profiles() profile.Repository { return &profileRepo{s: s} }
func (s *Store) Posts() post.Repository       { return &postRepo{s: s} }

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.now()
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepo) FindSummaries(_ context.Context, ids []string) (map[string]user.Summary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]user.Summary, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (r *userRepo) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Avatar = avatarURL
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.users, id)
	return nil
}

type profileRepo struct{ s *Store }

func (r *profileRepo) FindByUserID(_ context.Context, userID string) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *profileRepo) List(_ context.Context) ([]*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *profileRepo) Create(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[p.UserID]; ok {
		return profile.ErrProfileExists
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.s.profiles[p.UserID] = cloneProfile(p)
	return nil
}

func (r *profileRepo) Update(_ context.Context, userID string, patch profile.Patch) (*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	p.Apply(patch)
	return cloneProfile(p), nil
}

func (r *profileRepo) Save(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[p.UserID]; !ok {
		return profile.ErrProfileNotFound
	}
	r.s.profiles[p.UserID] = cloneProfile(p)
	return nil
}

func (r *profileRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.profiles, userID)
	return nil
}

type postRepo struct{ s *Store }

func (r *postRepo) Create(_ context.Context, p *post.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *postRepo) FindByID(_ context.Context, id string) (*post.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *postRepo) ListRecent(_ context.Context) ([]*post.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*post.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *postRepo) Save(_ context.Context, p *post.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[p.ID]; !ok {
		return post.ErrPostNotFound
	}
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *postRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.posts, id)
	return nil
}

func cloneProfile(p *profile.Profile) *profile.Profile {
	cp := *p
	cp.Skills = append([]string{}, p.Skills...)
	cp.Experience = append([]profile.Experience{}, p.Experience...)
	cp.Education = append([]profile.Education{}, p.Education...)
	return &cp
}

func clonePost(p *post.Post) *post.Post {
	cp := *p
	cp.Likes = append([]post.Like{}, p.Likes...)
	cp.Comments = append([]post.Comment{}, p.Comments...)
	return &cp
}
