package user

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"date"`
}

// Summary is the reduced view of a user joined onto profiles and posts.
type Summary struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// GravatarURL returns the default avatar for an email address: 200px,
// PG rated, "mystery man" fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindSummaries returns the summaries of the ids that exist; unknown
	// ids are simply absent from the map.
	FindSummaries(ctx context.Context, ids []string) (map[string]Summary, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	// Delete is a no-op when the user does not exist.
	Delete(ctx context.Context, id string) error
}
