package post

import (
	"context"
	"errors"
	"time"
)

type Like struct {
	UserID string `json:"user"`
}

type Comment struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// Post copies the author's name and avatar at creation time so that a
// post keeps rendering after the author account is gone.
type Post struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`
}

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment does not exist")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post has not yet been liked")
)

func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// Like adds userID to the front of the likes list.
func (p *Post) Like(userID string) error {
	if p.LikedBy(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = append([]Like{{UserID: userID}}, p.Likes...)
	return nil
}

func (p *Post) Unlike(userID string) error {
	for i, l := range p.Likes {
		if l.UserID == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return ErrNotLiked
}

// AddComment puts c at the front of the comment list.
func (p *Post) AddComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

func (p *Post) FindComment(commentID string) (*Comment, bool) {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i], true
		}
	}
	return nil, false
}

func (p *Post) RemoveComment(commentID string) error {
	for i, c := range p.Comments {
		if c.ID == commentID {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return ErrCommentNotFound
}

type Repository interface {
	Create(ctx context.Context, p *Post) error
	// FindByID returns ErrPostNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*Post, error)
	// ListRecent returns every post, newest first.
	ListRecent(ctx context.Context) ([]*Post, error)
	Save(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
}
