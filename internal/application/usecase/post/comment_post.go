package post

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type CommentPostUseCase struct {
	postRepo post.Repository
	userRepo user.Repository
	locker   service.Locker
	logger   logger.Logger
}

func NewCommentPostUseCase(pRepo post.Repository, uRepo user.Repository, locker service.Locker, log logger.Logger) *CommentPostUseCase {
	return &CommentPostUseCase{postRepo: pRepo, userRepo: uRepo, locker: locker, logger: log}
}

type AddCommentInput struct {
	PostID string
	UserID string
	Text   string
}

// AddComment prepends a comment and returns the post's comments.
func (uc *CommentPostUseCase) AddComment(ctx context.Context, input AddCommentInput) ([]post.Comment, error) {
	ctx, span := tracer.Start(ctx, "AddComment")
	defer span.End()

	author, err := uc.userRepo.FindByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperror.NewNotFound("User not found", input.UserID)
	}
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("find comment author", err)
	}

	return uc.mutate(ctx, input.PostID, func(p *post.Post) error {
		p.AddComment(post.Comment{
			ID:        uuid.NewString(),
			UserID:    author.ID,
			Text:      input.Text,
			Name:      author.Name,
			Avatar:    author.Avatar,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
}

type RemoveCommentInput struct {
	PostID    string
	CommentID string
	UserID    string
}

// RemoveComment deletes a comment. Only the comment's author may do so.
func (uc *CommentPostUseCase) RemoveComment(ctx context.Context, input RemoveCommentInput) ([]post.Comment, error) {
	ctx, span := tracer.Start(ctx, "RemoveComment")
	defer span.End()

	return uc.mutate(ctx, input.PostID, func(p *post.Post) error {
		c, ok := p.FindComment(input.CommentID)
		if !ok {
			return apperror.NewNotFound(msgCommentNotFound, input.CommentID).WithStatus(http.StatusNotFound)
		}
		if c.UserID != input.UserID {
			return apperror.NewPermissionDenied(msgNotAuthorized)
		}
		return p.RemoveComment(input.CommentID)
	})
}

func (uc *CommentPostUseCase) mutate(ctx context.Context, postID string, fn func(*post.Post) error) ([]post.Comment, error) {
	unlock, err := uc.locker.Lock(ctx, "post:"+postID)
	if err != nil {
		return nil, apperror.NewInternal("acquire post lock", err)
	}
	defer unlock()

	p, err := findPost(ctx, uc.postRepo, uc.logger, postID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := uc.postRepo.Save(ctx, p); err != nil {
		uc.logger.Error("Failed to save post comments", err, zap.String("post_id", postID))
		return nil, apperror.NewInternal("save post", err)
	}
	return p.Comments, nil
}
