package post

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

// LikePostUseCase toggles likes. Both directions run under the post lock
// and return the resulting likes list.
type LikePostUseCase struct {
	postRepo post.Repository
	locker   service.Locker
	logger   logger.Logger
}

func NewLikePostUseCase(pRepo post.Repository, locker service.Locker, log logger.Logger) *LikePostUseCase {
	return &LikePostUseCase{postRepo: pRepo, locker: locker, logger: log}
}

type LikeInput struct {
	PostID string
	UserID string
}

func (uc *LikePostUseCase) Like(ctx context.Context, input LikeInput) ([]post.Like, error) {
	return uc.toggle(ctx, "LikePost", input, func(p *post.Post) error {
		if err := p.Like(input.UserID); errors.Is(err, post.ErrAlreadyLiked) {
			return apperror.NewConflict("Post already liked", input.PostID)
		}
		return nil
	})
}

func (uc *LikePostUseCase) Unlike(ctx context.Context, input LikeInput) ([]post.Like, error) {
	return uc.toggle(ctx, "UnlikePost", input, func(p *post.Post) error {
		if err := p.Unlike(input.UserID); errors.Is(err, post.ErrNotLiked) {
			return apperror.NewConflict("Post has not yet been liked", input.PostID)
		}
		return nil
	})
}

func (uc *LikePostUseCase) toggle(ctx context.Context, op string, input LikeInput, fn func(*post.Post) error) ([]post.Like, error) {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	unlock, err := uc.locker.Lock(ctx, "post:"+input.PostID)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("acquire post lock", err)
	}
	defer unlock()

	p, err := findPost(ctx, uc.postRepo, uc.logger, input.PostID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := uc.postRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to save post likes", err, zap.String("post_id", input.PostID))
		return nil, apperror.NewInternal("save post", err)
	}
	return p.Likes, nil
}
