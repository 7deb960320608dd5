package post

import (
	"context"

	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type ListPostsUseCase struct {
	postRepo post.Repository
	logger   logger.Logger
}

func NewListPostsUseCase(pRepo post.Repository, log logger.Logger) *ListPostsUseCase {
	return &ListPostsUseCase{postRepo: pRepo, logger: log}
}

// Execute returns every post, newest first.
func (uc *ListPostsUseCase) Execute(ctx context.Context) ([]*post.Post, error) {
	ctx, span := tracer.Start(ctx, "ListPosts")
	defer span.End()

	posts, err := uc.postRepo.ListRecent(ctx)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to list posts", err)
		return nil, apperror.NewInternal("list posts", err)
	}
	return posts, nil
}
