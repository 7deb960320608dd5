package post

import (
	"context"

	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type GetPostUseCase struct {
	postRepo post.Repository
	logger   logger.Logger
}

func NewGetPostUseCase(pRepo post.Repository, log logger.Logger) *GetPostUseCase {
	return &GetPostUseCase{postRepo: pRepo, logger: log}
}

func (uc *GetPostUseCase) Execute(ctx context.Context, postID string) (*post.Post, error) {
	ctx, span := tracer.Start(ctx, "GetPost")
	defer span.End()

	return findPost(ctx, uc.postRepo, uc.logger, postID)
}
