package post

import (
	"context"

	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type DeletePostUseCase struct {
	postRepo post.Repository
	events   service.EventPublisher
	logger   logger.Logger
}

func NewDeletePostUseCase(pRepo post.Repository, events service.EventPublisher, log logger.Logger) *DeletePostUseCase {
	return &DeletePostUseCase{
		postRepo: pRepo,
		events:   events,
		logger:   log,
	}
}

type DeletePostInput struct {
	PostID string
	UserID string
}

// Execute deletes a post. Only its author may do so.
func (uc *DeletePostUseCase) Execute(ctx context.Context, input DeletePostInput) error {
	ctx, span := tracer.Start(ctx, "DeletePost")
	defer span.End()

	p, err := findPost(ctx, uc.postRepo, uc.logger, input.PostID)
	if err != nil {
		return err
	}
	if p.UserID != input.UserID {
		return apperror.NewPermissionDenied(msgNotAuthorized)
	}

	if err := uc.postRepo.Delete(ctx, input.PostID); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to delete post", err, zap.String("post_id", input.PostID))
		return apperror.NewInternal("delete post", err)
	}

	publish(uc.logger, uc.events, service.NewEvent(service.TopicPostEvents, service.EventPostDeleted, input.UserID, input.PostID))
	return nil
}
