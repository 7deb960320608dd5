package post

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type CreatePostUseCase struct {
	postRepo post.Repository
	userRepo user.Repository
	events   service.EventPublisher
	logger   logger.Logger
}

func NewCreatePostUseCase(pRepo post.Repository, uRepo user.Repository, events service.EventPublisher, log logger.Logger) *CreatePostUseCase {
	return &CreatePostUseCase{
		postRepo: pRepo,
		userRepo: uRepo,
		events:   events,
		logger:   log,
	}
}

type CreatePostInput struct {
	UserID string
	Text   string
}

// Execute stores a post stamped with the author's current name and avatar.
func (uc *CreatePostUseCase) Execute(ctx context.Context, input CreatePostInput) (*post.Post, error) {
	ctx, span := tracer.Start(ctx, "CreatePost")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID))

	author, err := uc.userRepo.FindByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperror.NewNotFound("User not found", input.UserID)
	}
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to load post author", err, zap.String("user_id", input.UserID))
		return nil, apperror.NewInternal("find author", err)
	}

	newPost := &post.Post{
		UserID:    author.ID,
		Text:      input.Text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Likes:     []post.Like{},
		Comments:  []post.Comment{},
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.postRepo.Create(ctx, newPost); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to save post", err, zap.String("user_id", input.UserID))
		return nil, apperror.NewInternal("create post", err)
	}

	publish(uc.logger, uc.events, service.NewEvent(service.TopicPostEvents, service.EventPostCreated, author.ID, newPost.ID))
	return newPost, nil
}
