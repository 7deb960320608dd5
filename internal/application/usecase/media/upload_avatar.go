package media

import (
	"context"
	"errors"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

const avatarFolder = "avatars"

var tracer = otel.Tracer("media_usecase")

type UploadAvatarUseCase struct {
	userRepo user.Repository
	uploader service.Uploader
	events   service.EventPublisher
	logger   logger.Logger
}

func NewUploadAvatarUseCase(
	r user.Repository,
	u service.Uploader,
	events service.EventPublisher,
	log logger.Logger,
) *UploadAvatarUseCase {
	return &UploadAvatarUseCase{userRepo: r, uploader: u, events: events, logger: log}
}

type UploadAvatarInput struct {
	UserID string
	File   io.Reader
}

type UploadAvatarOutput struct {
	AvatarURL string
}

// Execute replaces the user's avatar. The image is stored under a stable
// public id so a new upload overwrites the previous one.
func (uc *UploadAvatarUseCase) Execute(ctx context.Context, input UploadAvatarInput) (*UploadAvatarOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadAvatar")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID))

	if _, err := uc.userRepo.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("User not found", input.UserID)
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("find user", err)
	}

	url, err := uc.uploader.Upload(ctx, input.File, avatarFolder, input.UserID)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to upload avatar", err, zap.String("user_id", input.UserID))
		return nil, apperror.NewInternal("failed to upload avatar", err)
	}

	if err := uc.userRepo.UpdateAvatar(ctx, input.UserID, url); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to store avatar url", err, zap.String("user_id", input.UserID))
		go func() {
			if err := uc.uploader.Delete(context.Background(), avatarFolder+"/"+input.UserID); err != nil {
				uc.logger.Warn("Failed to clean up orphaned avatar", zap.String("user_id", input.UserID), zap.Error(err))
			}
		}()
		return nil, apperror.NewInternal("update avatar", err)
	}

	go func() {
		evt := service.NewEvent(service.TopicUserEvents, service.EventAvatarChanged, input.UserID, url)
		if err := uc.events.Publish(context.Background(), evt); err != nil {
			uc.logger.Warn("Failed to publish avatar event", zap.String("user_id", input.UserID), zap.Error(err))
		}
	}()

	return &UploadAvatarOutput{AvatarURL: url}, nil
}
