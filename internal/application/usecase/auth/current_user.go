package auth

import (
	"context"
	"errors"

	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type CurrentUserUseCase struct {
	userRepo user.Repository
	logger   logger.Logger
}

func NewCurrentUserUseCase(repo user.Repository, log logger.Logger) *CurrentUserUseCase {
	return &CurrentUserUseCase{userRepo: repo, logger: log}
}

// Execute loads the user behind a valid token. A token for a deleted
// account is reported as not found.
func (uc *CurrentUserUseCase) Execute(ctx context.Context, userID string) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "CurrentUser")
	defer span.End()

	u, err := uc.userRepo.FindByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperror.NewNotFound("User not found", userID)
	}
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to load current user", err)
		return nil, apperror.NewInternal("find user by id", err)
	}
	return u, nil
}
