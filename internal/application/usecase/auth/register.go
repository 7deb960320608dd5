package auth

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/auth"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

const msgUserExists = "User already exists"

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	events   service.EventPublisher
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, events service.EventPublisher, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{userRepo: repo, jwtSvc: jwtSvc, events: events, logger: log}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*TokenOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	email := strings.TrimSpace(input.Email)
	if _, err := uc.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.NewValidation(msgUserExists, "email")
	} else if !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		uc.logger.Error("Failed to check existing user", err)
		return nil, apperror.NewInternal("find user by email", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("hash password", err)
	}

	u := &user.User{
		Name:         input.Name,
		Email:        email,
		Avatar:       user.GravatarURL(email),
		PasswordHash: hash,
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperror.NewValidation(msgUserExists, "email")
		}
		span.RecordError(err)
		uc.logger.Error("Failed to create user", err)
		return nil, apperror.NewInternal("create user", err)
	}
	span.SetAttributes(attribute.String("user_id", u.ID))

	go func() {
		evt := service.NewEvent(service.TopicUserEvents, service.EventUserRegistered, u.ID, u.ID)
		if err := uc.events.Publish(context.Background(), evt); err != nil {
			uc.logger.Warn("Failed to publish user event", zap.String("user_id", u.ID), zap.Error(err))
		}
	}()

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID))
		return nil, apperror.NewInternal("failed to generate token", err)
	}
	return &TokenOutput{Token: token}, nil
}
