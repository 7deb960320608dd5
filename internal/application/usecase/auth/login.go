package auth

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/auth"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

const msgInvalidCredentials = "Invalid credentials"

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenOutput struct {
	Token string
}

var tracer = otel.Tracer("auth_usecase")

// Execute answers an unknown email and a wrong password the same way.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*TokenOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperror.NewValidation(msgInvalidCredentials, "")
	}
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to load user for login", err)
		return nil, apperror.NewInternal("find user by email", err)
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		return nil, apperror.NewValidation(msgInvalidCredentials, "")
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID))
	return &TokenOutput{Token: token}, nil
}
