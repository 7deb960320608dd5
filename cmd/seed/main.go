package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/adapters/event"
	"github.com/kartikeya-dewal/devConnector/adapters/persistence"
	authUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/auth"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/auth"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

// seed registers the user described by SEED_NAME, SEED_EMAIL and
// SEED_PASSWORD, or logs in when the email is already taken, and prints
// a token for manual API calls.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.Log.Level)
	defer func() { _ = appLogger.Sync() }()

	name := os.Getenv("SEED_NAME")
	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		appLogger.Fatal("SEED_EMAIL and SEED_PASSWORD are required", nil)
	}
	if name == "" {
		name = "Seed User"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos, closeStore, err := persistence.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open storage", err, zap.String("driver", cfg.DB.Driver))
	}
	defer closeStore()

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	var token *authUC.TokenOutput
	_, err = repos.Users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		register := authUC.NewRegisterUseCase(repos.Users, jwtSvc, event.NewLogPublisher(appLogger), appLogger)
		token, err = register.Execute(ctx, authUC.RegisterInput{Name: name, Email: email, Password: password})
		if err == nil {
			appLogger.Info("Seed user created", zap.String("email", email))
		}
	case err == nil:
		login := authUC.NewLoginUseCase(repos.Users, jwtSvc, appLogger)
		token, err = login.Execute(ctx, authUC.LoginInput{Email: email, Password: password})
		if err == nil {
			appLogger.Info("Seed user already exists", zap.String("email", email))
		}
	}
	if err != nil {
		appLogger.Fatal("Cannot seed user", err, zap.String("email", email))
	}

	fmt.Println(token.Token)
}
