package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/adapters/event"
	"github.com/kartikeya-dewal/devConnector/adapters/github"
	httpAdapter "github.com/kartikeya-dewal/devConnector/adapters/http"
	"github.com/kartikeya-dewal/devConnector/adapters/lock"
	"github.com/kartikeya-dewal/devConnector/adapters/media_storage"
	"github.com/kartikeya-dewal/devConnector/adapters/persistence"
	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	authUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/auth"
	githubUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/github"
	mediaUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/media"
	postUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/post"
	profileUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/profile"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/pkg/auth"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
	"github.com/kartikeya-dewal/devConnector/pkg/tracing"
)

const serviceName = "devconnector-api"

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.Log.Level)
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Starting devConnector API server...", zap.String("env", cfg.App.Env))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.Setup(cfg, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}

	ctx := context.Background()
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	// Storage
	repos, closeStore, err := persistence.Open(connectCtx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open storage", err, zap.String("driver", cfg.DB.Driver))
	}
	defer closeStore()

	// Profile write lock
	var redisClient *redis.Client
	if cfg.Profile.LockMode == lock.ModeRedis {
		redisClient, err = persistence.NewRedisClient(connectCtx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
	}
	locker, err := lock.New(cfg.Profile.LockMode, redisClient)
	if err != nil {
		appLogger.Fatal("Cannot init profile lock", err)
	}
	policy, err := profile.ParseRemovalPolicy(cfg.Profile.RemovalPolicy)
	if err != nil {
		appLogger.Fatal("Invalid profile removal policy", err)
	}
	appLogger.Info("Profile writes configured",
		zap.String("lock_mode", cfg.Profile.LockMode),
		zap.String("removal_policy", policy.String()))

	// Events
	var events service.EventPublisher = event.NewLogPublisher(appLogger)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		events = kafkaClient
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	githubClient := github.NewClient(cfg, appLogger)

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(repos.Users, jwtSvc, events, appLogger)
	loginUseCase := authUC.NewLoginUseCase(repos.Users, jwtSvc, appLogger)
	currentUserUseCase := authUC.NewCurrentUserUseCase(repos.Users, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(repos.Profiles, repos.Users, locker, events, policy, appLogger)
	fetchReposUseCase := githubUC.NewFetchReposUseCase(githubClient, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:    httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, currentUserUseCase),
		Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		GitHub:  httpAdapter.NewGitHubHandler(fetchReposUseCase),
		Post: httpAdapter.NewPostHandler(
			postUC.NewCreatePostUseCase(repos.Posts, repos.Users, events, appLogger),
			postUC.NewListPostsUseCase(repos.Posts, appLogger),
			postUC.NewGetPostUseCase(repos.Posts, appLogger),
			postUC.NewDeletePostUseCase(repos.Posts, events, appLogger),
			postUC.NewLikePostUseCase(repos.Posts, locker, appLogger),
			postUC.NewCommentPostUseCase(repos.Posts, repos.Users, locker, appLogger),
		),
	}

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Avatar upload disabled", zap.Error(err))
	} else {
		uploadAvatarUseCase := mediaUC.NewUploadAvatarUseCase(repos.Users, uploader, events, appLogger)
		handlers.Media = httpAdapter.NewMediaHandler(uploadAvatarUseCase, appLogger)
	}

	router := httpAdapter.NewRouter(handlers, jwtSvc, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLogger.Warn("Failed to flush traces", zap.Error(err))
	}
}
