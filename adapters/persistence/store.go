package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/adapters/persistence/memory"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type Repositories struct {
	Users    user.Repository
	Profiles profile.Repository
	Posts    post.Repository
}

// Open connects the backend named by db.driver. The returned func
// releases the connection.
func Open(ctx context.Context, cfg config.Config, log logger.Logger) (*Repositories, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverMongo, "":
		client, db, err := NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("Failed to disconnect MongoDB", zap.Error(err))
			}
		}
		return &Repositories{
			Users:    NewMongoUserRepo(db, log),
			Profiles: NewMongoProfileRepo(db, log),
			Posts:    NewMongoPostRepo(db, log),
		}, closeFn, nil

	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return &Repositories{
			Users:    NewPostgresUserRepo(pool, log),
			Profiles: NewPostgresProfileRepo(pool, log),
			Posts:    NewPostgresPostRepo(pool, log),
		}, pool.Close, nil

	case config.DriverMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &Repositories{
			Users:    store.Users(),
			Profiles: store.Profiles(),
			Posts:    store.Posts(),
		}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
}
