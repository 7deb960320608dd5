package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

func TestOpenMemory(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = config.DriverMemory

	repos, closeFn, err := Open(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer closeFn()

	u := &user.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	got, err := repos.Users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestOpenUnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = "cassandra"

	_, _, err := Open(context.Background(), cfg, logger.NewNop())
	assert.ErrorContains(t, err, "unknown db driver")
}
