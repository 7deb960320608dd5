package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(config.Config{}, logger.NewNop(), "devconnector-test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProviderWithEndpoint(t *testing.T) {
	var cfg config.Config
	cfg.Jaeger.OTLPEndpoint = "localhost:4317"

	tp, err := NewTracerProvider(cfg, logger.NewNop(), "devconnector-test")
	require.NoError(t, err)
	assert.NotNil(t, tp)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
