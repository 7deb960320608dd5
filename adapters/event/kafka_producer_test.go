package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishWritesKeyedJSON(t *testing.T) {
	w := &fakeWriter{}
	c := &KafkaProducerClient{
		writers: map[string]messageWriter{service.TopicProfileEvents: w},
		logger:  logger.NewNop(),
	}

	evt := service.NewEvent(service.TopicProfileEvents, service.EventExperienceAdded, "u1", "e1")
	require.NoError(t, c.Publish(context.Background(), evt))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "u1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "profile.experience_added", body["event_type"])
	assert.Equal(t, "e1", body["resource_id"])
	assert.NotContains(t, body, "Topic")

	c.Close()
	assert.True(t, w.closed)
}

func TestPublishErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	c := &KafkaProducerClient{
		writers: map[string]messageWriter{service.TopicPostEvents: w},
		logger:  logger.NewNop(),
	}

	err := c.Publish(context.Background(), service.NewEvent(service.TopicPostEvents, service.EventPostCreated, "u1", "p1"))
	assert.ErrorContains(t, err, "broker down")

	err = c.Publish(context.Background(), service.NewEvent("unknown.events", service.EventPostCreated, "u1", "p1"))
	assert.ErrorContains(t, err, "no kafka writer")
}

func TestNewKafkaProducerClientNeedsBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNop())
	assert.Error(t, err)

	cfg := config.Config{}
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	c, err := NewKafkaProducerClient(cfg, logger.NewNop())
	require.NoError(t, err)
	assert.Len(t, c.writers, 3)
}

func TestLogPublisherNeverFails(t *testing.T) {
	p := NewLogPublisher(logger.NewNop())
	assert.NoError(t, p.Publish(context.Background(), service.NewEvent(service.TopicUserEvents, service.EventUserRegistered, "u1", "u1")))
}
