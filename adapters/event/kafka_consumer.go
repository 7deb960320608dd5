package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

const retryDelay = time.Second

// messageReader is the part of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded event. A returned error leaves the
// message uncommitted.
type Handler func(ctx context.Context, evt service.DomainEvent) error

type KafkaConsumer struct {
	reader messageReader
	logger logger.Logger
}

// NewKafkaConsumer joins groupID on every domain event topic.
func NewKafkaConsumer(cfg config.Config, groupID string, log logger.Logger) (*KafkaConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Kafka.Brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    10e3,
		MaxBytes:    10e6,
	})
	return &KafkaConsumer{reader: reader, logger: log.Named("consumer")}, nil
}

// DecodeEvent parses a message produced by KafkaProducerClient.
func DecodeEvent(msg kafka.Message) (service.DomainEvent, error) {
	var evt service.DomainEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return evt, fmt.Errorf("decode event from %s: %w", msg.Topic, err)
	}
	if evt.Type == "" {
		return evt, fmt.Errorf("event from %s has no event_type", msg.Topic)
	}
	evt.Topic = msg.Topic
	return evt, nil
}

// Run feeds messages to handle until ctx is done or the reader is closed.
// Undecodable messages are committed and skipped.
func (c *KafkaConsumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			if !sleep(ctx, retryDelay) {
				return nil
			}
			continue
		}

		evt, err := DecodeEvent(msg)
		if err != nil {
			c.logger.Warn("Skipping malformed event", zap.String("topic", msg.Topic), zap.Int64("offset", msg.Offset), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		if err := handle(ctx, evt); err != nil {
			c.logger.Error("Failed to handle event", err,
				zap.String("event_type", string(evt.Type)),
				zap.String("user_id", evt.UserID))
			continue
		}
		c.commit(ctx, msg)
	}
}

func (c *KafkaConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err, zap.String("topic", msg.Topic), zap.Int64("offset", msg.Offset))
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
