package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

var topics = []string{
	service.TopicProfileEvents,
	service.TopicUserEvents,
	service.TopicPostEvents,
}

// messageWriter is the part of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducerClient writes domain events to one writer per topic, keyed
// by user id so a user's events stay ordered within a partition.
type KafkaProducerClient struct {
	writers map[string]messageWriter
	logger  logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writers := make(map[string]messageWriter, len(topics))
	for _, topic := range topics {
		writers[topic] = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
		}
	}

	log.Info("Initialize Kafka producers successfully", zap.Strings("brokers", brokers))
	return &KafkaProducerClient{writers: writers, logger: log}, nil
}

func (c *KafkaProducerClient) Publish(ctx context.Context, evt service.DomainEvent) error {
	w, ok := c.writers[evt.Topic]
	if !ok {
		return fmt.Errorf("no kafka writer for topic %q", evt.Topic)
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.UserID),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event to %s: %w", evt.Type, evt.Topic, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	for topic, w := range c.writers {
		if err := w.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.String("topic", topic), zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka producers")
}

// LogPublisher records events in the log instead of a broker. It stands in
// when no brokers are configured.
type LogPublisher struct {
	logger logger.Logger
}

func NewLogPublisher(log logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log.Named("events")}
}

func (p *LogPublisher) Publish(_ context.Context, evt service.DomainEvent) error {
	p.logger.Debug("Domain event",
		zap.String("topic", evt.Topic),
		zap.String("event_type", string(evt.Type)),
		zap.String("user_id", evt.UserID),
		zap.String("resource_id", evt.ResourceID))
	return nil
}
