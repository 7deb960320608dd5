package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type fakeReader struct {
	msgs      []kafka.Message
	committed []kafka.Message
}

func (f *fakeReader) FetchMessage(_ context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error { return nil }

func eventMessage(t *testing.T, evt service.DomainEvent, offset int64) kafka.Message {
	t.Helper()
	value, err := json.Marshal(evt)
	require.NoError(t, err)
	return kafka.Message{Topic: evt.Topic, Value: value, Offset: offset}
}

func TestDecodeEventRestoresTopic(t *testing.T) {
	evt := service.NewEvent(service.TopicUserEvents, service.EventUserDeleted, "u1", "")
	got, err := DecodeEvent(eventMessage(t, evt, 0))
	require.NoError(t, err)
	assert.Equal(t, service.TopicUserEvents, got.Topic)
	assert.Equal(t, service.EventUserDeleted, got.Type)
	assert.Equal(t, "u1", got.UserID)

	_, err = DecodeEvent(kafka.Message{Topic: "x", Value: []byte("{")})
	assert.Error(t, err)
	_, err = DecodeEvent(kafka.Message{Topic: "x", Value: []byte("{}")})
	assert.Error(t, err)
}

func TestRunCommitsHandledAndMalformed(t *testing.T) {
	ok := service.NewEvent(service.TopicProfileEvents, service.EventProfileUpserted, "u1", "p1")
	failing := service.NewEvent(service.TopicPostEvents, service.EventPostCreated, "u2", "post1")
	reader := &fakeReader{msgs: []kafka.Message{
		eventMessage(t, ok, 1),
		{Topic: service.TopicUserEvents, Value: []byte("not json"), Offset: 2},
		eventMessage(t, failing, 3),
	}}
	c := &KafkaConsumer{reader: reader, logger: logger.NewNop()}

	var handled []service.EventType
	err := c.Run(context.Background(), func(_ context.Context, evt service.DomainEvent) error {
		handled = append(handled, evt.Type)
		if evt.Type == service.EventPostCreated {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []service.EventType{service.EventProfileUpserted, service.EventPostCreated}, handled)
	require.Len(t, reader.committed, 2)
	assert.Equal(t, int64(1), reader.committed[0].Offset)
	assert.Equal(t, int64(2), reader.committed[1].Offset)
}

func TestNewKafkaConsumerRequiresBrokers(t *testing.T) {
	_, err := NewKafkaConsumer(config.Config{}, "group", logger.NewNop())
	assert.Error(t, err)
}
