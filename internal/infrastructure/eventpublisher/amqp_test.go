package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/pocketledger/internal/domain"
)

type fakeChannel struct {
	declared   string
	kind       string
	durable    bool
	declareErr error
	publishErr error
	exchange   string
	key        string
	msgs       []amqp091.Publishing
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	f.declared, f.kind, f.durable = name, kind, durable
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.exchange, f.key = exchange, key
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisherDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}

	_, err := NewAMQPPublisher(ch, "pocketledger.events")
	require.NoError(t, err)

	assert.Equal(t, "pocketledger.events", ch.declared)
	assert.Equal(t, amqp091.ExchangeTopic, ch.kind)
	assert.True(t, ch.durable)
}

func TestAMQPPublisherDeclareError(t *testing.T) {
	_, err := NewAMQPPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declare exchange")
}

func TestAMQPPublisherPublish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewAMQPPublisher(ch, "pocketledger.events")
	require.NoError(t, err)

	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	event := &domain.OutboxEvent{
		ID:            "01HX",
		AggregateID:   "u1",
		AggregateType: domain.AggregateTypeUser,
		EventType:     domain.EventTypeCurrencyMigrated,
		Payload:       map[string]any{"from_currency": "USD", "to_currency": "EUR"},
		CreatedAt:     created,
	}

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, ch.msgs, 1)

	msg := ch.msgs[0]
	assert.Equal(t, "pocketledger.events", ch.exchange)
	assert.Equal(t, domain.EventTypeCurrencyMigrated, ch.key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp091.Persistent, msg.DeliveryMode)
	assert.Equal(t, "01HX", msg.MessageId)
	assert.True(t, msg.Timestamp.Equal(created))

	var body envelope
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "u1", body.AggregateID)
	assert.Equal(t, "EUR", body.Payload["to_currency"])

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisherPublishError(t *testing.T) {
	p, err := NewAMQPPublisher(&fakeChannel{publishErr: amqp091.ErrClosed}, "x")
	require.NoError(t, err)

	err = p.Publish(context.Background(), &domain.OutboxEvent{ID: "e", EventType: "t"})
	require.ErrorIs(t, err, amqp091.ErrClosed)
}
