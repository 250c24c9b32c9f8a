package amqp_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/ports"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/amqp"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	msg, err := amqp.NewMessage(ports.Event{
		Type: ports.EventInvoiceCreated, AggregateID: "inv1", OccurredAt: at,
		Payload: map[string]any{"number": "FAC-000001"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp091.Persistent, msg.DeliveryMode)
	assert.Equal(t, ports.EventInvoiceCreated, msg.Type)
	assert.Equal(t, at, msg.Timestamp)

	var ev ports.Event
	require.NoError(t, json.Unmarshal(msg.Body, &ev))
	assert.Equal(t, "inv1", ev.AggregateID)
	assert.Equal(t, "FAC-000001", ev.Payload["number"])
}

func TestNewMessage_SinTipo(t *testing.T) {
	_, err := amqp.NewMessage(ports.Event{AggregateID: "x"})
	assert.Error(t, err)
}

func TestConnect_SinURLEsNoop(t *testing.T) {
	pub, closeFn, err := amqp.Connect("", "cotiza.events", nil)
	require.NoError(t, err)
	assert.IsType(t, ports.NopPublisher{}, pub)
	assert.NoError(t, closeFn())
}
