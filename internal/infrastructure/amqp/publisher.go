// Package amqp publica los eventos de dominio en un exchange topic de RabbitMQ.
// La clave de enrutamiento es el tipo de evento (ej. "quote.approved").
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Cotiza-api/internal/application/ports"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

const publishTimeout = 5 * time.Second

// Publisher implementa ports.EventPublisher sobre una conexión AMQP.
type Publisher struct {
	conn     *amqp091.Connection
	mu       sync.Mutex // un canal AMQP no admite publicaciones concurrentes
	channel  *amqp091.Channel
	exchange string
	log      *logger.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher conecta, abre un canal y declara el exchange (topic, durable).
func NewPublisher(url, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp: conectar: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp: abrir canal: %w", err)
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp: declarar exchange %s: %w", exchange, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{conn: conn, channel: channel, exchange: exchange, log: log.WithComponent("amqp")}, nil
}

// Publish envía el evento como JSON persistente.
func (p *Publisher) Publish(ctx context.Context, ev ports.Event) error {
	msg, err := NewMessage(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, ev.Type, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("amqp: publicar %s: %w", ev.Type, err)
	}
	p.log.Debug().Str("event", ev.Type).Str("aggregate_id", ev.AggregateID).Msg("evento publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NewMessage arma el mensaje AMQP de un evento.
func NewMessage(ev ports.Event) (amqp091.Publishing, error) {
	if ev.Type == "" {
		return amqp091.Publishing{}, fmt.Errorf("amqp: evento sin tipo")
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("amqp: serializar evento: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	}, nil
}

// Connect devuelve un Publisher cuando url no está vacía; si no, un publicador noop.
// El llamador debe invocar la función de cierre retornada.
func Connect(url, exchange string, log *logger.Logger) (ports.EventPublisher, func() error, error) {
	if url == "" {
		return ports.NopPublisher{}, func() error { return nil }, nil
	}
	p, err := NewPublisher(url, exchange, log)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
