package ports

import (
	"context"
	"time"
)

// Tipos de evento de dominio publicados hacia otros sistemas.
const (
	EventQuoteApproved          = "quote.approved"
	EventInvoiceCreated         = "invoice.created"
	EventInvoicePaymentRecorded = "invoice.payment_recorded"
	EventRecurringGenerated     = "recurring.generated"
)

// Event hecho de dominio ya confirmado en la base de datos.
type Event struct {
	Type        string         `json:"type"`
	AggregateID string         `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// EventPublisher puerto de salida para eventos de dominio.
// La publicación es best-effort: un fallo se registra en el log y no revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher descarta los eventos (sin broker configurado, pruebas).
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Clock fuente de la hora actual; los casos de uso la reciben para poder fijarla en pruebas.
type Clock func() time.Time
