package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountKind indica si un ajuste (descuento, anticipo) es un monto fijo o un porcentaje.
type AmountKind string

const (
	AmountFixed      AmountKind = "fixed"
	AmountPercentage AmountKind = "percentage"
)

// Adjustment monto o porcentaje etiquetado.
type Adjustment struct {
	Value decimal.Decimal
	Kind  AmountKind
}

// Estados de una versión de cotización.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusApproved = "approved"
	QuoteStatusRejected = "rejected"
)

var quoteTransitions = map[string][]string{
	QuoteStatusDraft: {QuoteStatusSent, QuoteStatusApproved, QuoteStatusRejected},
	QuoteStatusSent:  {QuoteStatusApproved, QuoteStatusRejected},
}

// QuoteLineItem línea de cotización. Inmutable una vez aprobada la cotización.
type QuoteLineItem struct {
	ServiceID        string
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	UnitCost         decimal.Decimal
	BillingFrequency Frequency
	ContractMonths   int // ignorado en one_time
	DownPayment      Adjustment
}

// Quote versión de una cotización. Los campos derivados (Subtotal … RecurringAmount) son
// siempre función de Items, Discount y la tasa de comisión; nunca se editan a mano.
type Quote struct {
	ID            string
	Version       int
	ParentQuoteID string // raíz de la familia; vacío en la versión 1
	ClientID      string
	LeadID        string
	SalespersonID string
	Date          time.Time
	Status        string
	Items         []QuoteLineItem
	Discount      Adjustment
	Currency      string
	ExchangeRate  decimal.Decimal
	Notes         string

	Subtotal              decimal.Decimal
	TotalCOGS             decimal.Decimal
	TotalAmount           decimal.Decimal
	CommissionAmount      decimal.Decimal
	AppliedCommissionRate decimal.Decimal
	NetProfit             decimal.Decimal
	DueAtSigning          decimal.Decimal
	RecurringAmount       decimal.Decimal

	ConvertedInvoiceID string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RootID id de la familia de versiones a la que pertenece.
func (q Quote) RootID() string {
	if q.ParentQuoteID != "" {
		return q.ParentQuoteID
	}
	return q.ID
}

// CanTransition informa si el estado puede pasar a next.
func (q Quote) CanTransition(next string) bool {
	for _, s := range quoteTransitions[q.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// IsEditable solo los borradores admiten cambios de líneas/descuento en sitio.
func (q Quote) IsEditable() bool {
	return q.Status == QuoteStatusDraft
}

// HasRecurringLines informa si alguna línea se cobra periódicamente.
func (q Quote) HasRecurringLines() bool {
	for _, it := range q.Items {
		if it.BillingFrequency.IsRecurring() {
			return true
		}
	}
	return false
}

// RecurringFrequency frecuencia de la primera línea recurrente (la factura recurrente usa una sola).
func (q Quote) RecurringFrequency() Frequency {
	for _, it := range q.Items {
		if it.BillingFrequency.IsRecurring() {
			return it.BillingFrequency
		}
	}
	return FrequencyOneTime
}

// RecurringFrequencies frecuencias recurrentes distintas, en el orden de las líneas.
func (q Quote) RecurringFrequencies() []Frequency {
	var out []Frequency
	seen := make(map[Frequency]bool)
	for _, it := range q.Items {
		if it.BillingFrequency.IsRecurring() && !seen[it.BillingFrequency] {
			seen[it.BillingFrequency] = true
			out = append(out, it.BillingFrequency)
		}
	}
	return out
}

// Clone copia profunda (las líneas no se comparten entre versiones).
func (q Quote) Clone() Quote {
	c := q
	c.Items = append([]QuoteLineItem(nil), q.Items...)
	return c
}
