package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cobro de una factura (derivados del historial de pagos frente al total).
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// PaymentRecord pago registrado. El historial es append-only.
type PaymentRecord struct {
	ID        string
	Amount    decimal.Decimal
	Date      time.Time
	Method    string
	Reference string
}

// InvoiceSchedule descriptor de una factura recurrente (plantilla).
type InvoiceSchedule struct {
	Frequency     Frequency
	EndDate       *time.Time
	LastGenerated time.Time
	CycleAmount   decimal.Decimal
}

// Invoice factura creada al convertir una cotización aprobada, o generada desde una plantilla recurrente.
type Invoice struct {
	ID             string
	Number         string
	QuoteID        string
	ClientID       string
	TemplateID     string // plantilla recurrente de origen, si aplica
	Date           time.Time
	DueDate        time.Time
	TotalAmount    decimal.Decimal
	Currency       string
	ExchangeRate   decimal.Decimal
	PaymentHistory []PaymentRecord
	Recurring      bool
	Schedule       *InvoiceSchedule
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AmountPaid suma del historial de pagos.
func (i Invoice) AmountPaid() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range i.PaymentHistory {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Balance saldo pendiente (nunca negativo).
func (i Invoice) Balance() decimal.Decimal {
	b := i.TotalAmount.Sub(i.AmountPaid())
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// Status deriva Unpaid/Partial/Paid del historial de pagos.
func (i Invoice) Status() string {
	paid := i.AmountPaid()
	switch {
	case paid.GreaterThanOrEqual(i.TotalAmount) && i.TotalAmount.IsPositive():
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	case i.TotalAmount.IsZero() && len(i.PaymentHistory) == 0:
		return PaymentStatusPaid
	default:
		return PaymentStatusUnpaid
	}
}

// Clone copia profunda.
func (i Invoice) Clone() Invoice {
	c := i
	c.PaymentHistory = append([]PaymentRecord(nil), i.PaymentHistory...)
	if i.Schedule != nil {
		s := *i.Schedule
		if i.Schedule.EndDate != nil {
			end := *i.Schedule.EndDate
			s.EndDate = &end
		}
		c.Schedule = &s
	}
	return c
}
