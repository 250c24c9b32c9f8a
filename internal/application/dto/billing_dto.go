package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConvertQuoteRequest body de POST /api/quotes/:id/convert.
type ConvertQuoteRequest struct {
	DueDays          int        `json:"due_days,omitempty"` // por defecto 30
	RecurringEndDate *time.Time `json:"recurring_end_date,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// PaymentRequest body de POST /api/invoices/:id/payments.
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date,omitempty"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// InvoiceScheduleResponse descriptor de una factura recurrente.
type InvoiceScheduleResponse struct {
	Frequency     string          `json:"frequency"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	LastGenerated time.Time       `json:"last_generated"`
	CycleAmount   decimal.Decimal `json:"cycle_amount"`
}

// InvoiceResponse factura con estado de cobro derivado.
type InvoiceResponse struct {
	ID           string                   `json:"id"`
	Number       string                   `json:"number"`
	QuoteID      string                   `json:"quote_id,omitempty"`
	ClientID     string                   `json:"client_id,omitempty"`
	TemplateID   string                   `json:"template_id,omitempty"`
	Date         time.Time                `json:"date"`
	DueDate      time.Time                `json:"due_date"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	AmountPaid   decimal.Decimal          `json:"amount_paid"`
	Balance      decimal.Decimal          `json:"balance"`
	Status       string                   `json:"status"`
	Currency     string                   `json:"currency"`
	ExchangeRate decimal.Decimal          `json:"exchange_rate"`
	TotalLabel   string                   `json:"total_label"`
	Payments     []PaymentResponse        `json:"payments"`
	Recurring    bool                     `json:"recurring"`
	Schedule     *InvoiceScheduleResponse `json:"schedule,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// ExpenseRequest body de POST /api/expenses.
type ExpenseRequest struct {
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	Date            *time.Time      `json:"date,omitempty"`
	Recurring       bool            `json:"recurring"`
	Frequency       string          `json:"frequency,omitempty"`
	RemainingCycles *int            `json:"remaining_cycles,omitempty"`
}

// ExpenseResponse gasto operativo.
type ExpenseResponse struct {
	ID              string          `json:"id"`
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	TemplateID      string          `json:"template_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	Date            time.Time       `json:"date"`
	Recurring       bool            `json:"recurring"`
	Frequency       string          `json:"frequency,omitempty"`
	RemainingCycles *int            `json:"remaining_cycles,omitempty"`
	LastGenerated   *time.Time      `json:"last_generated,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// RecurringSyncResponse resultado de POST /api/recurring/sync.
type RecurringSyncResponse struct {
	InvoicesCreated    []string  `json:"invoices_created"`
	ExpensesCreated    []string  `json:"expenses_created"`
	TemplatesExhausted int       `json:"templates_exhausted"`
	RanAt              time.Time `json:"ran_at"`
}
