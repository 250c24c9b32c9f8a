package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteLineRequest línea de cotización. Con service_id, precio y costo vacíos se toman del catálogo.
type QuoteLineRequest struct {
	ServiceID        string           `json:"service_id,omitempty"`
	Description      string           `json:"description"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	BillingFrequency string           `json:"billing_frequency"`
	ContractMonths   int              `json:"contract_months"`
	DownPayment      AdjustmentDTO    `json:"down_payment"`
}

// QuoteDraftRequest body de POST /api/quotes, PUT /api/quotes/:id y POST /api/quotes/:id/revisions.
type QuoteDraftRequest struct {
	ClientID      string             `json:"client_id,omitempty"`
	LeadID        string             `json:"lead_id,omitempty"`
	SalespersonID string             `json:"salesperson_id,omitempty"`
	Date          *time.Time         `json:"date,omitempty"`
	Items         []QuoteLineRequest `json:"items"`
	Discount      AdjustmentDTO      `json:"discount"`
	Currency      string             `json:"currency,omitempty"`
	Notes         string             `json:"notes,omitempty"`
}

// QuoteTransitionRequest body de POST /api/quotes/:id/transition.
type QuoteTransitionRequest struct {
	Status string `json:"status"` // sent | approved | rejected
}

// QuoteCalculationRequest body de POST /api/quotes/calculate (vista previa sin guardar).
type QuoteCalculationRequest struct {
	Items          []QuoteLineRequest `json:"items"`
	Discount       AdjustmentDTO      `json:"discount"`
	SalespersonID  string             `json:"salesperson_id,omitempty"`
	CommissionRate *decimal.Decimal   `json:"commission_rate,omitempty"`
	Currency       string             `json:"currency,omitempty"`
}

// QuoteListRequest filtros de GET /api/quotes.
type QuoteListRequest struct {
	Status        string `query:"status"`
	ClientID      string `query:"client_id"`
	SalespersonID string `query:"salesperson_id"`
	PageRequest
}

// QuoteLineResponse línea con sus cifras derivadas.
type QuoteLineResponse struct {
	ServiceID        string          `json:"service_id,omitempty"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	BillingFrequency string          `json:"billing_frequency"`
	ContractMonths   int             `json:"contract_months"`
	DownPayment      AdjustmentDTO   `json:"down_payment"`
	GrossValue       decimal.Decimal `json:"gross_value"`
	COGS             decimal.Decimal `json:"cogs"`
	DueAtSigning     decimal.Decimal `json:"due_at_signing"`
	Recurring        decimal.Decimal `json:"recurring"`
	ROI              decimal.Decimal `json:"roi"`
}

// QuoteTotalsResponse totales de una cotización (guardada o vista previa).
type QuoteTotalsResponse struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	TotalCOGS             decimal.Decimal `json:"total_cogs"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	AppliedCommissionRate decimal.Decimal `json:"applied_commission_rate"`
	CommissionAmount      decimal.Decimal `json:"commission_amount"`
	NetProfit             decimal.Decimal `json:"net_profit"`
	MarginPercent         decimal.Decimal `json:"margin_percent"`
	DueAtSigning          decimal.Decimal `json:"due_at_signing"`
	RecurringAmount       decimal.Decimal `json:"recurring_amount"`
	TotalLabel            string          `json:"total_label"`
}

// QuoteResponse versión de cotización.
type QuoteResponse struct {
	ID                 string              `json:"id"`
	RootID             string              `json:"root_id"`
	Version            int                 `json:"version"`
	ParentQuoteID      string              `json:"parent_quote_id,omitempty"`
	ClientID           string              `json:"client_id,omitempty"`
	LeadID             string              `json:"lead_id,omitempty"`
	SalespersonID      string              `json:"salesperson_id,omitempty"`
	Date               time.Time           `json:"date"`
	Status             string              `json:"status"`
	Items              []QuoteLineResponse `json:"items"`
	Discount           AdjustmentDTO       `json:"discount"`
	Currency           string              `json:"currency"`
	ExchangeRate       decimal.Decimal     `json:"exchange_rate"`
	Notes              string              `json:"notes,omitempty"`
	Totals             QuoteTotalsResponse `json:"totals"`
	ConvertedInvoiceID string              `json:"converted_invoice_id,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// QuoteFamilyResponse todas las versiones de un negocio.
type QuoteFamilyResponse struct {
	RootID   string          `json:"root_id"`
	LiveID   string          `json:"live_id"`
	Versions []QuoteResponse `json:"versions"`
}

// QuoteCalculationResponse resultado de la vista previa.
type QuoteCalculationResponse struct {
	Items  []QuoteLineResponse `json:"items"`
	Totals QuoteTotalsResponse `json:"totals"`
}
