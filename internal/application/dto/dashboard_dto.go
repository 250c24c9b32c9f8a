package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthFigureDTO cifras de un mes (o del acumulado a la fecha) en moneda base.
type MonthFigureDTO struct {
	Month               string          `json:"month,omitempty"` // "2026-01"
	Label               string          `json:"label"`           // "Enero 2026"
	Revenue             decimal.Decimal `json:"revenue"`
	COGS                decimal.Decimal `json:"cogs"`
	Commission          decimal.Decimal `json:"commission"`
	OperationalExpenses decimal.Decimal `json:"operational_expenses"`
	NetProfit           decimal.Decimal `json:"net_profit"`
}

// ReceivablesDTO cartera pendiente.
type ReceivablesDTO struct {
	Outstanding  decimal.Decimal `json:"outstanding"`
	Overdue      decimal.Decimal `json:"overdue"`
	OverdueCount int             `json:"overdue_count"`
	OpenCount    int             `json:"open_count"`
}

// PipelineDTO versiones vigentes por estado.
type PipelineDTO struct {
	Draft         int             `json:"draft"`
	Sent          int             `json:"sent"`
	Approved      int             `json:"approved"`
	Rejected      int             `json:"rejected"`
	ApprovedValue decimal.Decimal `json:"approved_value"`
}

// SalespersonRankDTO fila del ranking de vendedores (cotizaciones aprobadas vigentes).
type SalespersonRankDTO struct {
	SalespersonID      string          `json:"salesperson_id"`
	Name               string          `json:"name"`
	ApprovedQuotes     int             `json:"approved_quotes"`
	ApprovedTotal      decimal.Decimal `json:"approved_total"`
	Commission         decimal.Decimal `json:"commission"`
	Visits             int             `json:"visits"`
	MonthlyVisitTarget int             `json:"monthly_visit_target"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// El ingreso es por caja (facturas); COGS y comisión se devengan desde cotizaciones aprobadas.
type DashboardSummaryDTO struct {
	BaseCurrency string               `json:"base_currency"`
	Chart        []MonthFigureDTO     `json:"chart"`
	ToDate       MonthFigureDTO       `json:"to_date"`
	Receivables  ReceivablesDTO       `json:"receivables"`
	Pipeline     PipelineDTO          `json:"pipeline"`
	Leaderboard  []SalespersonRankDTO `json:"leaderboard"`
	DateLabel    string               `json:"date_label"`
	GeneratedAt  time.Time            `json:"generated_at"`
}
