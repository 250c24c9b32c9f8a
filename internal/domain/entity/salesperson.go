package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionTier umbral de comisión escalonada: a partir de Threshold de ventas aplica Rate.
type CommissionTier struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// Salesperson vendedor con su configuración de comisión.
// TieredRates se guarda pero el cálculo de cotizaciones usa siempre CommissionRate.
type Salesperson struct {
	ID                 string
	Name               string
	Email              string
	Phone              string
	CommissionRate     decimal.Decimal // porcentaje, ej. 10 = 10%
	TieredRates        []CommissionTier
	MonthlyVisitTarget int
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
