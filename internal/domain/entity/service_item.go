package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de facturación de un servicio del catálogo.
const (
	BillingKindOneTime   = "one_time"
	BillingKindRecurring = "recurring"
)

// ServiceCatalogItem servicio vendible con su precio y costos unitarios.
type ServiceCatalogItem struct {
	ID                    string
	Name                  string
	Description           string
	UnitSalePrice         decimal.Decimal
	UnitMaterialCost      decimal.Decimal
	UnitProcessCost       decimal.Decimal
	BillingKind           string // one_time, recurring
	MinimumContractMonths int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TotalUnitCost costo unitario total = material + proceso.
func (s ServiceCatalogItem) TotalUnitCost() decimal.Decimal {
	return s.UnitMaterialCost.Add(s.UnitProcessCost)
}
