package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultOrganizationID id del único registro de ajustes (la app sirve a una sola organización).
const DefaultOrganizationID = "default"

// Organization ajustes de la organización: moneda base, tabla de tasas y marca para documentos.
type Organization struct {
	ID           string
	Name         string
	BaseCurrency string
	// Rates unidades de cada moneda por 1 unidad de la moneda base. Editable por un administrador;
	// los documentos ya guardados conservan la tasa capturada al crearse.
	Rates     map[string]decimal.Decimal
	Branding  Branding
	UpdatedAt time.Time
}

// Branding datos de marca usados al renderizar cotizaciones y facturas.
type Branding struct {
	LetterheadURL string
	TaxID         string
	Address       string
	Phone         string
	Email         string
	BankDetails   string
	Terms         string
}

// RateTable copia defensiva de la tabla de tasas.
func (o Organization) RateTable() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(o.Rates))
	for k, v := range o.Rates {
		out[k] = v
	}
	return out
}
