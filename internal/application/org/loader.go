// Package org resuelve los ajustes vigentes de la organización.
package org

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// Loader lee los ajustes guardados o, si aún no existen, los valores por defecto de configuración.
type Loader struct {
	repo         repository.OrganizationRepository
	baseCurrency string
}

// NewLoader construye el loader. baseCurrency es la moneda base usada mientras no haya ajustes guardados.
func NewLoader(repo repository.OrganizationRepository, baseCurrency string) *Loader {
	if baseCurrency == "" {
		baseCurrency = "USD"
	}
	return &Loader{repo: repo, baseCurrency: strings.ToUpper(baseCurrency)}
}

// Load retorna los ajustes vigentes. Nunca retorna nil sin error.
func (l *Loader) Load(ctx context.Context) (*entity.Organization, error) {
	o, err := l.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("org: obtener ajustes: %w", err)
	}
	if o == nil {
		o = l.Default()
	}
	if o.Rates == nil {
		o.Rates = map[string]decimal.Decimal{}
	}
	if _, ok := o.Rates[o.BaseCurrency]; !ok {
		o.Rates[o.BaseCurrency] = decimal.NewFromInt(1)
	}
	return o, nil
}

// Default ajustes iniciales: moneda base de configuración con tasa 1.
func (l *Loader) Default() *entity.Organization {
	return &entity.Organization{
		ID:           entity.DefaultOrganizationID,
		BaseCurrency: l.baseCurrency,
		Rates:        map[string]decimal.Decimal{l.baseCurrency: decimal.NewFromInt(1)},
	}
}

// Rates tabla de tasas de o como RateTable.
func Rates(o *entity.Organization) currency.RateTable {
	return currency.RateTable(o.RateTable())
}
