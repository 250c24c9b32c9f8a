package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo ajustes de la organización (fila única id = 'default').
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Get retorna nil, nil si aún no hay ajustes guardados.
func (r *OrganizationRepo) Get(ctx context.Context) (*entity.Organization, error) {
	var (
		o        entity.Organization
		rates    []byte
		branding []byte
	)
	err := r.q.QueryRow(ctx,
		`SELECT id, name, base_currency, rates, branding, updated_at FROM organization WHERE id = $1`,
		entity.DefaultOrganizationID,
	).Scan(&o.ID, &o.Name, &o.BaseCurrency, &rates, &branding, &o.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	o.Rates = map[string]decimal.Decimal{}
	if err := unmarshalNullable(rates, &o.Rates); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	var b brandingJSON
	if err := unmarshalNullable(branding, &b); err != nil {
		return nil, fmt.Errorf("decode branding: %w", err)
	}
	o.Branding = entity.Branding(b)
	return &o, nil
}

// Save inserta o reemplaza los ajustes.
func (r *OrganizationRepo) Save(ctx context.Context, o *entity.Organization) error {
	rates, err := json.Marshal(o.RateTable())
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}
	branding, err := json.Marshal(brandingJSON(o.Branding))
	if err != nil {
		return fmt.Errorf("encode branding: %w", err)
	}
	query := `
		INSERT INTO organization (id, name, base_currency, rates, branding, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, base_currency = EXCLUDED.base_currency, rates = EXCLUDED.rates,
		    branding = EXCLUDED.branding, updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query, entity.DefaultOrganizationID, o.Name, o.BaseCurrency, rates, branding, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save organization: %w", err)
	}
	return nil
}
