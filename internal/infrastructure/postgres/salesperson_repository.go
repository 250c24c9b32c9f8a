package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var (
	_ repository.SalespersonRepository = (*SalespersonRepo)(nil)
	_ repository.CatalogRepository     = (*CatalogRepo)(nil)
)

// SalespersonRepo implementación de SalespersonRepository (usable con pool o tx).
type SalespersonRepo struct {
	q Querier
}

// NewSalespersonRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalespersonRepository(q Querier) *SalespersonRepo {
	return &SalespersonRepo{q: q}
}

const salespersonColumns = `id, name, email, phone, commission_rate, tiered_rates, monthly_visit_target, active, created_at, updated_at`

// Create persiste un vendedor. El email es único (sin distinguir mayúsculas).
func (r *SalespersonRepo) Create(ctx context.Context, s *entity.Salesperson) error {
	tiers, err := encodeTiers(s.TieredRates)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO salespeople (id, name, email, phone, commission_rate, tiered_rates, monthly_visit_target, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		s.ID, s.Name, s.Email, s.Phone, s.CommissionRate, tiers, s.MonthlyVisitTarget, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("vendedor con email %s: %w", s.Email, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert salesperson: %w", err)
	}
	return nil
}

// Update actualiza un vendedor.
func (r *SalespersonRepo) Update(ctx context.Context, s *entity.Salesperson) error {
	tiers, err := encodeTiers(s.TieredRates)
	if err != nil {
		return err
	}
	query := `
		UPDATE salespeople
		SET name = $2, email = $3, phone = $4, commission_rate = $5, tiered_rates = $6,
		    monthly_visit_target = $7, active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Email, s.Phone, s.CommissionRate, tiers, s.MonthlyVisitTarget, s.Active, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("vendedor con email %s: %w", s.Email, domain.ErrDuplicate)
		}
		return fmt.Errorf("update salesperson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendedor %s: %w", s.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene un vendedor; nil, nil si no existe.
func (r *SalespersonRepo) GetByID(ctx context.Context, id string) (*entity.Salesperson, error) {
	return r.getOne(ctx, `SELECT `+salespersonColumns+` FROM salespeople WHERE id = $1`, id)
}

// GetByEmail obtiene el vendedor con ese email (sin distinguir mayúsculas).
func (r *SalespersonRepo) GetByEmail(ctx context.Context, email string) (*entity.Salesperson, error) {
	return r.getOne(ctx, `SELECT `+salespersonColumns+` FROM salespeople WHERE lower(email) = lower($1)`, email)
}

func (r *SalespersonRepo) getOne(ctx context.Context, query, arg string) (*entity.Salesperson, error) {
	s, err := scanSalesperson(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get salesperson: %w", err)
	}
	return s, nil
}

// List vendedores, más recientes primero.
func (r *SalespersonRepo) List(ctx context.Context, p repository.Page) ([]*entity.Salesperson, error) {
	rows, err := r.q.Query(ctx, `SELECT `+salespersonColumns+` FROM salespeople ORDER BY created_at DESC, id`+pageClause(p))
	if err != nil {
		return nil, fmt.Errorf("list salespeople: %w", err)
	}
	defer rows.Close()
	var list []*entity.Salesperson
	for rows.Next() {
		s, err := scanSalesperson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salesperson: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSalesperson(row pgx.Row) (*entity.Salesperson, error) {
	var (
		s     entity.Salesperson
		tiers []byte
	)
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.CommissionRate, &tiers, &s.MonthlyVisitTarget,
		&s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.TieredRates, err = decodeTiers(tiers); err != nil {
		return nil, err
	}
	return &s, nil
}

// CatalogRepo implementación de CatalogRepository (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const catalogColumns = `id, name, description, unit_sale_price, unit_material_cost, unit_process_cost,
	billing_kind, minimum_contract_months, created_at, updated_at`

// Create persiste un servicio del catálogo.
func (r *CatalogRepo) Create(ctx context.Context, s *entity.ServiceCatalogItem) error {
	query := `
		INSERT INTO service_catalog (id, name, description, unit_sale_price, unit_material_cost, unit_process_cost,
			billing_kind, minimum_contract_months, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Description, s.UnitSalePrice, s.UnitMaterialCost, s.UnitProcessCost,
		s.BillingKind, s.MinimumContractMonths, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("servicio %s: %w", s.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert catalog item: %w", err)
	}
	return nil
}

// Update actualiza un servicio del catálogo.
func (r *CatalogRepo) Update(ctx context.Context, s *entity.ServiceCatalogItem) error {
	query := `
		UPDATE service_catalog
		SET name = $2, description = $3, unit_sale_price = $4, unit_material_cost = $5, unit_process_cost = $6,
		    billing_kind = $7, minimum_contract_months = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Description, s.UnitSalePrice, s.UnitMaterialCost, s.UnitProcessCost,
		s.BillingKind, s.MinimumContractMonths, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update catalog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("servicio %s: %w", s.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene un servicio; nil, nil si no existe.
func (r *CatalogRepo) GetByID(ctx context.Context, id string) (*entity.ServiceCatalogItem, error) {
	s, err := scanCatalogItem(r.q.QueryRow(ctx, `SELECT `+catalogColumns+` FROM service_catalog WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return s, nil
}

// List catálogo, más recientes primero.
func (r *CatalogRepo) List(ctx context.Context, p repository.Page) ([]*entity.ServiceCatalogItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+catalogColumns+` FROM service_catalog ORDER BY created_at DESC, id`+pageClause(p))
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceCatalogItem
	for rows.Next() {
		s, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanCatalogItem(row pgx.Row) (*entity.ServiceCatalogItem, error) {
	var s entity.ServiceCatalogItem
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.UnitSalePrice, &s.UnitMaterialCost, &s.UnitProcessCost,
		&s.BillingKind, &s.MinimumContractMonths, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
