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
	_ repository.ClientRepository = (*ClientRepo)(nil)
	_ repository.LeadRepository   = (*LeadRepo)(nil)
)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, company_name, tax_id, email, phone, address, COALESCE(lead_id, ''), created_at, updated_at`

// Create persiste un cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, company_name, tax_id, email, phone, address, lead_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.CompanyName, c.TaxID, c.Email, c.Phone, c.Address, nullIfEmpty(c.LeadID),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cliente %s: %w", c.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, company_name = $3, tax_id = $4, email = $5, phone = $6, address = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.CompanyName, c.TaxID, c.Email, c.Phone, c.Address, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cliente %s: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene un cliente; nil, nil si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.CompanyName, &c.TaxID, &c.Email, &c.Phone, &c.Address, &c.LeadID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// List clientes, más recientes primero.
func (r *ClientRepo) List(ctx context.Context, p repository.Page) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC, id`+pageClause(p))
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CompanyName, &c.TaxID, &c.Email, &c.Phone, &c.Address, &c.LeadID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// LeadRepo implementación de LeadRepository (usable con pool o tx).
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadColumns = `id, name, company_name, email, phone, source, COALESCE(salesperson_id, ''), status,
	COALESCE(converted_client_id, ''), visits, created_at, updated_at`

// Create persiste un lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, company_name, email, phone, source, salesperson_id, status,
			converted_client_id, visits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Name, l.CompanyName, l.Email, l.Phone, l.Source, nullIfEmpty(l.SalespersonID), l.Status,
		nullIfEmpty(l.ConvertedClientID), l.Visits, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lead %s: %w", l.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// Update actualiza un lead (incluye su conversión).
func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads
		SET name = $2, company_name = $3, email = $4, phone = $5, source = $6, salesperson_id = $7,
		    status = $8, converted_client_id = $9, visits = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.Name, l.CompanyName, l.Email, l.Phone, l.Source, nullIfEmpty(l.SalespersonID),
		l.Status, nullIfEmpty(l.ConvertedClientID), l.Visits, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lead %s: %w", l.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene un lead; nil, nil si no existe.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// List leads, más recientes primero.
func (r *LeadRepo) List(ctx context.Context, p repository.Page) ([]*entity.Lead, error) {
	rows, err := r.q.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, id`+pageClause(p))
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(&l.ID, &l.Name, &l.CompanyName, &l.Email, &l.Phone, &l.Source, &l.SalespersonID, &l.Status,
		&l.ConvertedClientID, &l.Visits, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
