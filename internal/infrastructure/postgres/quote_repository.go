package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, version, COALESCE(parent_quote_id, ''), COALESCE(client_id, ''), COALESCE(lead_id, ''),
	COALESCE(salesperson_id, ''), date, status, items, discount_value, discount_kind, currency, exchange_rate, notes,
	subtotal, total_cogs, total_amount, commission_amount, applied_commission_rate, net_profit,
	due_at_signing, recurring_amount, COALESCE(converted_invoice_id, ''), created_at, updated_at`

// Create persiste una versión nueva. La unicidad (familia, versión) la garantiza un índice.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	items, err := encodeItems(q.Items)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO quotes (id, version, parent_quote_id, client_id, lead_id, salesperson_id, date, status, items,
			discount_value, discount_kind, currency, exchange_rate, notes,
			subtotal, total_cogs, total_amount, commission_amount, applied_commission_rate, net_profit,
			due_at_signing, recurring_amount, converted_invoice_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err = r.q.Exec(ctx, query,
		q.ID, q.Version, nullIfEmpty(q.ParentQuoteID), nullIfEmpty(q.ClientID), nullIfEmpty(q.LeadID),
		nullIfEmpty(q.SalespersonID), q.Date, q.Status, items,
		q.Discount.Value, string(q.Discount.Kind), q.Currency, q.ExchangeRate, q.Notes,
		q.Subtotal, q.TotalCOGS, q.TotalAmount, q.CommissionAmount, q.AppliedCommissionRate, q.NetProfit,
		q.DueAtSigning, q.RecurringAmount, nullIfEmpty(q.ConvertedInvoiceID), q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cotización %s v%d: %w", q.RootID(), q.Version, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// Update reemplaza la versión completa.
func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote) error {
	items, err := encodeItems(q.Items)
	if err != nil {
		return err
	}
	query := `
		UPDATE quotes
		SET client_id = $2, lead_id = $3, salesperson_id = $4, date = $5, status = $6, items = $7,
		    discount_value = $8, discount_kind = $9, currency = $10, exchange_rate = $11, notes = $12,
		    subtotal = $13, total_cogs = $14, total_amount = $15, commission_amount = $16,
		    applied_commission_rate = $17, net_profit = $18, due_at_signing = $19, recurring_amount = $20,
		    converted_invoice_id = $21, updated_at = $22
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		q.ID, nullIfEmpty(q.ClientID), nullIfEmpty(q.LeadID), nullIfEmpty(q.SalespersonID), q.Date, q.Status, items,
		q.Discount.Value, string(q.Discount.Kind), q.Currency, q.ExchangeRate, q.Notes,
		q.Subtotal, q.TotalCOGS, q.TotalAmount, q.CommissionAmount,
		q.AppliedCommissionRate, q.NetProfit, q.DueAtSigning, q.RecurringAmount,
		nullIfEmpty(q.ConvertedInvoiceID), q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cotización %s: %w", q.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene una versión por ID; nil, nil si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	row := r.q.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
	q, err := scanQuote(row)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// ListByRoot versiones de la familia ordenadas por versión.
func (r *QuoteRepo) ListByRoot(ctx context.Context, rootID string) ([]*entity.Quote, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = $1 OR parent_quote_id = $1 ORDER BY version`, rootID)
	if err != nil {
		return nil, fmt.Errorf("list quote family: %w", err)
	}
	return collectQuotes(rows)
}

// List cotizaciones filtradas, más recientes primero.
func (r *QuoteRepo) List(ctx context.Context, f repository.QuoteFilter) ([]*entity.Quote, error) {
	var (
		where []string
		args  []any
	)
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("status", f.Status)
	add("client_id", f.ClientID)
	add("salesperson_id", f.SalespersonID)

	query := `SELECT ` + quoteColumns + ` FROM quotes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id` + pageClause(f.Page)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return collectQuotes(rows)
}

func collectQuotes(rows pgx.Rows) ([]*entity.Quote, error) {
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var (
		q     entity.Quote
		items []byte
		kind  string
	)
	err := row.Scan(
		&q.ID, &q.Version, &q.ParentQuoteID, &q.ClientID, &q.LeadID,
		&q.SalespersonID, &q.Date, &q.Status, &items, &q.Discount.Value, &kind, &q.Currency, &q.ExchangeRate, &q.Notes,
		&q.Subtotal, &q.TotalCOGS, &q.TotalAmount, &q.CommissionAmount, &q.AppliedCommissionRate, &q.NetProfit,
		&q.DueAtSigning, &q.RecurringAmount, &q.ConvertedInvoiceID, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Discount.Kind = entity.AmountKind(kind)
	if q.Items, err = decodeItems(items); err != nil {
		return nil, err
	}
	return &q, nil
}
