package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, COALESCE(quote_id, ''), COALESCE(client_id, ''), COALESCE(template_id, ''),
	date, due_date, total_amount, currency, exchange_rate, payments, recurring, schedule, notes, created_at, updated_at`

// Create persiste la factura con su historial y descriptor recurrente.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	payments, err := encodePayments(inv.PaymentHistory)
	if err != nil {
		return err
	}
	schedule, err := encodeInvoiceSchedule(inv.Schedule)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (id, number, quote_id, client_id, template_id, date, due_date, total_amount,
			currency, exchange_rate, payments, recurring, schedule, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.Number, nullIfEmpty(inv.QuoteID), nullIfEmpty(inv.ClientID), nullIfEmpty(inv.TemplateID),
		inv.Date, inv.DueDate, inv.TotalAmount, inv.Currency, inv.ExchangeRate,
		payments, inv.Recurring, schedule, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintOf(err) == "invoices_quote_conversion_key" {
				return fmt.Errorf("factura para cotización %s: %w", inv.QuoteID, domain.ErrAlreadyConverted)
			}
			return fmt.Errorf("factura %s: %w", inv.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update reemplaza pagos, descriptor recurrente y notas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	payments, err := encodePayments(inv.PaymentHistory)
	if err != nil {
		return err
	}
	schedule, err := encodeInvoiceSchedule(inv.Schedule)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices
		SET payments = $2, recurring = $3, schedule = $4, notes = $5, due_date = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, payments, inv.Recurring, schedule, inv.Notes, inv.DueDate, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("factura %s: %w", inv.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene una factura por ID; nil, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByQuoteID factura de conversión de la cotización (las instancias recurrentes no cuentan).
func (r *InvoiceRepo) GetByQuoteID(ctx context.Context, quoteID string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE quote_id = $1 AND template_id IS NULL`, quoteID)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List facturas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, p repository.Page) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC, id`+pageClause(p))
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return collectInvoices(rows)
}

// ListRecurringTemplates plantillas recurrentes activas.
func (r *InvoiceRepo) ListRecurringTemplates(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE recurring ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring invoices: %w", err)
	}
	return collectInvoices(rows)
}

// NextNumber consecutivo a partir de la secuencia invoice_number_seq.
func (r *InvoiceRepo) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("FAC-%06d", n), nil
}

func collectInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv      entity.Invoice
		payments []byte
		schedule []byte
	)
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.QuoteID, &inv.ClientID, &inv.TemplateID,
		&inv.Date, &inv.DueDate, &inv.TotalAmount, &inv.Currency, &inv.ExchangeRate,
		&payments, &inv.Recurring, &schedule, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if inv.PaymentHistory, err = decodePayments(payments); err != nil {
		return nil, err
	}
	if inv.Schedule, err = decodeInvoiceSchedule(schedule); err != nil {
		return nil, err
	}
	return &inv, nil
}
