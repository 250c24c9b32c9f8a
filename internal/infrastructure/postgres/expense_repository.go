package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación de ExpenseRepository (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseColumns = `id, category, description, COALESCE(template_id, ''), amount, currency, exchange_rate,
	date, recurring, schedule, created_at, updated_at`

// Create persiste un gasto.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.OperationalExpense) error {
	schedule, err := encodeExpenseSchedule(e.Schedule)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO expenses (id, category, description, template_id, amount, currency, exchange_rate,
			date, recurring, schedule, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(ctx, query,
		e.ID, e.Category, e.Description, nullIfEmpty(e.TemplateID), e.Amount, e.Currency, e.ExchangeRate,
		e.Date, e.Recurring, schedule, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("gasto %s: %w", e.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// Update actualiza datos y descriptor recurrente.
func (r *ExpenseRepo) Update(ctx context.Context, e *entity.OperationalExpense) error {
	schedule, err := encodeExpenseSchedule(e.Schedule)
	if err != nil {
		return err
	}
	query := `
		UPDATE expenses
		SET category = $2, description = $3, amount = $4, currency = $5, exchange_rate = $6,
		    date = $7, recurring = $8, schedule = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		e.ID, e.Category, e.Description, e.Amount, e.Currency, e.ExchangeRate,
		e.Date, e.Recurring, schedule, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("gasto %s: %w", e.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene un gasto; nil, nil si no existe.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.OperationalExpense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// List gastos, más recientes primero.
func (r *ExpenseRepo) List(ctx context.Context, p repository.Page) ([]*entity.OperationalExpense, error) {
	rows, err := r.q.Query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY created_at DESC, id`+pageClause(p))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return collectExpenses(rows)
}

// ListRecurringTemplates plantillas de gasto recurrente activas.
func (r *ExpenseRepo) ListRecurringTemplates(ctx context.Context) ([]*entity.OperationalExpense, error) {
	rows, err := r.q.Query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE recurring ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]*entity.OperationalExpense, error) {
	defer rows.Close()
	var list []*entity.OperationalExpense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanExpense(row pgx.Row) (*entity.OperationalExpense, error) {
	var (
		e        entity.OperationalExpense
		schedule []byte
	)
	err := row.Scan(
		&e.ID, &e.Category, &e.Description, &e.TemplateID, &e.Amount, &e.Currency, &e.ExchangeRate,
		&e.Date, &e.Recurring, &schedule, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Schedule, err = decodeExpenseSchedule(schedule); err != nil {
		return nil, err
	}
	return &e, nil
}
