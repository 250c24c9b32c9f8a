package repository

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas (incluye historial de pagos
// y descriptor recurrente).
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	// Update reemplaza historial de pagos, descriptor recurrente y notas.
	Update(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByQuoteID(ctx context.Context, quoteID string) (*entity.Invoice, error)
	List(ctx context.Context, p Page) ([]*entity.Invoice, error)
	// ListRecurringTemplates facturas con Recurring = true.
	ListRecurringTemplates(ctx context.Context) ([]*entity.Invoice, error)
	// NextNumber siguiente consecutivo de facturación ("FAC-000001").
	NextNumber(ctx context.Context) (string, error)
}

// ExpenseRepository define el puerto de persistencia para gastos operativos.
type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.OperationalExpense) error
	Update(ctx context.Context, e *entity.OperationalExpense) error
	GetByID(ctx context.Context, id string) (*entity.OperationalExpense, error)
	List(ctx context.Context, p Page) ([]*entity.OperationalExpense, error)
	ListRecurringTemplates(ctx context.Context) ([]*entity.OperationalExpense, error)
}
