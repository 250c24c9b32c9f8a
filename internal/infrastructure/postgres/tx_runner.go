package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Set) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSet(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewSet repositorios atados a q (pool o tx).
func NewSet(q Querier) repository.Set {
	return repository.Set{
		Quotes:        NewQuoteRepository(q),
		Invoices:      NewInvoiceRepository(q),
		Expenses:      NewExpenseRepository(q),
		Clients:       NewClientRepository(q),
		Leads:         NewLeadRepository(q),
		Salespeople:   NewSalespersonRepository(q),
		Catalog:       NewCatalogRepository(q),
		Users:         NewUserRepository(q),
		Roles:         NewRoleRepository(q),
		Sessions:      NewSessionRepository(q),
		Organizations: NewOrganizationRepository(q),
	}
}
