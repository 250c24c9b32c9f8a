package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var (
	_ repository.QuoteRepository   = (*QuoteRepo)(nil)
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.ExpenseRepository = (*ExpenseRepo)(nil)
)

// QuoteRepo versiones de cotización en memoria.
type QuoteRepo struct{ s *Store }

func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	return r.s.write(func(t *tables) error {
		if _, dup := t.quotes[q.ID]; dup {
			return fmt.Errorf("cotización %s: %w", q.ID, domain.ErrDuplicate)
		}
		t.quotes[q.ID] = q.Clone()
		return nil
	})
}

func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.quotes, q.ID, "cotización"); err != nil {
			return err
		}
		t.quotes[q.ID] = q.Clone()
		return nil
	})
}

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	var out *entity.Quote
	r.s.read(func(t *tables) {
		if q, ok := t.quotes[id]; ok {
			c := q.Clone()
			out = &c
		}
	})
	return out, nil
}

func (r *QuoteRepo) ListByRoot(ctx context.Context, rootID string) ([]*entity.Quote, error) {
	var out []*entity.Quote
	r.s.read(func(t *tables) {
		for _, q := range t.quotes {
			if q.RootID() == rootID {
				c := q.Clone()
				out = append(out, &c)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (r *QuoteRepo) List(ctx context.Context, f repository.QuoteFilter) ([]*entity.Quote, error) {
	var out []*entity.Quote
	r.s.read(func(t *tables) {
		for _, q := range t.quotes {
			if f.Status != "" && q.Status != f.Status {
				continue
			}
			if f.ClientID != "" && q.ClientID != f.ClientID {
				continue
			}
			if f.SalespersonID != "" && q.SalespersonID != f.SalespersonID {
				continue
			}
			c := q.Clone()
			out = append(out, &c)
		}
	})
	newestFirst(out, func(q *entity.Quote) time.Time { return q.CreatedAt }, func(q *entity.Quote) string { return q.ID })
	return paginate(out, f.Page), nil
}

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.s.write(func(t *tables) error {
		if _, dup := t.invoices[inv.ID]; dup {
			return fmt.Errorf("factura %s: %w", inv.ID, domain.ErrDuplicate)
		}
		if inv.QuoteID != "" && inv.TemplateID == "" {
			for _, other := range t.invoices {
				if other.QuoteID == inv.QuoteID && other.TemplateID == "" {
					return fmt.Errorf("factura para cotización %s: %w", inv.QuoteID, domain.ErrAlreadyConverted)
				}
			}
		}
		t.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.invoices, inv.ID, "factura"); err != nil {
			return err
		}
		t.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.s.read(func(t *tables) {
		if inv, ok := t.invoices[id]; ok {
			c := inv.Clone()
			out = &c
		}
	})
	return out, nil
}

// GetByQuoteID factura de conversión de la cotización (excluye instancias recurrentes).
func (r *InvoiceRepo) GetByQuoteID(ctx context.Context, quoteID string) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.s.read(func(t *tables) {
		for _, inv := range t.invoices {
			if inv.QuoteID == quoteID && inv.TemplateID == "" {
				c := inv.Clone()
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *InvoiceRepo) List(ctx context.Context, p repository.Page) ([]*entity.Invoice, error) {
	out := r.collect(func(entity.Invoice) bool { return true })
	return paginate(out, p), nil
}

func (r *InvoiceRepo) ListRecurringTemplates(ctx context.Context) ([]*entity.Invoice, error) {
	return r.collect(func(inv entity.Invoice) bool { return inv.Recurring }), nil
}

func (r *InvoiceRepo) NextNumber(ctx context.Context) (string, error) {
	var n int
	_ = r.s.write(func(t *tables) error {
		t.invoiceSeq++
		n = t.invoiceSeq
		return nil
	})
	return formatInvoiceNumber(n), nil
}

func (r *InvoiceRepo) collect(keep func(entity.Invoice) bool) []*entity.Invoice {
	var out []*entity.Invoice
	r.s.read(func(t *tables) {
		for _, inv := range t.invoices {
			if keep(inv) {
				c := inv.Clone()
				out = append(out, &c)
			}
		}
	})
	newestFirst(out, func(i *entity.Invoice) time.Time { return i.CreatedAt }, func(i *entity.Invoice) string { return i.ID })
	return out
}

func formatInvoiceNumber(n int) string {
	return fmt.Sprintf("FAC-%06d", n)
}

// ExpenseRepo gastos operativos en memoria.
type ExpenseRepo struct{ s *Store }

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.OperationalExpense) error {
	return r.s.write(func(t *tables) error {
		if _, dup := t.expenses[e.ID]; dup {
			return fmt.Errorf("gasto %s: %w", e.ID, domain.ErrDuplicate)
		}
		t.expenses[e.ID] = e.Clone()
		return nil
	})
}

func (r *ExpenseRepo) Update(ctx context.Context, e *entity.OperationalExpense) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.expenses, e.ID, "gasto"); err != nil {
			return err
		}
		t.expenses[e.ID] = e.Clone()
		return nil
	})
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.OperationalExpense, error) {
	var out *entity.OperationalExpense
	r.s.read(func(t *tables) {
		if e, ok := t.expenses[id]; ok {
			c := e.Clone()
			out = &c
		}
	})
	return out, nil
}

func (r *ExpenseRepo) List(ctx context.Context, p repository.Page) ([]*entity.OperationalExpense, error) {
	return paginate(r.collect(func(entity.OperationalExpense) bool { return true }), p), nil
}

func (r *ExpenseRepo) ListRecurringTemplates(ctx context.Context) ([]*entity.OperationalExpense, error) {
	return r.collect(func(e entity.OperationalExpense) bool { return e.Recurring }), nil
}

func (r *ExpenseRepo) collect(keep func(entity.OperationalExpense) bool) []*entity.OperationalExpense {
	var out []*entity.OperationalExpense
	r.s.read(func(t *tables) {
		for _, e := range t.expenses {
			if keep(e) {
				c := e.Clone()
				out = append(out, &c)
			}
		}
	})
	newestFirst(out, func(e *entity.OperationalExpense) time.Time { return e.CreatedAt }, func(e *entity.OperationalExpense) string { return e.ID })
	return out
}
