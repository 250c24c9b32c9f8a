// Package memory implementa los puertos de persistencia en memoria. Lo usan las pruebas de
// casos de uso y el modo STORE_DRIVER=memory (demos, CLI sin base de datos).
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type tables struct {
	quotes      map[string]entity.Quote
	invoices    map[string]entity.Invoice
	expenses    map[string]entity.OperationalExpense
	clients     map[string]entity.Client
	leads       map[string]entity.Lead
	salespeople map[string]entity.Salesperson
	catalog     map[string]entity.ServiceCatalogItem
	users       map[string]entity.UserProfile
	roles       map[string]entity.CustomRole
	revoked     map[string]time.Time
	org         *entity.Organization
	invoiceSeq  int
}

func newTables() *tables {
	return &tables{
		quotes:      map[string]entity.Quote{},
		invoices:    map[string]entity.Invoice{},
		expenses:    map[string]entity.OperationalExpense{},
		clients:     map[string]entity.Client{},
		leads:       map[string]entity.Lead{},
		salespeople: map[string]entity.Salesperson{},
		catalog:     map[string]entity.ServiceCatalogItem{},
		users:       map[string]entity.UserProfile{},
		roles:       map[string]entity.CustomRole{},
		revoked:     map[string]time.Time{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.quotes {
		c.quotes[k] = v.Clone()
	}
	for k, v := range t.invoices {
		c.invoices[k] = v.Clone()
	}
	for k, v := range t.expenses {
		c.expenses[k] = v.Clone()
	}
	for k, v := range t.clients {
		c.clients[k] = v
	}
	for k, v := range t.leads {
		c.leads[k] = v
	}
	for k, v := range t.salespeople {
		c.salespeople[k] = cloneSalesperson(v)
	}
	for k, v := range t.catalog {
		c.catalog[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.roles {
		c.roles[k] = cloneRole(v)
	}
	for k, v := range t.revoked {
		c.revoked[k] = v
	}
	if t.org != nil {
		o := cloneOrg(*t.org)
		c.org = &o
	}
	c.invoiceSeq = t.invoiceSeq
	return c
}

// Store almacén en memoria seguro para uso concurrente. Las lecturas devuelven copias:
// mutar una entidad leída no altera el almacén hasta llamar a Update.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	t    *tables
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{t: newTables()}
}

// Set repositorios respaldados por este almacén.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Quotes:        &QuoteRepo{s: s},
		Invoices:      &InvoiceRepo{s: s},
		Expenses:      &ExpenseRepo{s: s},
		Clients:       &ClientRepo{s: s},
		Leads:         &LeadRepo{s: s},
		Salespeople:   &SalespersonRepo{s: s},
		Catalog:       &CatalogRepo{s: s},
		Users:         &UserRepo{s: s},
		Roles:         &RoleRepo{s: s},
		Sessions:      &SessionRepo{s: s},
		Organizations: &OrganizationRepo{s: s},
	}
}

// Run serializa las unidades de trabajo. Si fn falla, el almacén vuelve al estado previo.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Set) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.t.clone()
	s.mu.RUnlock()

	if err := fn(s.Set()); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.t)
}

func (s *Store) write(fn func(t *tables) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.t)
}

func paginate[T any](items []T, p repository.Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return nil
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

// newestFirst ordena por fecha de creación descendente y luego por id (orden estable).
func newestFirst[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) < id(items[j])
	})
}

func exists[T any](m map[string]T, id, kind string) error {
	if _, ok := m[id]; !ok {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func cloneSalesperson(s entity.Salesperson) entity.Salesperson {
	s.TieredRates = append([]entity.CommissionTier(nil), s.TieredRates...)
	return s
}

func cloneRole(r entity.CustomRole) entity.CustomRole {
	r.Permissions = append([]entity.Permission(nil), r.Permissions...)
	return r
}

func cloneOrg(o entity.Organization) entity.Organization {
	o.Rates = o.RateTable()
	return o
}
