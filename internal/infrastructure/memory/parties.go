package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository       = (*ClientRepo)(nil)
	_ repository.LeadRepository         = (*LeadRepo)(nil)
	_ repository.SalespersonRepository  = (*SalespersonRepo)(nil)
	_ repository.CatalogRepository      = (*CatalogRepo)(nil)
	_ repository.OrganizationRepository = (*OrganizationRepo)(nil)
)

// ClientRepo clientes en memoria.
type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return r.s.write(func(t *tables) error {
		if _, dup := t.clients[c.ID]; dup {
			return fmt.Errorf("cliente %s: %w", c.ID, domain.ErrDuplicate)
		}
		t.clients[c.ID] = *c
		return nil
	})
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.clients, c.ID, "cliente"); err != nil {
			return err
		}
		t.clients[c.ID] = *c
		return nil
	})
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	r.s.read(func(t *tables) {
		if c, ok := t.clients[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *ClientRepo) List(ctx context.Context, p repository.Page) ([]*entity.Client, error) {
	var out []*entity.Client
	r.s.read(func(t *tables) {
		for _, c := range t.clients {
			c := c
			out = append(out, &c)
		}
	})
	newestFirst(out, func(c *entity.Client) time.Time { return c.CreatedAt }, func(c *entity.Client) string { return c.ID })
	return paginate(out, p), nil
}

// LeadRepo leads en memoria.
type LeadRepo struct{ s *Store }

func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	return r.s.write(func(t *tables) error {
		if _, dup := t.leads[l.ID]; dup {
			return fmt.Errorf("lead %s: %w", l.ID, domain.ErrDuplicate)
		}
		t.leads[l.ID] = *l
		return nil
	})
}

func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.leads, l.ID, "lead"); err != nil {
			return err
		}
		t.leads[l.ID] = *l
		return nil
	})
}

func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	var out *entity.Lead
	r.s.read(func(t *tables) {
		if l, ok := t.leads[id]; ok {
			out = &l
		}
	})
	return out, nil
}

func (r *LeadRepo) List(ctx context.Context, p repository.Page) ([]*entity.Lead, error) {
	var out []*entity.Lead
	r.s.read(func(t *tables) {
		for _, l := range t.leads {
			l := l
			out = append(out, &l)
		}
	})
	newestFirst(out, func(l *entity.Lead) time.Time { return l.CreatedAt }, func(l *entity.Lead) string { return l.ID })
	return paginate(out, p), nil
}

// SalespersonRepo vendedores en memoria. El email es único sin distinguir mayúsculas.
type SalespersonRepo struct{ s *Store }

func (r *SalespersonRepo) Create(ctx context.Context, sp *entity.Salesperson) error {
	return r.s.write(func(t *tables) error {
		if _, dup := t.salespeople[sp.ID]; dup {
			return fmt.Errorf("vendedor %s: %w", sp.ID, domain.ErrDuplicate)
		}
		for _, other := range t.salespeople {
			if sameEmail(other.Email, sp.Email) {
				return fmt.Errorf("vendedor con email %s: %w", sp.Email, domain.ErrDuplicate)
			}
		}
		t.salespeople[sp.ID] = cloneSalesperson(*sp)
		return nil
	})
}

func (r *SalespersonRepo) Update(ctx context.Context, sp *entity.Salesperson) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.salespeople, sp.ID, "vendedor"); err != nil {
			return err
		}
		for id, other := range t.salespeople {
			if id != sp.ID && sameEmail(other.Email, sp.Email) {
				return fmt.Errorf("vendedor con email %s: %w", sp.Email, domain.ErrDuplicate)
			}
		}
		t.salespeople[sp.ID] = cloneSalesperson(*sp)
		return nil
	})
}

func (r *SalespersonRepo) GetByID(ctx context.Context, id string) (*entity.Salesperson, error) {
	var out *entity.Salesperson
	r.s.read(func(t *tables) {
		if sp, ok := t.salespeople[id]; ok {
			c := cloneSalesperson(sp)
			out = &c
		}
	})
	return out, nil
}

func (r *SalespersonRepo) GetByEmail(ctx context.Context, email string) (*entity.Salesperson, error) {
	var out *entity.Salesperson
	r.s.read(func(t *tables) {
		for _, sp := range t.salespeople {
			if sameEmail(sp.Email, email) {
				c := cloneSalesperson(sp)
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *SalespersonRepo) List(ctx context.Context, p repository.Page) ([]*entity.Salesperson, error) {
	var out []*entity.Salesperson
	r.s.read(func(t *tables) {
		for _, sp := range t.salespeople {
			c := cloneSalesperson(sp)
			out = append(out, &c)
		}
	})
	newestFirst(out, func(s *entity.Salesperson) time.Time { return s.CreatedAt }, func(s *entity.Salesperson) string { return s.ID })
	return paginate(out, p), nil
}

// CatalogRepo catálogo de servicios en memoria.
type CatalogRepo struct{ s *Store }

func (r *CatalogRepo) Create(ctx context.Context, item *entity.ServiceCatalogItem) error {
	return r.s.write(func(t *tables) error {
		if _, dup := t.catalog[item.ID]; dup {
			return fmt.Errorf("servicio %s: %w", item.ID, domain.ErrDuplicate)
		}
		t.catalog[item.ID] = *item
		return nil
	})
}

func (r *CatalogRepo) Update(ctx context.Context, item *entity.ServiceCatalogItem) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.catalog, item.ID, "servicio"); err != nil {
			return err
		}
		t.catalog[item.ID] = *item
		return nil
	})
}

func (r *CatalogRepo) GetByID(ctx context.Context, id string) (*entity.ServiceCatalogItem, error) {
	var out *entity.ServiceCatalogItem
	r.s.read(func(t *tables) {
		if item, ok := t.catalog[id]; ok {
			out = &item
		}
	})
	return out, nil
}

func (r *CatalogRepo) List(ctx context.Context, p repository.Page) ([]*entity.ServiceCatalogItem, error) {
	var out []*entity.ServiceCatalogItem
	r.s.read(func(t *tables) {
		for _, item := range t.catalog {
			item := item
			out = append(out, &item)
		}
	})
	newestFirst(out, func(s *entity.ServiceCatalogItem) time.Time { return s.CreatedAt }, func(s *entity.ServiceCatalogItem) string { return s.ID })
	return paginate(out, p), nil
}

// OrganizationRepo ajustes de la organización en memoria.
type OrganizationRepo struct{ s *Store }

func (r *OrganizationRepo) Get(ctx context.Context) (*entity.Organization, error) {
	var out *entity.Organization
	r.s.read(func(t *tables) {
		if t.org != nil {
			o := cloneOrg(*t.org)
			out = &o
		}
	})
	return out, nil
}

func (r *OrganizationRepo) Save(ctx context.Context, o *entity.Organization) error {
	return r.s.write(func(t *tables) error {
		c := cloneOrg(*o)
		t.org = &c
		return nil
	})
}
