package repository

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	Update(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, p Page) ([]*entity.Client, error)
}

// LeadRepository define el puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, l *entity.Lead) error
	Update(ctx context.Context, l *entity.Lead) error
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	List(ctx context.Context, p Page) ([]*entity.Lead, error)
}

// SalespersonRepository define el puerto de persistencia para vendedores.
type SalespersonRepository interface {
	Create(ctx context.Context, s *entity.Salesperson) error
	Update(ctx context.Context, s *entity.Salesperson) error
	GetByID(ctx context.Context, id string) (*entity.Salesperson, error)
	// GetByEmail búsqueda sin distinguir mayúsculas; resuelve la identidad del usuario comercial.
	GetByEmail(ctx context.Context, email string) (*entity.Salesperson, error)
	List(ctx context.Context, p Page) ([]*entity.Salesperson, error)
}

// CatalogRepository define el puerto de persistencia para el catálogo de servicios.
type CatalogRepository interface {
	Create(ctx context.Context, s *entity.ServiceCatalogItem) error
	Update(ctx context.Context, s *entity.ServiceCatalogItem) error
	GetByID(ctx context.Context, id string) (*entity.ServiceCatalogItem, error)
	List(ctx context.Context, p Page) ([]*entity.ServiceCatalogItem, error)
}

// OrganizationRepository ajustes de la organización (un solo registro).
type OrganizationRepository interface {
	// Get retorna nil, nil si aún no se guardaron ajustes.
	Get(ctx context.Context) (*entity.Organization, error)
	Save(ctx context.Context, o *entity.Organization) error
}
