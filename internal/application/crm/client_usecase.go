// Package crm casos de uso de clientes y leads.
package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/identity"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
)

// ClientUseCase casos de uso para clientes.
type ClientUseCase struct {
	repo  repository.ClientRepository
	ident *identity.Resolver
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repos repository.Set) *ClientUseCase {
	return &ClientUseCase{repo: repos.Clients, ident: identity.NewResolver(repos.Roles, repos.Salespeople)}
}

// Create crea un cliente. Un usuario comercial sin vendedor asociado no puede crear registros.
func (uc *ClientUseCase) Create(ctx context.Context, actor *entity.UserProfile, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if _, err := uc.ident.Salesperson(ctx, actor); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Client{ID: uuid.New().String(), CreatedAt: now}
	applyClient(c, in)
	c.UpdatedAt = now
	if err := validation.Client(*c).Err(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("crm: crear cliente: %w", err)
	}
	return toClientResponse(c), nil
}

// Update reemplaza los datos de contacto del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("crm: obtener cliente %s: %w", id, err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	applyClient(c, in)
	c.UpdatedAt = time.Now()
	if err := validation.Client(*c).Err(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("crm: actualizar cliente %s: %w", id, err)
	}
	return toClientResponse(c), nil
}

// Get un cliente por id.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("crm: obtener cliente %s: %w", id, err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(c), nil
}

// List lista clientes, más recientes primero.
func (uc *ClientUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("crm: listar clientes: %w", err)
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

func applyClient(c *entity.Client, in dto.ClientRequest) {
	c.Name = strings.TrimSpace(in.Name)
	c.CompanyName = strings.TrimSpace(in.CompanyName)
	c.TaxID = strings.TrimSpace(in.TaxID)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		CompanyName: c.CompanyName,
		TaxID:       c.TaxID,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		LeadID:      c.LeadID,
		CreatedAt:   c.CreatedAt,
	}
}
