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

// LeadUseCase casos de uso para leads (prospectos).
type LeadUseCase struct {
	repo        repository.LeadRepository
	salespeople repository.SalespersonRepository
	ident       *identity.Resolver
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(repos repository.Set) *LeadUseCase {
	return &LeadUseCase{
		repo:        repos.Leads,
		salespeople: repos.Salespeople,
		ident:       identity.NewResolver(repos.Roles, repos.Salespeople),
	}
}

// Create crea un lead en estado potential. Un usuario comercial lo registra a su nombre.
func (uc *LeadUseCase) Create(ctx context.Context, actor *entity.UserProfile, in dto.LeadRequest) (*dto.LeadResponse, error) {
	own, err := uc.ident.Salesperson(ctx, actor)
	if err != nil {
		return nil, err
	}
	if own != nil {
		in.SalespersonID = own.ID
	}
	now := time.Now()
	l := &entity.Lead{ID: uuid.New().String(), Status: entity.LeadStatusPotential, CreatedAt: now}
	applyLead(l, in)
	l.UpdatedAt = now
	if err := uc.validate(ctx, l); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("crm: crear lead: %w", err)
	}
	return toLeadResponse(l), nil
}

// Update reemplaza los datos del lead. El estado y el cliente convertido no se editan.
func (uc *LeadUseCase) Update(ctx context.Context, id string, in dto.LeadRequest) (*dto.LeadResponse, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("crm: obtener lead %s: %w", id, err)
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	applyLead(l, in)
	l.UpdatedAt = time.Now()
	if err := uc.validate(ctx, l); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("crm: actualizar lead %s: %w", id, err)
	}
	return toLeadResponse(l), nil
}

// Get un lead por id.
func (uc *LeadUseCase) Get(ctx context.Context, id string) (*dto.LeadResponse, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("crm: obtener lead %s: %w", id, err)
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return toLeadResponse(l), nil
}

// List lista leads, más recientes primero.
func (uc *LeadUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.LeadResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("crm: listar leads: %w", err)
	}
	out := make([]dto.LeadResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLeadResponse(l))
	}
	return out, nil
}

func (uc *LeadUseCase) validate(ctx context.Context, l *entity.Lead) error {
	fe := validation.Lead(*l)
	if l.SalespersonID != "" {
		sp, err := uc.salespeople.GetByID(ctx, l.SalespersonID)
		if err != nil {
			return fmt.Errorf("crm: obtener vendedor: %w", err)
		}
		if sp == nil {
			fe.Add("salesperson_id", "vendedor inexistente")
		}
	}
	return fe.Err()
}

func applyLead(l *entity.Lead, in dto.LeadRequest) {
	l.Name = strings.TrimSpace(in.Name)
	l.CompanyName = strings.TrimSpace(in.CompanyName)
	l.Email = strings.TrimSpace(in.Email)
	l.Phone = strings.TrimSpace(in.Phone)
	l.Source = strings.TrimSpace(in.Source)
	l.SalespersonID = in.SalespersonID
	l.Visits = in.Visits
}

func toLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:                l.ID,
		Name:              l.Name,
		CompanyName:       l.CompanyName,
		Email:             l.Email,
		Phone:             l.Phone,
		Source:            l.Source,
		SalespersonID:     l.SalespersonID,
		Status:            l.Status,
		ConvertedClientID: l.ConvertedClientID,
		Visits:            l.Visits,
		CreatedAt:         l.CreatedAt,
	}
}
