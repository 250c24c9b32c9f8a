// Package admin casos de uso de administración: vendedores, catálogo, roles, usuarios y ajustes.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
)

// SalespersonUseCase casos de uso para vendedores.
type SalespersonUseCase struct {
	repo repository.SalespersonRepository
}

// NewSalespersonUseCase construye el caso de uso.
func NewSalespersonUseCase(repo repository.SalespersonRepository) *SalespersonUseCase {
	return &SalespersonUseCase{repo: repo}
}

// Create registra un vendedor. El email debe ser único: es el que enlaza al usuario comercial.
func (uc *SalespersonUseCase) Create(ctx context.Context, in dto.SalespersonRequest) (*dto.SalespersonResponse, error) {
	now := time.Now()
	s := &entity.Salesperson{ID: uuid.New().String(), Active: true, CreatedAt: now}
	applySalesperson(s, in)
	s.UpdatedAt = now
	if err := validation.Salesperson(*s).Err(); err != nil {
		return nil, err
	}
	if existing, err := uc.repo.GetByEmail(ctx, s.Email); err != nil {
		return nil, fmt.Errorf("admin: buscar vendedor: %w", err)
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("admin: crear vendedor: %w", err)
	}
	return toSalespersonResponse(s), nil
}

// Update reemplaza los datos del vendedor. Cambiar la tasa no altera cotizaciones ya guardadas.
func (uc *SalespersonUseCase) Update(ctx context.Context, id string, in dto.SalespersonRequest) (*dto.SalespersonResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("admin: obtener vendedor %s: %w", id, err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	applySalesperson(s, in)
	s.UpdatedAt = time.Now()
	if err := validation.Salesperson(*s).Err(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("admin: actualizar vendedor %s: %w", id, err)
	}
	return toSalespersonResponse(s), nil
}

// Get un vendedor por id.
func (uc *SalespersonUseCase) Get(ctx context.Context, id string) (*dto.SalespersonResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("admin: obtener vendedor %s: %w", id, err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSalespersonResponse(s), nil
}

// List lista vendedores.
func (uc *SalespersonUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SalespersonResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("admin: listar vendedores: %w", err)
	}
	out := make([]dto.SalespersonResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSalespersonResponse(s))
	}
	return out, nil
}

func applySalesperson(s *entity.Salesperson, in dto.SalespersonRequest) {
	s.Name = strings.TrimSpace(in.Name)
	s.Email = strings.TrimSpace(in.Email)
	s.Phone = strings.TrimSpace(in.Phone)
	s.CommissionRate = in.CommissionRate
	s.MonthlyVisitTarget = in.MonthlyVisitTarget
	s.TieredRates = make([]entity.CommissionTier, 0, len(in.TieredRates))
	for _, t := range in.TieredRates {
		s.TieredRates = append(s.TieredRates, entity.CommissionTier{Threshold: t.Threshold, Rate: t.Rate})
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
}

func toSalespersonResponse(s *entity.Salesperson) *dto.SalespersonResponse {
	out := &dto.SalespersonResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Email:              s.Email,
		Phone:              s.Phone,
		CommissionRate:     s.CommissionRate,
		TieredRates:        make([]dto.CommissionTierDTO, 0, len(s.TieredRates)),
		MonthlyVisitTarget: s.MonthlyVisitTarget,
		Active:             s.Active,
		CreatedAt:          s.CreatedAt,
	}
	for _, t := range s.TieredRates {
		out.TieredRates = append(out.TieredRates, dto.CommissionTierDTO{Threshold: t.Threshold, Rate: t.Rate})
	}
	return out
}
