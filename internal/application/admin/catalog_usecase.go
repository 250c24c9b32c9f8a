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

// CatalogUseCase casos de uso del catálogo de servicios.
type CatalogUseCase struct {
	repo repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// Create agrega un servicio al catálogo.
func (uc *CatalogUseCase) Create(ctx context.Context, in dto.CatalogItemRequest) (*dto.CatalogItemResponse, error) {
	now := time.Now()
	s := &entity.ServiceCatalogItem{ID: uuid.New().String(), CreatedAt: now}
	applyCatalogItem(s, in)
	s.UpdatedAt = now
	if err := validation.CatalogItem(*s).Err(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("admin: crear servicio: %w", err)
	}
	return toCatalogItemResponse(s), nil
}

// Update reemplaza precio y costos. Las cotizaciones guardadas conservan los valores copiados.
func (uc *CatalogUseCase) Update(ctx context.Context, id string, in dto.CatalogItemRequest) (*dto.CatalogItemResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("admin: obtener servicio %s: %w", id, err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	applyCatalogItem(s, in)
	s.UpdatedAt = time.Now()
	if err := validation.CatalogItem(*s).Err(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("admin: actualizar servicio %s: %w", id, err)
	}
	return toCatalogItemResponse(s), nil
}

// List lista el catálogo.
func (uc *CatalogUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.CatalogItemResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("admin: listar catálogo: %w", err)
	}
	out := make([]dto.CatalogItemResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toCatalogItemResponse(s))
	}
	return out, nil
}

func applyCatalogItem(s *entity.ServiceCatalogItem, in dto.CatalogItemRequest) {
	s.Name = strings.TrimSpace(in.Name)
	s.Description = strings.TrimSpace(in.Description)
	s.UnitSalePrice = in.UnitSalePrice
	s.UnitMaterialCost = in.UnitMaterialCost
	s.UnitProcessCost = in.UnitProcessCost
	s.BillingKind = in.BillingKind
	if s.BillingKind == "" {
		s.BillingKind = entity.BillingKindOneTime
	}
	s.MinimumContractMonths = in.MinimumContractMonths
}

func toCatalogItemResponse(s *entity.ServiceCatalogItem) *dto.CatalogItemResponse {
	return &dto.CatalogItemResponse{
		ID:                    s.ID,
		Name:                  s.Name,
		Description:           s.Description,
		UnitSalePrice:         dto.Money(s.UnitSalePrice),
		UnitMaterialCost:      dto.Money(s.UnitMaterialCost),
		UnitProcessCost:       dto.Money(s.UnitProcessCost),
		TotalUnitCost:         dto.Money(s.TotalUnitCost()),
		BillingKind:           s.BillingKind,
		MinimumContractMonths: s.MinimumContractMonths,
		CreatedAt:             s.CreatedAt,
	}
}
