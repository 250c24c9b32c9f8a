package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
)

// SettingsUseCase ajustes de la organización: moneda base, tabla de tasas y marca.
type SettingsUseCase struct {
	repo   repository.OrganizationRepository
	loader *org.Loader
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.OrganizationRepository, loader *org.Loader) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, loader: loader}
}

// Get ajustes vigentes.
func (uc *SettingsUseCase) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	o, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(o), nil
}

// Update reemplaza los ajustes. La tasa de la moneda base siempre es 1.
// Los documentos ya guardados conservan la tasa capturada al crearse.
func (uc *SettingsUseCase) Update(ctx context.Context, in dto.SettingsRequest) (*dto.SettingsResponse, error) {
	base := strings.ToUpper(strings.TrimSpace(in.BaseCurrency))
	fe := validation.FieldErrors{}
	if !currency.ValidCode(base) {
		fe.Add("base_currency", "código de moneda inválido")
	}
	rates := make(map[string]decimal.Decimal, len(in.Rates)+1)
	for code, r := range in.Rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !currency.ValidCode(code) {
			fe.Add("rates", "código de moneda inválido: "+code)
			continue
		}
		if !r.IsPositive() {
			fe.Add("rates", "la tasa de "+code+" debe ser mayor que cero")
			continue
		}
		rates[code] = r
	}
	fe.Email("branding.email", in.Branding.Email)
	fe.Phone("branding.phone", in.Branding.Phone)
	fe.TaxID("branding.tax_id", in.Branding.TaxID)
	if err := fe.Err(); err != nil {
		return nil, err
	}
	rates[base] = decimal.NewFromInt(1)

	o := &entity.Organization{
		ID:           entity.DefaultOrganizationID,
		Name:         strings.TrimSpace(in.Name),
		BaseCurrency: base,
		Rates:        rates,
		Branding: entity.Branding{
			LetterheadURL: strings.TrimSpace(in.Branding.LetterheadURL),
			TaxID:         strings.TrimSpace(in.Branding.TaxID),
			Address:       strings.TrimSpace(in.Branding.Address),
			Phone:         strings.TrimSpace(in.Branding.Phone),
			Email:         strings.TrimSpace(in.Branding.Email),
			BankDetails:   strings.TrimSpace(in.Branding.BankDetails),
			Terms:         strings.TrimSpace(in.Branding.Terms),
		},
		UpdatedAt: time.Now(),
	}
	if err := uc.repo.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("admin: guardar ajustes: %w", err)
	}
	return toSettingsResponse(o), nil
}

func toSettingsResponse(o *entity.Organization) *dto.SettingsResponse {
	b := o.Branding
	return &dto.SettingsResponse{
		Name:         o.Name,
		BaseCurrency: o.BaseCurrency,
		Rates:        o.RateTable(),
		Branding: dto.BrandingDTO{
			LetterheadURL: b.LetterheadURL,
			TaxID:         b.TaxID,
			Address:       b.Address,
			Phone:         b.Phone,
			Email:         b.Email,
			BankDetails:   b.BankDetails,
			Terms:         b.Terms,
		},
		UpdatedAt: o.UpdatedAt,
	}
}
