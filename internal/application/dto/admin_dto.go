package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionTierDTO tramo de comisión escalonada.
type CommissionTierDTO struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
}

// SalespersonRequest body de alta/edición de vendedor.
type SalespersonRequest struct {
	Name               string              `json:"name"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone,omitempty"`
	CommissionRate     decimal.Decimal     `json:"commission_rate"`
	TieredRates        []CommissionTierDTO `json:"tiered_rates,omitempty"`
	MonthlyVisitTarget int                 `json:"monthly_visit_target"`
	Active             *bool               `json:"active,omitempty"`
}

// SalespersonResponse vendedor en respuestas.
type SalespersonResponse struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone,omitempty"`
	CommissionRate     decimal.Decimal     `json:"commission_rate"`
	TieredRates        []CommissionTierDTO `json:"tiered_rates"`
	MonthlyVisitTarget int                 `json:"monthly_visit_target"`
	Active             bool                `json:"active"`
	CreatedAt          time.Time           `json:"created_at"`
}

// CatalogItemRequest body de alta/edición de servicio.
type CatalogItemRequest struct {
	Name                  string          `json:"name"`
	Description           string          `json:"description,omitempty"`
	UnitSalePrice         decimal.Decimal `json:"unit_sale_price"`
	UnitMaterialCost      decimal.Decimal `json:"unit_material_cost"`
	UnitProcessCost       decimal.Decimal `json:"unit_process_cost"`
	BillingKind           string          `json:"billing_kind"`
	MinimumContractMonths int             `json:"minimum_contract_months"`
}

// CatalogItemResponse servicio del catálogo.
type CatalogItemResponse struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description,omitempty"`
	UnitSalePrice         decimal.Decimal `json:"unit_sale_price"`
	UnitMaterialCost      decimal.Decimal `json:"unit_material_cost"`
	UnitProcessCost       decimal.Decimal `json:"unit_process_cost"`
	TotalUnitCost         decimal.Decimal `json:"total_unit_cost"`
	BillingKind           string          `json:"billing_kind"`
	MinimumContractMonths int             `json:"minimum_contract_months"`
	CreatedAt             time.Time       `json:"created_at"`
}

// RoleRequest body de alta/edición de rol.
type RoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	SalesRole   bool     `json:"sales_role"`
}

// RoleResponse rol en respuestas.
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	SalesRole   bool      `json:"sales_role"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUserRequest alta de usuario por un administrador.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	RoleID   string `json:"role_id"`
}

// UpdateUserRequest edición de usuario: nombre, rol y estado.
type UpdateUserRequest struct {
	Name   string `json:"name,omitempty"`
	RoleID string `json:"role_id,omitempty"`
	Status string `json:"status,omitempty"` // active | suspended | disabled
}

// BrandingDTO marca de la organización para documentos.
type BrandingDTO struct {
	LetterheadURL string `json:"letterhead_url,omitempty"`
	TaxID         string `json:"tax_id,omitempty"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	BankDetails   string `json:"bank_details,omitempty"`
	Terms         string `json:"terms,omitempty"`
}

// SettingsRequest body de PUT /api/settings.
type SettingsRequest struct {
	Name         string                     `json:"name"`
	BaseCurrency string                     `json:"base_currency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	Branding     BrandingDTO                `json:"branding"`
}

// SettingsResponse ajustes de la organización.
type SettingsResponse struct {
	Name         string                     `json:"name"`
	BaseCurrency string                     `json:"base_currency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	Branding     BrandingDTO                `json:"branding"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}
