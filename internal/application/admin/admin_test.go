package admin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/admin"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireFields(t *testing.T, err error, fields ...string) {
	t.Helper()
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe), "se esperaba FieldErrors, got %v", err)
	for _, f := range fields {
		assert.Contains(t, fe, f)
	}
}

func TestSalespersonUseCase_EmailUnico(t *testing.T) {
	ctx := context.Background()
	uc := admin.NewSalespersonUseCase(memory.NewStore().Set().Salespeople)

	sp, err := uc.Create(ctx, dto.SalespersonRequest{Name: "Ana", Email: "ana@cotiza.co", CommissionRate: d("10")})
	require.NoError(t, err)
	assert.True(t, sp.Active, "activo por defecto")

	_, err = uc.Create(ctx, dto.SalespersonRequest{Name: "Otra Ana", Email: "ANA@cotiza.co", CommissionRate: d("5")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.SalespersonRequest{Name: "", Email: "x", CommissionRate: d("150")})
	requireFields(t, err, "name", "email", "commission_rate")

	inactive := false
	upd, err := uc.Update(ctx, sp.ID, dto.SalespersonRequest{Name: "Ana M", Email: "ana@cotiza.co", CommissionRate: d("12"), Active: &inactive})
	require.NoError(t, err)
	assert.False(t, upd.Active)
	assert.True(t, d("12").Equal(upd.CommissionRate))

	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogUseCase(t *testing.T) {
	ctx := context.Background()
	uc := admin.NewCatalogUseCase(memory.NewStore().Set().Catalog)

	item, err := uc.Create(ctx, dto.CatalogItemRequest{
		Name: "Hosting", UnitSalePrice: d("50"), UnitMaterialCost: d("10"), UnitProcessCost: d("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BillingKindOneTime, item.BillingKind)
	assert.True(t, d("15").Equal(item.TotalUnitCost))

	_, err = uc.Create(ctx, dto.CatalogItemRequest{Name: "X", UnitSalePrice: d("-1"), BillingKind: "weekly"})
	requireFields(t, err, "unit_sale_price", "billing_kind")

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.Update(ctx, "nope", dto.CatalogItemRequest{Name: "Y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoleUseCase_PermisosDesconocidos(t *testing.T) {
	ctx := context.Background()
	uc := admin.NewRoleUseCase(memory.NewStore().Set().Roles)

	_, err := uc.Create(ctx, dto.RoleRequest{Name: "Raro", Permissions: []string{"volar"}})
	requireFields(t, err, "permissions")

	r, err := uc.Create(ctx, dto.RoleRequest{
		Name: "Ventas", SalesRole: true,
		Permissions: []string{"manage_quotes", "manage_leads", "manage_quotes"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"manage_quotes", "manage_leads"}, r.Permissions)
	assert.True(t, r.SalesRole)

	assert.Len(t, uc.Permissions(), len(entity.AllPermissions))
}

func TestUserUseCase(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Set()
	require.NoError(t, repos.Roles.Create(ctx, &entity.CustomRole{ID: "r1", Name: "Ventas"}))
	uc := admin.NewUserUseCase(repos.Users, repos.Roles)

	_, err := uc.Create(ctx, dto.CreateUserRequest{Email: "x", Password: "123", RoleID: "r-nope"})
	requireFields(t, err, "email", "password", "role_id")

	u, err := uc.Create(ctx, dto.CreateUserRequest{Email: "Luis@Cotiza.co", Password: "secreto123", RoleID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "luis@cotiza.co", u.Email)
	assert.Equal(t, entity.UserStatusActive, u.Status)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "luis@cotiza.co", Password: "secreto123", RoleID: "r1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	upd, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{Status: entity.UserStatusSuspended})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusSuspended, upd.Status)

	_, err = uc.Update(ctx, u.ID, dto.UpdateUserRequest{Status: "borrado"})
	requireFields(t, err, "status")
}

func TestSettingsUseCase_TasaBaseSiempreUno(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Set()
	uc := admin.NewSettingsUseCase(repos.Organizations, org.NewLoader(repos.Organizations, "USD"))

	def, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", def.BaseCurrency)

	out, err := uc.Update(ctx, dto.SettingsRequest{
		Name:         "Cotiza SAS",
		BaseCurrency: "cop",
		Rates:        map[string]decimal.Decimal{"COP": d("3"), "usd": d("0.00025")},
	})
	require.NoError(t, err)
	assert.Equal(t, "COP", out.BaseCurrency)
	assert.True(t, d("1").Equal(out.Rates["COP"]))
	assert.True(t, d("0.00025").Equal(out.Rates["USD"]))

	_, err = uc.Update(ctx, dto.SettingsRequest{
		BaseCurrency: "PESOS",
		Rates:        map[string]decimal.Decimal{"EUR": d("0")},
		Branding:     dto.BrandingDTO{Email: "no-email"},
	})
	requireFields(t, err, "base_currency", "rates", "branding.email")
}
