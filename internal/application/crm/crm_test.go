package crm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/crm"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
)

func seedSales(t *testing.T, repos repository.Set) *entity.UserProfile {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repos.Roles.Create(ctx, &entity.CustomRole{
		ID: "r-sales", Name: "Ventas", SalesRole: true,
		Permissions: []entity.Permission{entity.PermManageLeads, entity.PermManageClients},
	}))
	return &entity.UserProfile{ID: "u1", Email: "ana@cotiza.co", RoleID: "r-sales", Status: entity.UserStatusActive}
}

func TestClientUseCase_CrearYEditar(t *testing.T) {
	repos := memory.NewStore().Set()
	uc := crm.NewClientUseCase(repos)
	ctx := context.Background()

	c, err := uc.Create(ctx, nil, dto.ClientRequest{Name: " Acme ", TaxID: "900373115-3", Email: "compras@acme.co"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)

	_, err = uc.Update(ctx, c.ID, dto.ClientRequest{Name: "Acme", TaxID: "900373115-4"})
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "tax_id")

	upd, err := uc.Update(ctx, c.ID, dto.ClientRequest{Name: "Acme SAS", Phone: "+57 300 123 4567"})
	require.NoError(t, err)
	assert.Equal(t, "Acme SAS", upd.Name)

	_, err = uc.Get(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestClientUseCase_IdentidadComercial(t *testing.T) {
	repos := memory.NewStore().Set()
	actor := seedSales(t, repos)

	_, err := crm.NewClientUseCase(repos).Create(context.Background(), actor, dto.ClientRequest{Name: "Acme"})
	assert.True(t, errors.Is(err, domain.ErrIdentityMismatch))
}

func TestLeadUseCase_SeAsignaAlVendedorDelUsuario(t *testing.T) {
	repos := memory.NewStore().Set()
	ctx := context.Background()
	actor := seedSales(t, repos)
	require.NoError(t, repos.Salespeople.Create(ctx, &entity.Salesperson{ID: "sp1", Name: "Ana", Email: "ana@cotiza.co"}))
	uc := crm.NewLeadUseCase(repos)

	l, err := uc.Create(ctx, actor, dto.LeadRequest{Name: "Prospecto", Phone: "3001234567", SalespersonID: "otro"})
	require.NoError(t, err)
	assert.Equal(t, "sp1", l.SalespersonID)
	assert.Equal(t, entity.LeadStatusPotential, l.Status)
}

func TestLeadUseCase_Validacion(t *testing.T) {
	repos := memory.NewStore().Set()
	uc := crm.NewLeadUseCase(repos)

	_, err := uc.Create(context.Background(), nil, dto.LeadRequest{Name: "Sin contacto", SalespersonID: "nope", Visits: -1})
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "visits")
	assert.Contains(t, fe, "salesperson_id")
}
