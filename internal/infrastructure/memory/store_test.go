package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
)

func TestQuoteRepo_CopiasAisladas(t *testing.T) {
	ctx := context.Background()
	set := memory.NewStore().Set()

	q := &entity.Quote{ID: "q1", Version: 1, Items: []entity.QuoteLineItem{{Description: "a"}}}
	require.NoError(t, set.Quotes.Create(ctx, q))
	q.Items[0].Description = "mutada"

	got, err := set.Quotes.GetByID(ctx, "q1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Items[0].Description)

	missing, err := set.Quotes.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = set.Quotes.Update(ctx, &entity.Quote{ID: "nope"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestQuoteRepo_ListByRootYFiltros(t *testing.T) {
	ctx := context.Background()
	set := memory.NewStore().Set()
	now := time.Now()

	require.NoError(t, set.Quotes.Create(ctx, &entity.Quote{ID: "a2", Version: 2, ParentQuoteID: "a", Status: entity.QuoteStatusDraft, CreatedAt: now}))
	require.NoError(t, set.Quotes.Create(ctx, &entity.Quote{ID: "a", Version: 1, Status: entity.QuoteStatusSent, CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, set.Quotes.Create(ctx, &entity.Quote{ID: "b", Version: 1, Status: entity.QuoteStatusDraft, CreatedAt: now.Add(-2 * time.Hour)}))

	fam, err := set.Quotes.ListByRoot(ctx, "a")
	require.NoError(t, err)
	require.Len(t, fam, 2)
	assert.Equal(t, "a", fam[0].ID)
	assert.Equal(t, "a2", fam[1].ID)

	drafts, err := set.Quotes.List(ctx, repository.QuoteFilter{Status: entity.QuoteStatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "a2", drafts[0].ID, "más reciente primero")

	page, err := set.Quotes.List(ctx, repository.QuoteFilter{Page: repository.Page{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].ID)
}

func TestInvoiceRepo_UnaConversionPorCotizacion(t *testing.T) {
	ctx := context.Background()
	set := memory.NewStore().Set()

	require.NoError(t, set.Invoices.Create(ctx, &entity.Invoice{ID: "i1", QuoteID: "q1"}))
	err := set.Invoices.Create(ctx, &entity.Invoice{ID: "i2", QuoteID: "q1"})
	assert.True(t, errors.Is(err, domain.ErrAlreadyConverted))

	require.NoError(t, set.Invoices.Create(ctx, &entity.Invoice{ID: "i3", QuoteID: "q1", TemplateID: "i1"}), "las instancias recurrentes no cuentan")

	n1, _ := set.Invoices.NextNumber(ctx)
	n2, _ := set.Invoices.NextNumber(ctx)
	assert.Equal(t, "FAC-000001", n1)
	assert.Equal(t, "FAC-000002", n2)
}

func TestStore_RunRevierteSiFalla(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	boom := errors.New("boom")
	err := store.Run(ctx, func(tx repository.Set) error {
		require.NoError(t, tx.Clients.Create(ctx, &entity.Client{ID: "c1", Name: "Acme"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Set().Clients.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got, "la creación se deshizo")

	require.NoError(t, store.Run(ctx, func(tx repository.Set) error {
		return tx.Clients.Create(ctx, &entity.Client{ID: "c1", Name: "Acme"})
	}))
	got, _ = store.Set().Clients.GetByID(ctx, "c1")
	assert.NotNil(t, got)
}

func TestUserRepo_EmailUnico(t *testing.T) {
	ctx := context.Background()
	set := memory.NewStore().Set()

	require.NoError(t, set.Users.Create(ctx, &entity.UserProfile{ID: "u1", Email: "Ana@X.co"}))
	err := set.Users.Create(ctx, &entity.UserProfile{ID: "u2", Email: "ana@x.co"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	u, err := set.Users.GetByEmail(ctx, "ANA@x.co")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
}

func TestSessionRepo_Revocacion(t *testing.T) {
	ctx := context.Background()
	set := memory.NewStore().Set()

	ok, err := set.Sessions.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, set.Sessions.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	ok, _ = set.Sessions.IsRevoked(ctx, "jti-1")
	assert.True(t, ok)
}

func TestOrganizationRepo_SinAjustes(t *testing.T) {
	ctx := context.Background()
	set := memory.NewStore().Set()

	org, err := set.Organizations.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, org)

	require.NoError(t, set.Organizations.Save(ctx, &entity.Organization{ID: entity.DefaultOrganizationID, BaseCurrency: "USD"}))
	org, _ = set.Organizations.Get(ctx)
	require.NotNil(t, org)
	assert.Equal(t, "USD", org.BaseCurrency)
}
