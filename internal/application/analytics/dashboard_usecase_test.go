package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/analytics"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s got %s", msg, want, got)
}

var fixedNow = time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

func day(m time.Month, dd int) time.Time { return time.Date(2026, m, dd, 10, 0, 0, 0, time.UTC) }

func quote(id, parent string, version int, sp, status string, date time.Time) *entity.Quote {
	q := entity.Quote{
		ID: id, ParentQuoteID: parent, Version: version, SalespersonID: sp, ClientID: "c1",
		Date: date, Status: status, Currency: "USD", ExchangeRate: d("1"),
		Items: []entity.QuoteLineItem{{
			Quantity: d("1"), UnitPrice: d("1000"), UnitCost: d("400"),
			BillingFrequency: entity.FrequencyOneTime,
		}},
		Discount: entity.Adjustment{Kind: entity.AmountFixed},
	}
	q = pricing.ApplyTotals(q, d("10"))
	return &q
}

func newDashboard(t *testing.T) *analytics.DashboardUseCase {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Set()

	require.NoError(t, repos.Organizations.Save(ctx, &entity.Organization{
		ID: entity.DefaultOrganizationID, BaseCurrency: "USD",
		Rates: map[string]decimal.Decimal{"USD": d("1"), "EUR": d("0.9")},
	}))
	require.NoError(t, repos.Salespeople.Create(ctx, &entity.Salesperson{ID: "sp1", Name: "Ana", Email: "ana@cotiza.co", Active: true}))
	require.NoError(t, repos.Salespeople.Create(ctx, &entity.Salesperson{ID: "sp2", Name: "Beto", Email: "beto@cotiza.co", Active: true, MonthlyVisitTarget: 8}))
	require.NoError(t, repos.Leads.Create(ctx, &entity.Lead{ID: "l1", Name: "Prospecto", SalespersonID: "sp2", Visits: 3, Status: entity.LeadStatusPotential}))

	// familia A: v1 rechazada, v2 aprobada (vigente)
	require.NoError(t, repos.Quotes.Create(ctx, quote("qa1", "", 1, "sp1", entity.QuoteStatusRejected, day(time.February, 1))))
	require.NoError(t, repos.Quotes.Create(ctx, quote("qa2", "qa1", 2, "sp1", entity.QuoteStatusApproved, day(time.February, 10))))
	// familia B: borrador
	require.NoError(t, repos.Quotes.Create(ctx, quote("qb1", "", 1, "sp2", entity.QuoteStatusDraft, day(time.March, 2))))

	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{
		ID: "inv1", Number: "FAC-000001", QuoteID: "qa2", ClientID: "c1",
		Date: day(time.February, 15), DueDate: day(time.March, 1),
		TotalAmount: d("1000"), Currency: "USD", ExchangeRate: d("1"),
		PaymentHistory: []entity.PaymentRecord{{ID: "p1", Amount: d("400"), Date: day(time.February, 20)}},
	}))
	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{
		ID: "inv2", Number: "FAC-000002", ClientID: "c1",
		Date: day(time.March, 5), DueDate: day(time.April, 4),
		TotalAmount: d("90"), Currency: "EUR", ExchangeRate: d("0.9"),
	}))
	require.NoError(t, repos.Expenses.Create(ctx, &entity.OperationalExpense{
		ID: "e1", Category: "Arriendo", Amount: d("50"), Currency: "USD", ExchangeRate: d("1"), Date: day(time.March, 1),
	}))

	uc := analytics.NewDashboardUseCase(repos, org.NewLoader(repos.Organizations, "USD"))
	return uc.WithClock(func() time.Time { return fixedNow })
}

func TestSummary_GraficoYAcumulado(t *testing.T) {
	out, err := newDashboard(t).Summary(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "USD", out.BaseCurrency)
	assert.Equal(t, "Marzo 2026", out.DateLabel)
	require.Len(t, out.Chart, analytics.ChartMonths)
	assert.Equal(t, "2025-10", out.Chart[0].Month)
	assert.Equal(t, "Octubre 2025", out.Chart[0].Label)

	feb := out.Chart[4]
	assert.Equal(t, "2026-02", feb.Month)
	assertDec(t, "1000", feb.Revenue, "ingreso de febrero")
	assertDec(t, "400", feb.COGS, "solo la versión vigente aporta costo")
	assertDec(t, "100", feb.Commission, "comisión")
	assertDec(t, "500", feb.NetProfit, "neto")

	mar := out.Chart[5]
	assertDec(t, "100", mar.Revenue, "90 EUR a tasa capturada 0.9")
	assertDec(t, "50", mar.OperationalExpenses, "gasto")
	assertDec(t, "50", mar.NetProfit, "neto")

	assertDec(t, "1100", out.ToDate.Revenue, "ingreso acumulado")
	assertDec(t, "550", out.ToDate.NetProfit, "neto acumulado")
	assert.Empty(t, out.ToDate.Month)
}

func TestSummary_CarteraEmbudoYRanking(t *testing.T) {
	out, err := newDashboard(t).Summary(context.Background(), "")
	require.NoError(t, err)

	assertDec(t, "700", out.Receivables.Outstanding, "600 + 100")
	assertDec(t, "600", out.Receivables.Overdue, "inv1 vencida")
	assert.Equal(t, 2, out.Receivables.OpenCount)
	assert.Equal(t, 1, out.Receivables.OverdueCount)

	assert.Equal(t, 1, out.Pipeline.Approved)
	assert.Equal(t, 1, out.Pipeline.Draft)
	assert.Equal(t, 0, out.Pipeline.Rejected, "la v1 reemplazada no cuenta")
	assertDec(t, "1000", out.Pipeline.ApprovedValue, "valor aprobado")

	require.Len(t, out.Leaderboard, 2)
	assert.Equal(t, "sp1", out.Leaderboard[0].SalespersonID)
	assert.Equal(t, 1, out.Leaderboard[0].ApprovedQuotes)
	assertDec(t, "100", out.Leaderboard[0].Commission, "comisión")
	assert.Equal(t, "sp2", out.Leaderboard[1].SalespersonID)
	assert.Equal(t, 3, out.Leaderboard[1].Visits)
	assert.Equal(t, 8, out.Leaderboard[1].MonthlyVisitTarget)
}

func TestSummary_MesExplicito(t *testing.T) {
	uc := newDashboard(t)
	out, err := uc.Summary(context.Background(), "2026-02")
	require.NoError(t, err)
	assert.Equal(t, "2026-02", out.Chart[len(out.Chart)-1].Month)
	assert.Equal(t, "Febrero 2026", out.DateLabel)

	_, err = uc.Summary(context.Background(), "febrero")
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "month")
}

func TestSummary_BorradorPosteriorNoBorraCostoAprobado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Set()

	approved := quote("q1", "", 1, "", entity.QuoteStatusApproved, day(time.February, 10))
	approved.ConvertedInvoiceID = "inv1"
	require.NoError(t, repos.Quotes.Create(ctx, approved))
	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{
		ID: "inv1", Number: "FAC-000001", QuoteID: "q1", ClientID: "c1",
		Date: day(time.February, 15), DueDate: day(time.March, 1),
		TotalAmount: d("1000"), Currency: "USD", ExchangeRate: d("1"),
	}))
	uc := analytics.NewDashboardUseCase(repos, org.NewLoader(repos.Organizations, "USD")).
		WithClock(func() time.Time { return fixedNow })

	before, err := uc.Summary(ctx, "")
	require.NoError(t, err)
	assertDec(t, "400", before.ToDate.COGS, "costo reconocido")
	assertDec(t, "100", before.ToDate.Commission, "comisión reconocida")

	require.NoError(t, repos.Quotes.Create(ctx, quote("q2", "q1", 2, "", entity.QuoteStatusDraft, day(time.March, 5))))

	after, err := uc.Summary(ctx, "")
	require.NoError(t, err)
	assertDec(t, "400", after.ToDate.COGS, "el borrador v2 no reemplaza a la aprobada")
	assertDec(t, "100", after.ToDate.Commission, "comisión intacta")
	assertDec(t, "500", after.ToDate.NetProfit, "1000 - 400 - 100")
	assert.Equal(t, 1, after.Pipeline.Approved)
	assert.Equal(t, 0, after.Pipeline.Draft)
}
