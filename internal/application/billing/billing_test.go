package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s got %s", msg, want, got)
}

var start = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

type env struct {
	store *memory.Store
	repos repository.Set
	clock time.Time
}

func newEnv() *env {
	s := memory.NewStore()
	return &env{store: s, repos: s.Set(), clock: start}
}

func (e *env) now() time.Time { return e.clock }

func (e *env) invoices() *billing.InvoiceUseCase {
	return billing.NewInvoiceUseCase(e.repos, e.store, nil, logger.Nop()).WithClock(e.now)
}

func (e *env) expenses() *billing.ExpenseUseCase {
	return billing.NewExpenseUseCase(e.repos, e.store, org.NewLoader(e.repos.Organizations, "USD"), nil, logger.Nop()).WithClock(e.now)
}

// seedQuote guarda una versión con totales derivados (sin comisión).
func (e *env) seedQuote(t *testing.T, id, parent string, version int, status string, items ...entity.QuoteLineItem) entity.Quote {
	t.Helper()
	q := pricing.ApplyTotals(entity.Quote{
		ID: id, ParentQuoteID: parent, Version: version, ClientID: "c1",
		Date: start, Status: status, Items: items,
		Discount: entity.Adjustment{Kind: entity.AmountFixed},
		Currency: "EUR", ExchangeRate: d("0.9"), CreatedAt: start,
	}, decimal.Zero)
	require.NoError(t, e.repos.Quotes.Create(context.Background(), &q))
	return q
}

func monthly(months int) entity.QuoteLineItem {
	return entity.QuoteLineItem{
		Quantity: d("1"), UnitPrice: d("300"), UnitCost: d("100"),
		BillingFrequency: entity.FrequencyMonthly, ContractMonths: months,
		DownPayment: entity.Adjustment{Value: d("50"), Kind: entity.AmountFixed},
	}
}

func oneTime(price string) entity.QuoteLineItem {
	return entity.QuoteLineItem{Quantity: d("1"), UnitPrice: d(price), BillingFrequency: entity.FrequencyOneTime}
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión
// ──────────────────────────────────────────────────────────────────────────────

func TestConvertQuote_FacturaRecurrente(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedQuote(t, "q1", "", 1, entity.QuoteStatusApproved, monthly(3))

	inv, err := e.invoices().ConvertQuote(ctx, "q1", dto.ConvertQuoteRequest{})
	require.NoError(t, err)

	assert.Equal(t, "FAC-000001", inv.Number)
	assertDec(t, "350", inv.TotalAmount, "anticipo + primera cuota")
	assert.Equal(t, "EUR", inv.Currency)
	assertDec(t, "0.9", inv.ExchangeRate, "tasa de la cotización")
	assert.Equal(t, entity.PaymentStatusUnpaid, inv.Status)
	assert.True(t, inv.DueDate.Equal(start.AddDate(0, 0, billing.DefaultDueDays)))
	require.True(t, inv.Recurring)
	require.NotNil(t, inv.Schedule)
	assertDec(t, "300", inv.Schedule.CycleAmount, "cuota")
	require.NotNil(t, inv.Schedule.EndDate)
	assert.True(t, inv.Schedule.EndDate.Equal(start.AddDate(0, 2, 0)), "3 meses: firma + 2 ciclos")

	q, err := e.repos.Quotes.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, q.ConvertedInvoiceID)
	assert.Equal(t, entity.QuoteStatusApproved, q.Status, "convertir no cambia el estado")

	_, err = e.invoices().ConvertQuote(ctx, "q1", dto.ConvertQuoteRequest{})
	assert.True(t, errors.Is(err, domain.ErrAlreadyConverted))
}

func TestConvertQuote_SoloUnico(t *testing.T) {
	e := newEnv()
	e.seedQuote(t, "q1", "", 1, entity.QuoteStatusApproved, oneTime("500"))

	inv, err := e.invoices().ConvertQuote(context.Background(), "q1", dto.ConvertQuoteRequest{DueDays: 15})
	require.NoError(t, err)
	assertDec(t, "500", inv.TotalAmount, "total")
	assert.False(t, inv.Recurring)
	assert.Nil(t, inv.Schedule)
	assert.True(t, inv.DueDate.Equal(start.AddDate(0, 0, 15)))
}

func TestConvertQuote_Rechazos(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedQuote(t, "draft", "", 1, entity.QuoteStatusDraft, oneTime("10"))
	e.seedQuote(t, "root", "", 1, entity.QuoteStatusApproved, oneTime("10"))
	e.seedQuote(t, "root-v2", "root", 2, entity.QuoteStatusDraft, oneTime("20"))

	_, err := e.invoices().ConvertQuote(ctx, "draft", dto.ConvertQuoteRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "solo aprobadas")

	_, err = e.invoices().ConvertQuote(ctx, "root", dto.ConvertQuoteRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotLiveVersion), "v1 ya no es la vigente")

	_, err = e.invoices().ConvertQuote(ctx, "nope", dto.ConvertQuoteRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := e.invoices().List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list, "ningún rechazo crea factura")
}

func TestConvertQuote_FrecuenciasMixtasSeRechazan(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	m := entity.QuoteLineItem{
		Quantity: d("1"), UnitPrice: d("10"), BillingFrequency: entity.FrequencyMonthly, ContractMonths: 24,
	}
	a := entity.QuoteLineItem{
		Quantity: d("1"), UnitPrice: d("100"), BillingFrequency: entity.FrequencyAnnual, ContractMonths: 24,
	}
	e.seedQuote(t, "q1", "", 1, entity.QuoteStatusApproved, m, a)

	_, err := e.invoices().ConvertQuote(ctx, "q1", dto.ConvertQuoteRequest{})
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe), "err: %v", err)
	assert.Contains(t, fe, "items")

	q, err := e.repos.Quotes.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Empty(t, q.ConvertedInvoiceID)

	e.clock = start.AddDate(0, 3, 0)
	res, err := e.invoices().SyncRecurring(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	list, err := e.invoices().List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list, "no se genera ninguna factura ni ciclo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPayment_EstadosDerivados(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedQuote(t, "q1", "", 1, entity.QuoteStatusApproved, oneTime("350"))
	uc := e.invoices()
	inv, err := uc.ConvertQuote(ctx, "q1", dto.ConvertQuoteRequest{})
	require.NoError(t, err)

	partial, err := uc.RecordPayment(ctx, inv.ID, dto.PaymentRequest{Amount: d("100"), Method: "transferencia"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, partial.Status)
	assertDec(t, "250", partial.Balance, "saldo")

	_, err = uc.RecordPayment(ctx, inv.ID, dto.PaymentRequest{Amount: d("300")})
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe), "excede el saldo: %v", err)
	assert.Contains(t, fe, "amount")

	paid, err := uc.RecordPayment(ctx, inv.ID, dto.PaymentRequest{Amount: d("250")})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, paid.Status)
	require.Len(t, paid.Payments, 2, "historial append-only")
	assertDec(t, "100", paid.Payments[0].Amount, "primer pago intacto")

	_, err = uc.RecordPayment(ctx, inv.ID, dto.PaymentRequest{Amount: d("1")})
	assert.True(t, errors.Is(err, domain.ErrConflict), "pagada es terminal")
}

func TestRecordPayment_MontoInvalido(t *testing.T) {
	e := newEnv()
	_, err := e.invoices().RecordPayment(context.Background(), "x", dto.PaymentRequest{Amount: decimal.Zero})
	var fe validation.FieldErrors
	assert.True(t, errors.As(err, &fe))
}

// ──────────────────────────────────────────────────────────────────────────────
// Recurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceSyncRecurring_HastaFechaDeFin(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedQuote(t, "q1", "", 1, entity.QuoteStatusApproved, monthly(3))
	tpl, err := e.invoices().ConvertQuote(ctx, "q1", dto.ConvertQuoteRequest{})
	require.NoError(t, err)

	e.clock = start.AddDate(0, 6, 0)
	res, err := e.invoices().SyncRecurring(ctx)
	require.NoError(t, err)
	require.Len(t, res.Created, 2, "febrero y marzo; abril supera el fin")

	again, err := e.invoices().SyncRecurring(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Created, "re-ejecutar no duplica")

	inst, err := e.invoices().Get(ctx, res.Created[0])
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, inst.TemplateID)
	assert.Equal(t, "q1", inst.QuoteID)
	assertDec(t, "300", inst.TotalAmount, "monto del ciclo")
	assert.Equal(t, "EUR", inst.Currency)
	assert.False(t, inst.Recurring)
	assert.Equal(t, "FAC-000002", inst.Number)

	got, err := e.invoices().Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.True(t, got.Schedule.LastGenerated.Equal(start.AddDate(0, 2, 0)))
	assert.True(t, got.Recurring, "la fecha de fin no apaga la plantilla")
}

func TestInvoiceSyncRecurring_Incremental(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedQuote(t, "q1", "", 1, entity.QuoteStatusApproved, monthly(12))
	_, err := e.invoices().ConvertQuote(ctx, "q1", dto.ConvertQuoteRequest{})
	require.NoError(t, err)

	e.clock = start.AddDate(0, 1, 0)
	res, err := e.invoices().SyncRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)

	e.clock = start.AddDate(0, 3, 0)
	res, err = e.invoices().SyncRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Created, 2, "solo los ciclos nuevos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Gastos
// ──────────────────────────────────────────────────────────────────────────────

func intPtr(n int) *int { return &n }

func TestExpenseCreate_Validacion(t *testing.T) {
	e := newEnv()
	_, err := e.expenses().Create(context.Background(), dto.ExpenseRequest{Amount: d("-1"), Recurring: true})
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "category")
	assert.Contains(t, fe, "amount")
	assert.Contains(t, fe, "frequency")
}

func TestExpenseSyncRecurring_ContadorSeAgota(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	uc := e.expenses()
	tpl, err := uc.Create(ctx, dto.ExpenseRequest{
		Category: "Hosting", Amount: d("40"), Recurring: true,
		Frequency: string(entity.FrequencyMonthly), RemainingCycles: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", tpl.Currency)
	assertDec(t, "1", tpl.ExchangeRate, "moneda base")

	e.clock = start.AddDate(0, 5, 0)
	res, err := uc.SyncRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	assert.Equal(t, 1, res.Exhausted)

	got, err := e.repos.Expenses.GetByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.False(t, got.Recurring, "contador en 0 apaga la plantilla")
	require.NotNil(t, got.Schedule.RemainingCycles)
	assert.Equal(t, 0, *got.Schedule.RemainingCycles)

	again, err := uc.SyncRecurring(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Created)

	all, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3, "plantilla + 2 instancias")
}

func TestExpenseSyncRecurring_SinLimite(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	uc := e.expenses()
	_, err := uc.Create(ctx, dto.ExpenseRequest{
		Category: "Servidor", Amount: d("2"), Recurring: true, Frequency: string(entity.FrequencyDaily),
	})
	require.NoError(t, err)

	e.clock = start.AddDate(0, 0, 3)
	res, err := uc.SyncRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Created, 3)
	assert.Zero(t, res.Exhausted)
}
