// Package analytics contiene los casos de uso para reportes de negocio y el
// tablero financiero.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/application/ports"
	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/recognition"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
)

// ChartMonths meses del gráfico del tablero.
const ChartMonths = 6

// DashboardUseCase genera el resumen financiero: gráfico de 6 meses, acumulado a la fecha,
// cartera, embudo de cotizaciones y ranking de vendedores.
//
// Lee todas las colecciones en paralelo y calcula en memoria con el motor de reconocimiento,
// de modo que gráfico y acumulado usan exactamente la misma regla.
type DashboardUseCase struct {
	repos    repository.Set
	settings *org.Loader
	now      ports.Clock
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repos repository.Set, settings *org.Loader) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, settings: settings, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(c ports.Clock) *DashboardUseCase {
	uc.now = c
	return uc
}

type snapshot struct {
	org         *entity.Organization
	quotes      []*entity.Quote
	invoices    []*entity.Invoice
	expenses    []*entity.OperationalExpense
	salespeople []*entity.Salesperson
	leads       []*entity.Lead
}

// Summary construye el DashboardSummaryDTO. month (AAAA-MM) fija el último mes del gráfico;
// vacío usa el mes en curso.
func (uc *DashboardUseCase) Summary(ctx context.Context, month string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	end := recognition.MonthOf(now)
	if month != "" {
		m, err := recognition.ParseMonth(month)
		if err != nil {
			return nil, validation.FieldErrors{"month": "formato esperado AAAA-MM"}
		}
		end = m
	}

	snap, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	rs := recognition.Snapshot{
		Quotes:       effectiveVersions(snap.quotes),
		Invoices:     derefInvoices(snap.invoices),
		Expenses:     derefExpenses(snap.expenses),
		BaseCurrency: snap.org.BaseCurrency,
		Rates:        org.Rates(snap.org),
	}

	out := &dto.DashboardSummaryDTO{
		BaseCurrency: rs.BaseCurrency,
		Chart:        make([]dto.MonthFigureDTO, 0, ChartMonths),
		DateLabel:    monthLabel(end),
		GeneratedAt:  now,
	}
	for _, s := range recognition.RollingChart(end, ChartMonths, rs, now) {
		out.Chart = append(out.Chart, toMonthFigure(s, true))
	}
	toDate := toMonthFigure(recognition.ToDate(rs, now), false)
	toDate.Label = "Acumulado a la fecha"
	out.ToDate = toDate
	out.Receivables = receivables(rs, now)
	out.Pipeline = pipeline(rs)
	out.Leaderboard = leaderboard(rs, snap.salespeople, snap.leads)
	return out, nil
}

func (uc *DashboardUseCase) load(ctx context.Context) (*snapshot, error) {
	var s snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.org, err = uc.settings.Load(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.quotes, err = uc.repos.Quotes.List(gctx, repository.QuoteFilter{})
		return err
	})
	g.Go(func() (err error) {
		s.invoices, err = uc.repos.Invoices.List(gctx, repository.Page{})
		return err
	})
	g.Go(func() (err error) {
		s.expenses, err = uc.repos.Expenses.List(gctx, repository.Page{})
		return err
	})
	g.Go(func() (err error) {
		s.salespeople, err = uc.repos.Salespeople.List(gctx, repository.Page{})
		return err
	})
	g.Go(func() (err error) {
		s.leads, err = uc.repos.Leads.List(gctx, repository.Page{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: cargar datos: %w", err)
	}
	return &s, nil
}

// effectiveVersions una versión por familia: la facturada, o la última aprobada, o la vigente.
// Un borrador posterior no le quita a la versión aprobada su costo reconocido.
func effectiveVersions(quotes []*entity.Quote) []entity.Quote {
	flat := make([]entity.Quote, 0, len(quotes))
	for _, q := range quotes {
		flat = append(flat, *q)
	}
	fams := entity.GroupFamilies(flat)
	out := make([]entity.Quote, 0, len(fams))
	for _, f := range fams {
		out = append(out, f.Effective())
	}
	return out
}

func receivables(rs recognition.Snapshot, now time.Time) dto.ReceivablesDTO {
	var r dto.ReceivablesDTO
	outstanding, overdue := decimal.Zero, decimal.Zero
	for _, inv := range rs.Invoices {
		bal := inv.Balance()
		if !bal.IsPositive() {
			continue
		}
		bal = normalize(rs, bal, inv.Currency, inv.ExchangeRate)
		outstanding = outstanding.Add(bal)
		r.OpenCount++
		if !inv.DueDate.IsZero() && inv.DueDate.Before(now) {
			overdue = overdue.Add(bal)
			r.OverdueCount++
		}
	}
	r.Outstanding = dto.Money(outstanding)
	r.Overdue = dto.Money(overdue)
	return r
}

func pipeline(rs recognition.Snapshot) dto.PipelineDTO {
	var p dto.PipelineDTO
	approved := decimal.Zero
	for _, q := range rs.Quotes {
		switch q.Status {
		case entity.QuoteStatusDraft:
			p.Draft++
		case entity.QuoteStatusSent:
			p.Sent++
		case entity.QuoteStatusApproved:
			p.Approved++
			approved = approved.Add(normalize(rs, q.TotalAmount, q.Currency, q.ExchangeRate))
		case entity.QuoteStatusRejected:
			p.Rejected++
		}
	}
	p.ApprovedValue = dto.Money(approved)
	return p
}

func leaderboard(rs recognition.Snapshot, salespeople []*entity.Salesperson, leads []*entity.Lead) []dto.SalespersonRankDTO {
	rows := make(map[string]*dto.SalespersonRankDTO, len(salespeople))
	order := make([]string, 0, len(salespeople))
	for _, sp := range salespeople {
		rows[sp.ID] = &dto.SalespersonRankDTO{
			SalespersonID:      sp.ID,
			Name:               sp.Name,
			MonthlyVisitTarget: sp.MonthlyVisitTarget,
			ApprovedTotal:      decimal.Zero,
			Commission:         decimal.Zero,
		}
		order = append(order, sp.ID)
	}
	for _, q := range rs.Quotes {
		row, ok := rows[q.SalespersonID]
		if !ok || q.Status != entity.QuoteStatusApproved {
			continue
		}
		row.ApprovedQuotes++
		row.ApprovedTotal = row.ApprovedTotal.Add(normalize(rs, q.TotalAmount, q.Currency, q.ExchangeRate))
		row.Commission = row.Commission.Add(normalize(rs, q.CommissionAmount, q.Currency, q.ExchangeRate))
	}
	for _, l := range leads {
		if row, ok := rows[l.SalespersonID]; ok {
			row.Visits += l.Visits
		}
	}

	out := make([]dto.SalespersonRankDTO, 0, len(order))
	for _, id := range order {
		row := rows[id]
		row.ApprovedTotal = dto.Money(row.ApprovedTotal)
		row.Commission = dto.Money(row.Commission)
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ApprovedTotal.Equal(out[j].ApprovedTotal) {
			return out[i].ApprovedTotal.GreaterThan(out[j].ApprovedTotal)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func normalize(rs recognition.Snapshot, amount decimal.Decimal, from string, captured decimal.Decimal) decimal.Decimal {
	return currency.NormalizeCaptured(amount, from, rs.BaseCurrency, rs.Rates, captured)
}

func toMonthFigure(s recognition.Summary, withMonth bool) dto.MonthFigureDTO {
	f := dto.MonthFigureDTO{
		Label:               monthLabel(s.Month),
		Revenue:             dto.Money(s.Revenue),
		COGS:                dto.Money(s.COGS),
		Commission:          dto.Money(s.Commission),
		OperationalExpenses: dto.Money(s.OperationalExpenses),
		NetProfit:           dto.Money(s.NetProfit),
	}
	if withMonth {
		f.Month = s.Month.String()
	}
	return f
}

func derefInvoices(in []*entity.Invoice) []entity.Invoice {
	out := make([]entity.Invoice, 0, len(in))
	for _, i := range in {
		out = append(out, *i)
	}
	return out
}

func derefExpenses(in []*entity.OperationalExpense) []entity.OperationalExpense {
	out := make([]entity.OperationalExpense, 0, len(in))
	for _, e := range in {
		out = append(out, *e)
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(m recognition.Month) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[m.Month-1], m.Year)
}
