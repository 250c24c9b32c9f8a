package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/application/ports"
	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/recurring"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// ExpenseUseCase gastos operativos y su generación recurrente.
type ExpenseUseCase struct {
	repos    repository.Set
	tx       repository.TxRunner
	settings *org.Loader
	events   ports.EventPublisher
	log      *logger.Logger
	now      ports.Clock
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repos repository.Set, tx repository.TxRunner, settings *org.Loader, events ports.EventPublisher, log *logger.Logger) *ExpenseUseCase {
	if events == nil {
		events = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ExpenseUseCase{repos: repos, tx: tx, settings: settings, events: events, log: log.WithComponent("expenses"), now: time.Now}
}

// WithClock fija la fuente de hora (pruebas, CLI).
func (uc *ExpenseUseCase) WithClock(c ports.Clock) *ExpenseUseCase {
	uc.now = c
	return uc
}

// Create registra un gasto. Un gasto recurrente es a la vez el primer cargo y la plantilla
// de los siguientes; remaining_cycles vacío significa sin límite.
func (uc *ExpenseUseCase) Create(ctx context.Context, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	o, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	cur := strings.ToUpper(in.Currency)
	if cur == "" {
		cur = o.BaseCurrency
	}
	e := entity.OperationalExpense{
		ID:           uuid.New().String(),
		Category:     strings.TrimSpace(in.Category),
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		Currency:     cur,
		ExchangeRate: currency.Snapshot(cur, o.BaseCurrency, org.Rates(o)),
		Date:         dateOr(in.Date, now),
		Recurring:    in.Recurring,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Recurring {
		e.Schedule = &entity.ExpenseSchedule{
			Frequency:       entity.Frequency(in.Frequency),
			RemainingCycles: in.RemainingCycles,
			LastGenerated:   e.Date,
		}
	}

	fe := validation.Expense(e)
	if !currency.ValidCode(cur) {
		fe.Add("currency", "código de moneda inválido")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if err := uc.repos.Expenses.Create(ctx, &e); err != nil {
		return nil, fmt.Errorf("billing: crear gasto: %w", err)
	}
	return toExpenseResponse(&e), nil
}

// List gastos, más recientes primero.
func (uc *ExpenseUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ExpenseResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Expenses.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("billing: listar gastos: %w", err)
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toExpenseResponse(e))
	}
	return out, nil
}

// SyncRecurring emite un gasto por cada ciclo vencido y descuenta el contador de la plantilla.
// Cuando el contador llega a 0 la plantilla deja de ser recurrente.
func (uc *ExpenseUseCase) SyncRecurring(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	templates, err := uc.repos.Expenses.ListRecurringTemplates(ctx)
	if err != nil {
		return res, fmt.Errorf("billing: listar plantillas de gasto: %w", err)
	}
	now := uc.now()
	for _, tpl := range templates {
		created, exhausted, err := uc.syncTemplate(ctx, tpl.ID, now)
		if err != nil {
			return res, fmt.Errorf("billing: sincronizar gasto %s: %w", tpl.ID, err)
		}
		res.Created = append(res.Created, created...)
		if exhausted {
			res.Exhausted++
		}
	}
	return res, nil
}

func (uc *ExpenseUseCase) syncTemplate(ctx context.Context, id string, now time.Time) ([]string, bool, error) {
	var created []string
	var exhausted bool
	err := uc.tx.Run(ctx, func(tx repository.Set) error {
		created, exhausted = nil, false
		tpl, err := tx.Expenses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if tpl == nil || !tpl.Recurring || tpl.Schedule == nil {
			return nil
		}
		plan := recurring.Schedule(recurring.Template{
			Frequency: tpl.Schedule.Frequency,
			Last:      tpl.Schedule.LastGenerated,
			Remaining: tpl.Schedule.RemainingCycles,
		}, now)
		if len(plan.Dates) == 0 && !plan.Exhausted {
			return nil
		}

		for _, date := range plan.Dates {
			inst := entity.OperationalExpense{
				ID:           uuid.New().String(),
				Category:     tpl.Category,
				Description:  tpl.Description,
				TemplateID:   tpl.ID,
				Amount:       tpl.Amount,
				Currency:     tpl.Currency,
				ExchangeRate: tpl.ExchangeRate,
				Date:         date,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Expenses.Create(ctx, &inst); err != nil {
				return err
			}
			created = append(created, inst.ID)
		}
		tpl.Schedule.LastGenerated = plan.Last
		tpl.Schedule.RemainingCycles = plan.Remaining
		if plan.Exhausted {
			tpl.Recurring = false
			exhausted = true
		}
		tpl.UpdatedAt = now
		return tx.Expenses.Update(ctx, tpl)
	})
	if err != nil {
		return nil, false, err
	}
	if len(created) > 0 {
		uc.log.Info().Str("template", id).Int("created", len(created)).Bool("exhausted", exhausted).Msg("gastos recurrentes emitidos")
		if err := uc.events.Publish(ctx, ports.Event{
			Type:        ports.EventRecurringGenerated,
			AggregateID: id,
			OccurredAt:  now,
			Payload:     map[string]any{"kind": "expense", "created": created, "exhausted": exhausted},
		}); err != nil {
			uc.log.Warn().Err(err).Str("template", id).Msg("no se pudo publicar el evento")
		}
	}
	return created, exhausted, nil
}
