package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/ports"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
	"github.com/jhoicas/Cotiza-api/internal/domain/recurring"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// DefaultDueDays plazo de pago por defecto de una factura.
const DefaultDueDays = 30

// InvoiceUseCase conversión de cotizaciones, pagos y facturación recurrente.
type InvoiceUseCase struct {
	repos  repository.Set
	tx     repository.TxRunner
	events ports.EventPublisher
	log    *logger.Logger
	now    ports.Clock
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repos repository.Set, tx repository.TxRunner, events ports.EventPublisher, log *logger.Logger) *InvoiceUseCase {
	if events == nil {
		events = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{repos: repos, tx: tx, events: events, log: log.WithComponent("invoices"), now: time.Now}
}

// WithClock fija la fuente de hora (pruebas, CLI).
func (uc *InvoiceUseCase) WithClock(c ports.Clock) *InvoiceUseCase {
	uc.now = c
	return uc
}

// ConvertQuote crea la factura de una cotización aprobada.
//
// Solo la versión vigente de la familia puede convertirse, y una sola vez. La factura cobra lo
// pactado al firmar (líneas únicas, anticipos y la primera cuota) en la moneda y tasa capturadas
// por la cotización. Si la cotización tiene líneas recurrentes, la factura queda como plantilla
// que emite una factura por ciclo con el monto recurrente.
func (uc *InvoiceUseCase) ConvertQuote(ctx context.Context, quoteID string, in dto.ConvertQuoteRequest) (*dto.InvoiceResponse, error) {
	if in.DueDays < 0 {
		return nil, validation.FieldErrors{"due_days": "no puede ser negativo"}
	}
	dueDays := in.DueDays
	if dueDays == 0 {
		dueDays = DefaultDueDays
	}

	var inv entity.Invoice
	err := uc.tx.Run(ctx, func(tx repository.Set) error {
		q, err := tx.Quotes.GetByID(ctx, quoteID)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		if q.Status != entity.QuoteStatusApproved {
			return fmt.Errorf("%w: la cotización está en estado %s", domain.ErrInvalidTransition, q.Status)
		}
		if q.ConvertedInvoiceID != "" {
			return domain.ErrAlreadyConverted
		}
		if freqs := q.RecurringFrequencies(); len(freqs) > 1 {
			return validation.FieldErrors{"items": "las líneas recurrentes deben compartir frecuencia para generar una factura recurrente"}
		}
		versions, err := tx.Quotes.ListByRoot(ctx, q.RootID())
		if err != nil {
			return err
		}
		fam, err := entity.NewQuoteFamily(derefQuotes(versions))
		if err != nil {
			return err
		}
		if !fam.IsLive(q.ID) {
			return domain.ErrNotLiveVersion
		}
		if prev, err := tx.Invoices.GetByQuoteID(ctx, q.ID); err != nil {
			return err
		} else if prev != nil {
			return domain.ErrAlreadyConverted
		}

		number, err := tx.Invoices.NextNumber(ctx)
		if err != nil {
			return err
		}
		now := uc.now()
		inv = entity.Invoice{
			ID:           uuid.New().String(),
			Number:       number,
			QuoteID:      q.ID,
			ClientID:     q.ClientID,
			Date:         now,
			DueDate:      now.AddDate(0, 0, dueDays),
			TotalAmount:  q.DueAtSigning,
			Currency:     q.Currency,
			ExchangeRate: q.ExchangeRate,
			Notes:        strings.TrimSpace(in.Notes),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if q.HasRecurringLines() && q.RecurringAmount.IsPositive() {
			inv.Recurring = true
			inv.Schedule = &entity.InvoiceSchedule{
				Frequency:     q.RecurringFrequency(),
				EndDate:       recurringEndDate(*q, now, in.RecurringEndDate),
				LastGenerated: now,
				CycleAmount:   q.RecurringAmount,
			}
		}
		if err := tx.Invoices.Create(ctx, &inv); err != nil {
			return err
		}
		q.ConvertedInvoiceID = inv.ID
		q.UpdatedAt = now
		return tx.Quotes.Update(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("billing: convertir cotización %s: %w", quoteID, err)
	}

	uc.publish(ctx, ports.Event{
		Type:        ports.EventInvoiceCreated,
		AggregateID: inv.ID,
		OccurredAt:  inv.CreatedAt,
		Payload: map[string]any{
			"number":       inv.Number,
			"quote_id":     inv.QuoteID,
			"client_id":    inv.ClientID,
			"total_amount": inv.TotalAmount.String(),
			"currency":     inv.Currency,
			"recurring":    inv.Recurring,
		},
	})
	return toInvoiceResponse(&inv), nil
}

// RecordPayment agrega un pago al historial. Una factura pagada no admite más pagos
// y un pago no puede superar el saldo pendiente.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, invoiceID string, in dto.PaymentRequest) (*dto.InvoiceResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, validation.FieldErrors{"amount": "debe ser mayor que cero"}
	}

	var out entity.Invoice
	var payment entity.PaymentRecord
	err := uc.tx.Run(ctx, func(tx repository.Set) error {
		inv, err := tx.Invoices.GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status() == entity.PaymentStatusPaid {
			return fmt.Errorf("%w: la factura %s ya está pagada", domain.ErrConflict, inv.Number)
		}
		if in.Amount.GreaterThan(inv.Balance()) {
			return validation.FieldErrors{"amount": "excede el saldo pendiente de " + inv.Balance().StringFixed(2)}
		}
		now := uc.now()
		payment = entity.PaymentRecord{
			ID:        uuid.New().String(),
			Amount:    in.Amount,
			Date:      dateOr(in.Date, now),
			Method:    strings.TrimSpace(in.Method),
			Reference: strings.TrimSpace(in.Reference),
		}
		inv.PaymentHistory = append(inv.PaymentHistory, payment)
		inv.UpdatedAt = now
		out = *inv
		return tx.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, fmt.Errorf("billing: registrar pago en %s: %w", invoiceID, err)
	}

	uc.publish(ctx, ports.Event{
		Type:        ports.EventInvoicePaymentRecorded,
		AggregateID: out.ID,
		OccurredAt:  out.UpdatedAt,
		Payload: map[string]any{
			"payment_id": payment.ID,
			"amount":     payment.Amount.String(),
			"status":     out.Status(),
		},
	})
	return toInvoiceResponse(&out), nil
}

// Get una factura por id.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("billing: obtener factura %s: %w", id, err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// List facturas, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Invoices.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("billing: listar facturas: %w", err)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv))
	}
	return out, nil
}

// SyncResult documentos emitidos en una sincronización.
type SyncResult struct {
	Created   []string
	Exhausted int
}

// SyncRecurring emite una factura por cada ciclo vencido de cada plantilla y avanza su
// LastGenerated. Volver a ejecutarla con la misma hora no emite nada.
func (uc *InvoiceUseCase) SyncRecurring(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	templates, err := uc.repos.Invoices.ListRecurringTemplates(ctx)
	if err != nil {
		return res, fmt.Errorf("billing: listar plantillas: %w", err)
	}
	now := uc.now()
	for _, tpl := range templates {
		created, err := uc.syncTemplate(ctx, tpl.ID, now)
		if err != nil {
			return res, fmt.Errorf("billing: sincronizar plantilla %s: %w", tpl.Number, err)
		}
		res.Created = append(res.Created, created...)
	}
	return res, nil
}

func (uc *InvoiceUseCase) syncTemplate(ctx context.Context, id string, now time.Time) ([]string, error) {
	var created []string
	var tpl entity.Invoice
	err := uc.tx.Run(ctx, func(tx repository.Set) error {
		created = nil
		cur, err := tx.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil || !cur.Recurring || cur.Schedule == nil {
			return nil
		}
		tpl = *cur
		plan := recurring.Schedule(recurring.Template{
			Frequency: tpl.Schedule.Frequency,
			Last:      tpl.Schedule.LastGenerated,
			EndDate:   tpl.Schedule.EndDate,
		}, now)
		if len(plan.Dates) == 0 {
			return nil
		}

		dueGap := tpl.DueDate.Sub(tpl.Date)
		for _, date := range plan.Dates {
			number, err := tx.Invoices.NextNumber(ctx)
			if err != nil {
				return err
			}
			inst := entity.Invoice{
				ID:           uuid.New().String(),
				Number:       number,
				QuoteID:      tpl.QuoteID,
				ClientID:     tpl.ClientID,
				TemplateID:   tpl.ID,
				Date:         date,
				DueDate:      date.Add(dueGap),
				TotalAmount:  tpl.Schedule.CycleAmount,
				Currency:     tpl.Currency,
				ExchangeRate: tpl.ExchangeRate,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Invoices.Create(ctx, &inst); err != nil {
				return err
			}
			created = append(created, inst.ID)
		}
		tpl.Schedule.LastGenerated = plan.Last
		tpl.UpdatedAt = now
		return tx.Invoices.Update(ctx, &tpl)
	})
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		uc.log.Info().Str("template", tpl.Number).Int("created", len(created)).Msg("facturas recurrentes emitidas")
		uc.publish(ctx, ports.Event{
			Type:        ports.EventRecurringGenerated,
			AggregateID: tpl.ID,
			OccurredAt:  now,
			Payload:     map[string]any{"kind": "invoice", "created": created},
		})
	}
	return created, nil
}

func (uc *InvoiceUseCase) publish(ctx context.Context, ev ports.Event) {
	if err := uc.events.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", ev.Type).Str("aggregate_id", ev.AggregateID).Msg("no se pudo publicar el evento")
	}
}

// recurringEndDate fin de la facturación recurrente: el indicado o, por defecto, el último mes del
// contrato más largo (la primera cuota ya va en la factura de firma).
func recurringEndDate(q entity.Quote, start time.Time, explicit *time.Time) *time.Time {
	if explicit != nil && !explicit.IsZero() {
		end := *explicit
		return &end
	}
	months := 0
	for _, it := range q.Items {
		if it.BillingFrequency.IsRecurring() {
			if n := int(pricing.ContractMonths(it)); n > months {
				months = n
			}
		}
	}
	if months == 0 {
		return nil
	}
	end := start.AddDate(0, months-1, 0)
	return &end
}

func derefQuotes(in []*entity.Quote) []entity.Quote {
	out := make([]entity.Quote, 0, len(in))
	for _, q := range in {
		out = append(out, *q)
	}
	return out
}

func dateOr(d *time.Time, fallback time.Time) time.Time {
	if d == nil || d.IsZero() {
		return fallback
	}
	return *d
}
