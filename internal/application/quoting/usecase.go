// Package quoting casos de uso de cotizaciones: borradores, estados, revisiones y vista previa.
package quoting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/identity"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/application/ports"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// QuoteUseCase casos de uso de cotizaciones.
type QuoteUseCase struct {
	repos    repository.Set
	tx       repository.TxRunner
	settings *org.Loader
	ident    *identity.Resolver
	events   ports.EventPublisher
	log      *logger.Logger
	now      ports.Clock
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(
	repos repository.Set,
	tx repository.TxRunner,
	settings *org.Loader,
	events ports.EventPublisher,
	log *logger.Logger,
) *QuoteUseCase {
	if events == nil {
		events = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &QuoteUseCase{
		repos:    repos,
		tx:       tx,
		settings: settings,
		ident:    identity.NewResolver(repos.Roles, repos.Salespeople),
		events:   events,
		log:      log.WithComponent("quoting"),
		now:      time.Now,
	}
}

// WithClock fija la fuente de hora (pruebas, CLI).
func (uc *QuoteUseCase) WithClock(c ports.Clock) *QuoteUseCase {
	uc.now = c
	return uc
}

// CreateDraft guarda la versión 1 de una cotización en estado draft.
// Si la cotización apunta a un lead no convertido, el lead pasa a cliente en la misma transacción.
// Un usuario con rol comercial cotiza siempre a nombre de su propio vendedor.
func (uc *QuoteUseCase) CreateDraft(ctx context.Context, actor *entity.UserProfile, in dto.QuoteDraftRequest) (*dto.QuoteResponse, error) {
	own, err := uc.ident.Salesperson(ctx, actor)
	if err != nil {
		return nil, err
	}
	if own != nil {
		in.SalespersonID = own.ID
	}

	o, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	items, err := uc.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	discount := toAdjustment(in.Discount)
	cur := currencyOrBase(in.Currency, o.BaseCurrency)

	fe := validation.QuoteItems(items, discount)
	if in.ClientID == "" && in.LeadID == "" {
		fe.Add("client_id", "indique un cliente o un lead")
	}
	if !currency.ValidCode(cur) {
		fe.Add("currency", "código de moneda inválido")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	now := uc.now()
	q := entity.Quote{
		ID:            uuid.New().String(),
		Version:       1,
		ClientID:      in.ClientID,
		LeadID:        in.LeadID,
		SalespersonID: in.SalespersonID,
		Date:          dateOr(in.Date, now),
		Status:        entity.QuoteStatusDraft,
		Items:         items,
		Discount:      discount,
		Currency:      cur,
		ExchangeRate:  currency.Snapshot(cur, o.BaseCurrency, org.Rates(o)),
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.tx.Run(ctx, func(tx repository.Set) error {
		if err := resolveTarget(ctx, tx, &q, now); err != nil {
			return err
		}
		rate, err := commissionRate(ctx, tx, q.SalespersonID)
		if err != nil {
			return err
		}
		q = pricing.ApplyTotals(q, rate)
		return tx.Quotes.Create(ctx, &q)
	})
	if err != nil {
		return nil, fmt.Errorf("quoting: crear borrador: %w", err)
	}
	return toQuoteResponse(&q), nil
}

// UpdateDraft reemplaza líneas, descuento, destinatario, vendedor y notas de un borrador.
// Las versiones enviadas o cerradas no se editan: retorna ErrImmutableQuote.
func (uc *QuoteUseCase) UpdateDraft(ctx context.Context, actor *entity.UserProfile, id string, in dto.QuoteDraftRequest) (*dto.QuoteResponse, error) {
	own, err := uc.ident.Salesperson(ctx, actor)
	if err != nil {
		return nil, err
	}
	o, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	items, err := uc.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	discount := toAdjustment(in.Discount)
	fe := validation.QuoteItems(items, discount)
	if in.Currency != "" && !currency.ValidCode(in.Currency) {
		fe.Add("currency", "código de moneda inválido")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	var out entity.Quote
	err = uc.tx.Run(ctx, func(tx repository.Set) error {
		q, err := tx.Quotes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		if !q.IsEditable() {
			return domain.ErrImmutableQuote
		}
		if own != nil && q.SalespersonID != own.ID {
			return domain.ErrForbidden
		}

		now := uc.now()
		q.Items = items
		q.Discount = discount
		q.Notes = strings.TrimSpace(in.Notes)
		if in.Date != nil {
			q.Date = *in.Date
		}
		if own == nil && in.SalespersonID != "" {
			q.SalespersonID = in.SalespersonID
		}
		if in.ClientID != "" || in.LeadID != "" {
			q.ClientID, q.LeadID = in.ClientID, in.LeadID
			if err := resolveTarget(ctx, tx, q, now); err != nil {
				return err
			}
		}
		if cur := strings.ToUpper(in.Currency); cur != "" && cur != q.Currency {
			q.Currency = cur
			q.ExchangeRate = currency.Snapshot(cur, o.BaseCurrency, org.Rates(o))
		}

		rate, err := commissionRate(ctx, tx, q.SalespersonID)
		if err != nil {
			return err
		}
		out = pricing.ApplyTotals(*q, rate)
		out.UpdatedAt = now
		return tx.Quotes.Update(ctx, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("quoting: actualizar borrador %s: %w", id, err)
	}
	return toQuoteResponse(&out), nil
}

// Transition cambia el estado de una versión (sent, approved, rejected).
// Aprobar exige un actor con el permiso approve_quotes. Las líneas de una versión aprobada ya no cambian.
func (uc *QuoteUseCase) Transition(ctx context.Context, actor *entity.UserProfile, id string, in dto.QuoteTransitionRequest) (*dto.QuoteResponse, error) {
	next := strings.ToLower(strings.TrimSpace(in.Status))
	if next == entity.QuoteStatusApproved {
		if actor == nil {
			return nil, domain.ErrForbidden
		}
		ok, err := uc.ident.Can(ctx, actor, entity.PermApproveQuotes)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrForbidden
		}
	}

	var out entity.Quote
	err := uc.tx.Run(ctx, func(tx repository.Set) error {
		q, err := tx.Quotes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		if !q.CanTransition(next) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, q.Status, next)
		}
		q.Status = next
		q.UpdatedAt = uc.now()
		out = *q
		return tx.Quotes.Update(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("quoting: transición %s: %w", id, err)
	}

	if out.Status == entity.QuoteStatusApproved {
		uc.publish(ctx, ports.Event{
			Type:        ports.EventQuoteApproved,
			AggregateID: out.ID,
			OccurredAt:  out.UpdatedAt,
			Payload: map[string]any{
				"root_id":      out.RootID(),
				"version":      out.Version,
				"client_id":    out.ClientID,
				"total_amount": out.TotalAmount.String(),
				"currency":     out.Currency,
			},
		})
	}
	return toQuoteResponse(&out), nil
}

// Revise agrega una nueva versión draft a la familia de id. Sin líneas en la petición,
// la revisión copia las de la versión de origen. Una familia ya facturada no admite revisiones.
func (uc *QuoteUseCase) Revise(ctx context.Context, actor *entity.UserProfile, id string, in dto.QuoteDraftRequest) (*dto.QuoteResponse, error) {
	own, err := uc.ident.Salesperson(ctx, actor)
	if err != nil {
		return nil, err
	}
	var items []entity.QuoteLineItem
	if len(in.Items) > 0 {
		items, err = uc.buildItems(ctx, in.Items)
		if err != nil {
			return nil, err
		}
	}

	var out entity.Quote
	err = uc.tx.Run(ctx, func(tx repository.Set) error {
		src, err := tx.Quotes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if src == nil {
			return domain.ErrNotFound
		}
		versions, err := tx.Quotes.ListByRoot(ctx, src.RootID())
		if err != nil {
			return err
		}
		fam, err := entity.NewQuoteFamily(derefQuotes(versions))
		if err != nil {
			return err
		}
		if conv, ok := fam.Converted(); ok {
			return fmt.Errorf("%w: versión %d", domain.ErrAlreadyConverted, conv.Version)
		}

		now := uc.now()
		rev := src.Clone()
		rev.ID = uuid.New().String()
		rev.Status = entity.QuoteStatusDraft
		rev.ConvertedInvoiceID = ""
		rev.Date = dateOr(in.Date, now)
		rev.CreatedAt, rev.UpdatedAt = now, now
		if items != nil {
			rev.Items = items
		}
		if in.Discount.Kind != "" || !in.Discount.Value.IsZero() {
			rev.Discount = toAdjustment(in.Discount)
		}
		if in.Notes != "" {
			rev.Notes = strings.TrimSpace(in.Notes)
		}
		if own != nil {
			rev.SalespersonID = own.ID
		} else if in.SalespersonID != "" {
			rev.SalespersonID = in.SalespersonID
		}
		if err := validation.QuoteItems(rev.Items, rev.Discount).Err(); err != nil {
			return err
		}

		rev = fam.AppendRevision(rev)
		rate, err := commissionRate(ctx, tx, rev.SalespersonID)
		if err != nil {
			return err
		}
		out = pricing.ApplyTotals(rev, rate)
		return tx.Quotes.Create(ctx, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("quoting: revisar %s: %w", id, err)
	}
	return toQuoteResponse(&out), nil
}

// GetFamily todas las versiones del negocio al que pertenece id.
func (uc *QuoteUseCase) GetFamily(ctx context.Context, id string) (*dto.QuoteFamilyResponse, error) {
	q, err := uc.repos.Quotes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("quoting: obtener %s: %w", id, err)
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	versions, err := uc.repos.Quotes.ListByRoot(ctx, q.RootID())
	if err != nil {
		return nil, fmt.Errorf("quoting: familia %s: %w", q.RootID(), err)
	}
	fam, err := entity.NewQuoteFamily(derefQuotes(versions))
	if err != nil {
		return nil, fmt.Errorf("quoting: familia %s: %w", q.RootID(), err)
	}
	out := &dto.QuoteFamilyResponse{
		RootID:   fam.RootID,
		LiveID:   fam.Latest().ID,
		Versions: make([]dto.QuoteResponse, 0, len(fam.Versions)),
	}
	for i := range fam.Versions {
		out.Versions = append(out.Versions, *toQuoteResponse(&fam.Versions[i]))
	}
	return out, nil
}

// Get una versión por id.
func (uc *QuoteUseCase) Get(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.repos.Quotes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("quoting: obtener %s: %w", id, err)
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return toQuoteResponse(q), nil
}

// List versiones filtradas por estado, cliente o vendedor (más recientes primero).
func (uc *QuoteUseCase) List(ctx context.Context, in dto.QuoteListRequest) ([]dto.QuoteResponse, error) {
	in.DefaultPage()
	list, err := uc.repos.Quotes.List(ctx, repository.QuoteFilter{
		Status:        in.Status,
		ClientID:      in.ClientID,
		SalespersonID: in.SalespersonID,
		Page:          repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, fmt.Errorf("quoting: listar: %w", err)
	}
	out := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		out = append(out, *toQuoteResponse(q))
	}
	return out, nil
}

// Calculate vista previa sin persistir: mismas reglas que al guardar.
func (uc *QuoteUseCase) Calculate(ctx context.Context, in dto.QuoteCalculationRequest) (*dto.QuoteCalculationResponse, error) {
	items, err := uc.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	discount := toAdjustment(in.Discount)
	if err := validation.QuoteItems(items, discount).Err(); err != nil {
		return nil, err
	}

	rate := decimal.Zero
	switch {
	case in.CommissionRate != nil:
		rate = *in.CommissionRate
	case in.SalespersonID != "":
		rate, err = commissionRate(ctx, uc.repos, in.SalespersonID)
		if err != nil {
			return nil, err
		}
	}
	cur := in.Currency
	if cur == "" {
		o, err := uc.settings.Load(ctx)
		if err != nil {
			return nil, err
		}
		cur = o.BaseCurrency
	}

	t := pricing.Aggregate(items, discount, rate)
	return &dto.QuoteCalculationResponse{
		Items:  toLineResponses(items),
		Totals: toTotalsResponse(t, cur),
	}, nil
}

func (uc *QuoteUseCase) publish(ctx context.Context, ev ports.Event) {
	if err := uc.events.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", ev.Type).Str("aggregate_id", ev.AggregateID).Msg("no se pudo publicar el evento")
	}
}

// buildItems convierte las líneas de la petición. Con service_id, el precio, el costo,
// la descripción y la frecuencia vacíos se completan desde el catálogo.
func (uc *QuoteUseCase) buildItems(ctx context.Context, in []dto.QuoteLineRequest) ([]entity.QuoteLineItem, error) {
	out := make([]entity.QuoteLineItem, 0, len(in))
	for _, l := range in {
		it := entity.QuoteLineItem{
			ServiceID:        l.ServiceID,
			Description:      strings.TrimSpace(l.Description),
			Quantity:         l.Quantity,
			BillingFrequency: entity.Frequency(l.BillingFrequency),
			ContractMonths:   l.ContractMonths,
			DownPayment:      toAdjustment(l.DownPayment),
		}
		if l.UnitPrice != nil {
			it.UnitPrice = *l.UnitPrice
		}
		if l.UnitCost != nil {
			it.UnitCost = *l.UnitCost
		}
		if l.ServiceID != "" {
			svc, err := uc.repos.Catalog.GetByID(ctx, l.ServiceID)
			if err != nil {
				return nil, fmt.Errorf("quoting: catálogo %s: %w", l.ServiceID, err)
			}
			if svc == nil {
				return nil, fmt.Errorf("servicio %s: %w", l.ServiceID, domain.ErrNotFound)
			}
			if l.UnitPrice == nil {
				it.UnitPrice = svc.UnitSalePrice
			}
			if l.UnitCost == nil {
				it.UnitCost = svc.TotalUnitCost()
			}
			if it.Description == "" {
				it.Description = svc.Name
			}
			if it.BillingFrequency == "" {
				it.BillingFrequency = entity.FrequencyOneTime
				if svc.BillingKind == entity.BillingKindRecurring {
					it.BillingFrequency = entity.FrequencyMonthly
				}
			}
			if it.BillingFrequency.IsRecurring() && it.ContractMonths == 0 {
				it.ContractMonths = svc.MinimumContractMonths
			}
		}
		if it.BillingFrequency == "" {
			it.BillingFrequency = entity.FrequencyOneTime
		}
		out = append(out, it)
	}
	return out, nil
}

// resolveTarget valida el destinatario. Un lead potencial se convierte en cliente una sola vez;
// uno ya convertido aporta su cliente existente.
func resolveTarget(ctx context.Context, tx repository.Set, q *entity.Quote, now time.Time) error {
	if q.LeadID != "" {
		lead, err := tx.Leads.GetByID(ctx, q.LeadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return fmt.Errorf("lead %s: %w", q.LeadID, domain.ErrNotFound)
		}
		if lead.IsConverted() {
			q.ClientID = lead.ConvertedClientID
			return nil
		}
		client := &entity.Client{
			ID:          uuid.New().String(),
			Name:        lead.Name,
			CompanyName: lead.CompanyName,
			Email:       lead.Email,
			Phone:       lead.Phone,
			LeadID:      lead.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Clients.Create(ctx, client); err != nil {
			return err
		}
		lead.Status = entity.LeadStatusConverted
		lead.ConvertedClientID = client.ID
		lead.UpdatedAt = now
		if err := tx.Leads.Update(ctx, lead); err != nil {
			return err
		}
		q.ClientID = client.ID
		return nil
	}
	c, err := tx.Clients.GetByID(ctx, q.ClientID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("cliente %s: %w", q.ClientID, domain.ErrNotFound)
	}
	return nil
}

func commissionRate(ctx context.Context, repos repository.Set, salespersonID string) (decimal.Decimal, error) {
	if salespersonID == "" {
		return decimal.Zero, nil
	}
	sp, err := repos.Salespeople.GetByID(ctx, salespersonID)
	if err != nil {
		return decimal.Zero, err
	}
	if sp == nil {
		return decimal.Zero, fmt.Errorf("vendedor %s: %w", salespersonID, domain.ErrNotFound)
	}
	return pricing.CommissionRateFor(sp), nil
}

func derefQuotes(in []*entity.Quote) []entity.Quote {
	out := make([]entity.Quote, 0, len(in))
	for _, q := range in {
		out = append(out, *q)
	}
	return out
}

func toAdjustment(a dto.AdjustmentDTO) entity.Adjustment {
	kind := entity.AmountKind(a.Kind)
	if kind == "" {
		kind = entity.AmountFixed
	}
	return entity.Adjustment{Value: a.Value, Kind: kind}
}

func currencyOrBase(code, base string) string {
	if code == "" {
		return base
	}
	return strings.ToUpper(code)
}

func dateOr(d *time.Time, fallback time.Time) time.Time {
	if d == nil || d.IsZero() {
		return fallback
	}
	return *d
}
