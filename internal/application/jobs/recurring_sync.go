// Package jobs agrupa procesos de fondo: la sincronización de plantillas recurrentes
// de facturas y gastos.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/ports"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// Syncer genera las instancias vencidas de un tipo de plantilla recurrente.
type Syncer interface {
	SyncRecurring(ctx context.Context) (billing.SyncResult, error)
}

// RecurringSyncService ejecuta la sincronización de facturas y gastos recurrentes.
// Es re-ejecutable: una segunda corrida en el mismo instante no genera documentos.
type RecurringSyncService struct {
	invoices Syncer
	expenses Syncer
	log      *logger.Logger
	now      ports.Clock
}

// NewRecurringSyncService construye el servicio.
func NewRecurringSyncService(invoices, expenses Syncer, log *logger.Logger) *RecurringSyncService {
	if log == nil {
		log = logger.Nop()
	}
	return &RecurringSyncService{
		invoices: invoices,
		expenses: expenses,
		log:      log.WithComponent("recurring-sync"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (s *RecurringSyncService) WithClock(c ports.Clock) *RecurringSyncService {
	s.now = c
	return s
}

// Run sincroniza facturas y luego gastos. Si falla la primera etapa no se intenta la segunda;
// lo ya confirmado por plantilla se conserva.
func (s *RecurringSyncService) Run(ctx context.Context) (*dto.RecurringSyncResponse, error) {
	out := &dto.RecurringSyncResponse{
		InvoicesCreated: []string{},
		ExpensesCreated: []string{},
		RanAt:           s.now(),
	}
	inv, err := s.invoices.SyncRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("jobs: sincronizar facturas: %w", err)
	}
	out.InvoicesCreated = append(out.InvoicesCreated, inv.Created...)
	out.TemplatesExhausted += inv.Exhausted

	exp, err := s.expenses.SyncRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("jobs: sincronizar gastos: %w", err)
	}
	out.ExpensesCreated = append(out.ExpensesCreated, exp.Created...)
	out.TemplatesExhausted += exp.Exhausted

	s.log.Info().
		Int("invoices_created", len(out.InvoicesCreated)).
		Int("expenses_created", len(out.ExpensesCreated)).
		Int("templates_exhausted", out.TemplatesExhausted).
		Msg("sincronización recurrente completada")
	return out, nil
}

// Loop corre Run al iniciar y luego cada interval hasta que ctx se cancele.
// Los errores se registran y no detienen el ciclo.
func (s *RecurringSyncService) Loop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *RecurringSyncService) runLogged(ctx context.Context) {
	if _, err := s.Run(ctx); err != nil {
		s.log.Error().Err(err).Msg("falló la sincronización recurrente")
	}
}
