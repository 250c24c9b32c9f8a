// Package bootstrap arma los casos de uso sobre un almacenamiento (memoria o PostgreSQL).
// Lo comparten el servidor HTTP y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/application/admin"
	"github.com/jhoicas/Cotiza-api/internal/application/analytics"
	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/application/crm"
	"github.com/jhoicas/Cotiza-api/internal/application/identity"
	"github.com/jhoicas/Cotiza-api/internal/application/jobs"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/application/ports"
	"github.com/jhoicas/Cotiza-api/internal/application/quoting"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/ubl"
	"github.com/jhoicas/Cotiza-api/pkg/config"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// Storage repositorios más su ejecutor de transacciones.
type Storage struct {
	Repos repository.Set
	Tx    repository.TxRunner
	Close func()
}

// OpenStorage abre el almacenamiento configurado. Con PostgreSQL aplica las migraciones pendientes.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	if cfg.Store.UsesMemory() {
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Storage{Repos: store.Set(), Tx: store, Close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: conexión a PostgreSQL: %w", err)
	}
	version, err := postgres.RunMigrations(pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: migraciones: %w", err)
	}
	log.Info().Uint("schema_version", version).Msg("migraciones aplicadas")
	return &Storage{Repos: postgres.NewSet(pool), Tx: postgres.NewTxRunner(pool), Close: pool.Close}, nil
}

// Options parámetros de armado.
type Options struct {
	BaseCurrency string
	JWT          auth.JWTConfig
	Events       ports.EventPublisher
	Log          *logger.Logger
}

// Services casos de uso listos para los adaptadores de entrada.
type Services struct {
	Settings  *org.Loader
	Identity  *identity.Resolver
	Auth      *auth.AuthUseCase
	Quotes    *quoting.QuoteUseCase
	Invoices  *billing.InvoiceUseCase
	Expenses  *billing.ExpenseUseCase
	Documents *billing.DocumentUseCase
	Recurring *jobs.RecurringSyncService
	Clients   *crm.ClientUseCase
	Leads     *crm.LeadUseCase
	Dashboard *analytics.DashboardUseCase

	Salespeople *admin.SalespersonUseCase
	Catalog     *admin.CatalogUseCase
	Roles       *admin.RoleUseCase
	Users       *admin.UserUseCase
	OrgSettings *admin.SettingsUseCase
}

// NewServices construye todos los casos de uso sobre st.
func NewServices(st *Storage, opts Options) *Services {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	events := opts.Events
	if events == nil {
		events = ports.NopPublisher{}
	}
	repos := st.Repos
	settings := org.NewLoader(repos.Organizations, opts.BaseCurrency)

	invoices := billing.NewInvoiceUseCase(repos, st.Tx, events, log.WithComponent("invoices"))
	expenses := billing.NewExpenseUseCase(repos, st.Tx, settings, events, log.WithComponent("expenses"))

	return &Services{
		Settings:  settings,
		Identity:  identity.NewResolver(repos.Roles, repos.Salespeople),
		Auth:      auth.NewAuthUseCase(repos, st.Tx, opts.JWT),
		Quotes:    quoting.NewQuoteUseCase(repos, st.Tx, settings, events, log.WithComponent("quotes")),
		Invoices:  invoices,
		Expenses:  expenses,
		Documents: billing.NewDocumentUseCase(repos, settings, pdf.NewMarotoRenderer(), ubl.NewExporter()),
		Recurring: jobs.NewRecurringSyncService(invoices, expenses, log.WithComponent("recurring")),
		Clients:   crm.NewClientUseCase(repos),
		Leads:     crm.NewLeadUseCase(repos),
		Dashboard: analytics.NewDashboardUseCase(repos, settings),

		Salespeople: admin.NewSalespersonUseCase(repos.Salespeople),
		Catalog:     admin.NewCatalogUseCase(repos.Catalog),
		Roles:       admin.NewRoleUseCase(repos.Roles),
		Users:       admin.NewUserUseCase(repos.Users, repos.Roles),
		OrgSettings: admin.NewSettingsUseCase(repos.Organizations, settings),
	}
}
