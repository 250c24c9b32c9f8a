package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/analytics"
	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/application/crm"
	"github.com/jhoicas/Cotiza-api/internal/application/jobs"
	"github.com/jhoicas/Cotiza-api/internal/application/quoting"
	"github.com/jhoicas/Cotiza-api/internal/bootstrap"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Permissions   PermissionChecker
	QuoteUC       *quoting.QuoteUseCase
	InvoiceUC     *billing.InvoiceUseCase
	ExpenseUC     *billing.ExpenseUseCase
	DocumentUC    *billing.DocumentUseCase
	RecurringSync *jobs.RecurringSyncService
	ClientUC      *crm.ClientUseCase
	LeadUC        *crm.LeadUseCase
	Admin         AdminDeps
	DashboardUC   *analytics.DashboardUseCase
	Errors        *ErrorResponder
}

// NewRouterDeps toma los casos de uso ya armados.
func NewRouterDeps(svc *bootstrap.Services, errs *ErrorResponder) RouterDeps {
	return RouterDeps{
		AuthUC:        svc.Auth,
		Permissions:   svc.Identity,
		QuoteUC:       svc.Quotes,
		InvoiceUC:     svc.Invoices,
		ExpenseUC:     svc.Expenses,
		DocumentUC:    svc.Documents,
		RecurringSync: svc.Recurring,
		ClientUC:      svc.Clients,
		LeadUC:        svc.Leads,
		Admin: AdminDeps{
			Salespeople: svc.Salespeople,
			Catalog:     svc.Catalog,
			Roles:       svc.Roles,
			Users:       svc.Users,
			Settings:    svc.OrgSettings,
		},
		DashboardUC: svc.Dashboard,
		Errors:      errs,
	}
}

// Router registra las rutas de la API. Todo excepto signup/signin exige Bearer Token,
// y cada ruta de negocio exige además su permiso.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	errs := deps.Errors
	authed := AuthMiddleware(deps.AuthUC, errs)
	can := func(p entity.Permission) fiber.Handler { return RequirePermission(deps.Permissions, p) }

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, errs)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/signin", authHandler.SignIn)
	authGroup.Post("/signout", authed, authHandler.SignOut)
	authGroup.Put("/password", authed, authHandler.UpdatePassword)
	api.Get("/me", authed, authHandler.Me)

	// Cotizaciones
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.InvoiceUC, deps.DocumentUC, errs)
	quotes := api.Group("/quotes", authed)
	quotes.Post("/calculate", can(entity.PermManageQuotes), quoteHandler.Calculate)
	quotes.Post("/", can(entity.PermManageQuotes), quoteHandler.Create)
	quotes.Get("/", can(entity.PermManageQuotes), quoteHandler.List)
	quotes.Get("/:id", can(entity.PermManageQuotes), quoteHandler.GetByID)
	quotes.Put("/:id", can(entity.PermManageQuotes), quoteHandler.Update)
	quotes.Post("/:id/transition", can(entity.PermManageQuotes), quoteHandler.Transition)
	quotes.Post("/:id/revisions", can(entity.PermManageQuotes), quoteHandler.Revise)
	quotes.Get("/:id/family", can(entity.PermManageQuotes), quoteHandler.Family)
	quotes.Get("/:id/pdf", can(entity.PermManageQuotes), quoteHandler.PDF)
	quotes.Post("/:id/convert", can(entity.PermManageInvoices), quoteHandler.Convert)

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC, errs)
	invoices := api.Group("/invoices", authed)
	invoices.Get("/", can(entity.PermManageInvoices), invoiceHandler.List)
	invoices.Get("/:id", can(entity.PermManageInvoices), invoiceHandler.GetByID)
	invoices.Post("/:id/payments", can(entity.PermRecordPayments), invoiceHandler.RecordPayment)
	invoices.Get("/:id/pdf", can(entity.PermManageInvoices), invoiceHandler.PDF)
	invoices.Get("/:id/xml", can(entity.PermManageInvoices), invoiceHandler.XML)

	// Gastos y recurrentes
	expenseHandler := NewExpenseHandler(deps.ExpenseUC, deps.RecurringSync, errs)
	expenses := api.Group("/expenses", authed)
	expenses.Post("/", can(entity.PermManageExpenses), expenseHandler.Create)
	expenses.Get("/", can(entity.PermManageExpenses), expenseHandler.List)
	api.Post("/recurring/sync", authed, can(entity.PermManageInvoices), expenseHandler.SyncRecurring)

	// CRM
	clientHandler := NewClientHandler(deps.ClientUC, errs)
	clients := api.Group("/clients", authed, can(entity.PermManageClients))
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)

	leadHandler := NewLeadHandler(deps.LeadUC, errs)
	leads := api.Group("/leads", authed, can(entity.PermManageLeads))
	leads.Post("/", leadHandler.Create)
	leads.Get("/", leadHandler.List)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Put("/:id", leadHandler.Update)

	// Administración
	adminHandler := NewAdminHandler(deps.Admin, errs)
	salespeople := api.Group("/salespeople", authed, can(entity.PermManageSalespeople))
	salespeople.Post("/", adminHandler.CreateSalesperson)
	salespeople.Get("/", adminHandler.ListSalespeople)
	salespeople.Get("/:id", adminHandler.GetSalesperson)
	salespeople.Put("/:id", adminHandler.UpdateSalesperson)

	catalog := api.Group("/catalog", authed, can(entity.PermManageCatalog))
	catalog.Post("/", adminHandler.CreateCatalogItem)
	catalog.Get("/", adminHandler.ListCatalog)
	catalog.Put("/:id", adminHandler.UpdateCatalogItem)

	roles := api.Group("/roles", authed, can(entity.PermManageRoles))
	roles.Get("/permissions", adminHandler.ListPermissions)
	roles.Post("/", adminHandler.CreateRole)
	roles.Get("/", adminHandler.ListRoles)
	roles.Put("/:id", adminHandler.UpdateRole)

	users := api.Group("/users", authed, can(entity.PermManageUsers))
	users.Post("/", adminHandler.CreateUser)
	users.Get("/", adminHandler.ListUsers)
	users.Put("/:id", adminHandler.UpdateUser)

	settings := api.Group("/settings", authed, can(entity.PermManageSettings))
	settings.Get("/", adminHandler.GetSettings)
	settings.Put("/", adminHandler.UpdateSettings)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, errs)
	api.Get("/dashboard/summary", authed, can(entity.PermViewDashboard), dashboardHandler.Summary)
}
