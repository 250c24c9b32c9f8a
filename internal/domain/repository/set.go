package repository

import "context"

// Set agrupa los repositorios atados a una misma unidad de trabajo (pool o transacción).
type Set struct {
	Quotes        QuoteRepository
	Invoices      InvoiceRepository
	Expenses      ExpenseRepository
	Clients       ClientRepository
	Leads         LeadRepository
	Salespeople   SalespersonRepository
	Catalog       CatalogRepository
	Users         UserRepository
	Roles         RoleRepository
	Sessions      SessionRepository
	Organizations OrganizationRepository
}

// TxRunner ejecuta fn con repositorios atados a una transacción; Commit si fn retorna nil,
// Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Set) error) error
}
