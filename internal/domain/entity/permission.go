package entity

import "fmt"

// Permission token de permiso. Conjunto cerrado: solo las constantes de abajo son válidas.
type Permission string

const (
	PermViewDashboard     Permission = "view_dashboard"
	PermManageQuotes      Permission = "manage_quotes"
	PermApproveQuotes     Permission = "approve_quotes"
	PermManageInvoices    Permission = "manage_invoices"
	PermRecordPayments    Permission = "record_payments"
	PermManageExpenses    Permission = "manage_expenses"
	PermManageClients     Permission = "manage_clients"
	PermManageLeads       Permission = "manage_leads"
	PermManageSalespeople Permission = "manage_salespeople"
	PermManageCatalog     Permission = "manage_catalog"
	PermManageUsers       Permission = "manage_users"
	PermManageRoles       Permission = "manage_roles"
	PermManageSettings    Permission = "manage_settings"
	PermViewReports       Permission = "view_reports"
)

// AllPermissions lista completa, en orden estable.
var AllPermissions = []Permission{
	PermViewDashboard, PermManageQuotes, PermApproveQuotes, PermManageInvoices,
	PermRecordPayments, PermManageExpenses, PermManageClients, PermManageLeads,
	PermManageSalespeople, PermManageCatalog, PermManageUsers, PermManageRoles,
	PermManageSettings, PermViewReports,
}

var knownPermissions = func() map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(AllPermissions))
	for _, p := range AllPermissions {
		m[p] = struct{}{}
	}
	return m
}()

// Valid informa si el permiso pertenece al conjunto conocido.
func (p Permission) Valid() bool {
	_, ok := knownPermissions[p]
	return ok
}

// ParsePermission convierte un string externo (JSON, DB) en Permission.
func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	if !p.Valid() {
		return "", fmt.Errorf("permiso desconocido: %q", s)
	}
	return p, nil
}

// ParsePermissions convierte una lista; falla en el primer token desconocido.
func ParsePermissions(in []string) ([]Permission, error) {
	out := make([]Permission, 0, len(in))
	seen := make(map[Permission]struct{}, len(in))
	for _, s := range in {
		p, err := ParsePermission(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
