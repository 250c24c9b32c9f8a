package entity

import "time"

// Estados de UserProfile. Solo Active permite acceso, sin importar los permisos del rol.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusDisabled  = "disabled"
)

// UserProfile usuario del sistema; su conjunto de permisos es el de su rol.
type UserProfile struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // bcrypt hash
	RoleID       string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive informa si el perfil puede operar.
func (u UserProfile) IsActive() bool {
	return u.Status == UserStatusActive
}

// CustomRole rol con nombre y conjunto de permisos.
// SalesRole marca roles comerciales: sus usuarios deben tener un Salesperson con el mismo email.
type CustomRole struct {
	ID          string
	Name        string
	Permissions []Permission
	SalesRole   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
