// Package access decide si un perfil puede ejecutar una acción.
package access

import "github.com/jhoicas/Cotiza-api/internal/domain/entity"

// RoleOf busca el rol del perfil en roles. Retorna nil si no existe.
func RoleOf(profile *entity.UserProfile, roles []entity.CustomRole) *entity.CustomRole {
	if profile == nil || profile.RoleID == "" {
		return nil
	}
	for i := range roles {
		if roles[i].ID == profile.RoleID {
			return &roles[i]
		}
	}
	return nil
}

// PermissionsOf conjunto efectivo de permisos del perfil: vacío si no está activo o su rol no existe.
func PermissionsOf(profile *entity.UserProfile, roles []entity.CustomRole) []entity.Permission {
	if profile == nil || !profile.IsActive() {
		return nil
	}
	role := RoleOf(profile, roles)
	if role == nil {
		return nil
	}
	out := make([]entity.Permission, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// HasPermission informa si profile tiene p a través de su rol.
// Un perfil suspendido o deshabilitado no tiene permisos, sin importar su rol.
func HasPermission(profile *entity.UserProfile, roles []entity.CustomRole, p entity.Permission) bool {
	for _, have := range PermissionsOf(profile, roles) {
		if have == p {
			return true
		}
	}
	return false
}

// NeedsSalesperson informa si el perfil pertenece a un rol comercial y por tanto debe
// tener un vendedor con su mismo email.
func NeedsSalesperson(profile *entity.UserProfile, roles []entity.CustomRole) bool {
	role := RoleOf(profile, roles)
	return role != nil && role.SalesRole
}
