package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cotiza-api/internal/domain/access"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

var roles = []entity.CustomRole{
	{ID: "r-admin", Name: "Administrador", Permissions: entity.AllPermissions},
	{ID: "r-ventas", Name: "Ventas", SalesRole: true, Permissions: []entity.Permission{
		entity.PermManageQuotes, entity.PermManageLeads, entity.Permission("borrar_todo"),
	}},
}

func profile(role, status string) *entity.UserProfile {
	return &entity.UserProfile{ID: "u1", Email: "a@b.co", RoleID: role, Status: status}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name    string
		profile *entity.UserProfile
		perm    entity.Permission
		want    bool
	}{
		{"admin activo", profile("r-admin", entity.UserStatusActive), entity.PermManageSettings, true},
		{"ventas con permiso", profile("r-ventas", entity.UserStatusActive), entity.PermManageQuotes, true},
		{"ventas sin permiso", profile("r-ventas", entity.UserStatusActive), entity.PermManageUsers, false},
		{"suspendido", profile("r-admin", entity.UserStatusSuspended), entity.PermViewDashboard, false},
		{"deshabilitado", profile("r-admin", entity.UserStatusDisabled), entity.PermViewDashboard, false},
		{"rol desconocido", profile("r-x", entity.UserStatusActive), entity.PermViewDashboard, false},
		{"sin rol", profile("", entity.UserStatusActive), entity.PermViewDashboard, false},
		{"perfil nil", nil, entity.PermViewDashboard, false},
		{"token desconocido en rol", profile("r-ventas", entity.UserStatusActive), entity.Permission("borrar_todo"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.HasPermission(tt.profile, roles, tt.perm))
		})
	}
}

func TestHasPermission_SinRoles(t *testing.T) {
	assert.False(t, access.HasPermission(profile("r-admin", entity.UserStatusActive), nil, entity.PermViewDashboard))
}

func TestPermissionsOf_FiltraDesconocidos(t *testing.T) {
	got := access.PermissionsOf(profile("r-ventas", entity.UserStatusActive), roles)
	assert.Equal(t, []entity.Permission{entity.PermManageQuotes, entity.PermManageLeads}, got)
}

func TestNeedsSalesperson(t *testing.T) {
	assert.True(t, access.NeedsSalesperson(profile("r-ventas", entity.UserStatusActive), roles))
	assert.False(t, access.NeedsSalesperson(profile("r-admin", entity.UserStatusActive), roles))
	assert.False(t, access.NeedsSalesperson(nil, roles))
}
