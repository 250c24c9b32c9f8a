// Package identity relaciona un perfil de usuario con su rol y su registro de vendedor.
package identity

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/access"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// MismatchNotice mensaje para el usuario comercial sin vendedor asociado.
const MismatchNotice = "Su usuario tiene un rol comercial pero no existe un vendedor con su mismo email. " +
	"Pida a un administrador que lo registre en Vendedores para poder crear cotizaciones, clientes o leads."

// Resolver resuelve permisos e identidad comercial de un perfil.
type Resolver struct {
	roles       repository.RoleRepository
	salespeople repository.SalespersonRepository
}

// NewResolver construye el resolver.
func NewResolver(roles repository.RoleRepository, salespeople repository.SalespersonRepository) *Resolver {
	return &Resolver{roles: roles, salespeople: salespeople}
}

// Roles todos los roles definidos.
func (r *Resolver) Roles(ctx context.Context) ([]entity.CustomRole, error) {
	roles, err := r.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity: listar roles: %w", err)
	}
	return roles, nil
}

// Can informa si profile tiene el permiso p.
func (r *Resolver) Can(ctx context.Context, profile *entity.UserProfile, p entity.Permission) (bool, error) {
	if profile == nil {
		return false, nil
	}
	roles, err := r.Roles(ctx)
	if err != nil {
		return false, err
	}
	return access.HasPermission(profile, roles, p), nil
}

// Salesperson vendedor del perfil. Retorna nil, nil si el perfil no tiene rol comercial
// y domain.ErrIdentityMismatch si lo tiene pero no existe vendedor con su email.
func (r *Resolver) Salesperson(ctx context.Context, profile *entity.UserProfile) (*entity.Salesperson, error) {
	if profile == nil {
		return nil, nil
	}
	roles, err := r.Roles(ctx)
	if err != nil {
		return nil, err
	}
	if !access.NeedsSalesperson(profile, roles) {
		return nil, nil
	}
	sp, err := r.salespeople.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("identity: buscar vendedor: %w", err)
	}
	if sp == nil {
		return nil, domain.ErrIdentityMismatch
	}
	return sp, nil
}
