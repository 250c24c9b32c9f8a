package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
)

// RoleUseCase casos de uso de roles personalizados.
type RoleUseCase struct {
	repo repository.RoleRepository
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo}
}

// Create crea un rol. Los permisos desconocidos se rechazan.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	perms, err := parseRole(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	r := &entity.CustomRole{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Permissions: perms,
		SalesRole:   in.SalesRole,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("admin: crear rol: %w", err)
	}
	return toRoleResponse(r), nil
}

// Update reemplaza nombre, permisos y marca comercial. Surte efecto en la siguiente petición
// de cada usuario del rol.
func (uc *RoleUseCase) Update(ctx context.Context, id string, in dto.RoleRequest) (*dto.RoleResponse, error) {
	perms, err := parseRole(in)
	if err != nil {
		return nil, err
	}
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("admin: obtener rol %s: %w", id, err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	r.Name = strings.TrimSpace(in.Name)
	r.Permissions = perms
	r.SalesRole = in.SalesRole
	r.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("admin: actualizar rol %s: %w", id, err)
	}
	return toRoleResponse(r), nil
}

// List todos los roles, por nombre.
func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin: listar roles: %w", err)
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, *toRoleResponse(&roles[i]))
	}
	return out, nil
}

// Permissions catálogo de permisos asignables.
func (uc *RoleUseCase) Permissions() []string {
	return permissionStrings(entity.AllPermissions)
}

func parseRole(in dto.RoleRequest) ([]entity.Permission, error) {
	fe := validation.FieldErrors{}
	fe.Required("name", in.Name)
	perms, err := entity.ParsePermissions(in.Permissions)
	if err != nil {
		fe.Add("permissions", err.Error())
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

func toRoleResponse(r *entity.CustomRole) *dto.RoleResponse {
	return &dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: permissionStrings(r.Permissions),
		SalesRole:   r.SalesRole,
		CreatedAt:   r.CreatedAt,
	}
}

func permissionStrings(perms []entity.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}
