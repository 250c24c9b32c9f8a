package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
)

// UserUseCase alta y administración de usuarios por un administrador.
type UserUseCase struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(users repository.UserRepository, roles repository.RoleRepository) *UserUseCase {
	return &UserUseCase{users: users, roles: roles}
}

// Create crea un usuario activo con el rol indicado.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	fe := validation.FieldErrors{}
	fe.Required("email", in.Email)
	fe.Email("email", in.Email)
	if len(in.Password) < auth.MinPasswordLength {
		fe.Add("password", fmt.Sprintf("debe tener al menos %d caracteres", auth.MinPasswordLength))
	}
	if err := uc.checkRole(ctx, in.RoleID, fe); err != nil {
		return nil, err
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("admin: buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	u := &entity.UserProfile{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		RoleID:       in.RoleID,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("admin: crear usuario: %w", err)
	}
	return auth.ToUserResponse(u), nil
}

// Update cambia nombre, rol o estado. Suspender o deshabilitar quita todo acceso desde la
// siguiente petición, aunque el token siga vigente.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("admin: obtener usuario %s: %w", id, err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	fe := validation.FieldErrors{}
	if in.RoleID != "" {
		if err := uc.checkRole(ctx, in.RoleID, fe); err != nil {
			return nil, err
		}
		u.RoleID = in.RoleID
	}
	switch in.Status {
	case "":
	case entity.UserStatusActive, entity.UserStatusSuspended, entity.UserStatusDisabled:
		u.Status = in.Status
	default:
		fe.Add("status", "debe ser active, suspended o disabled")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	u.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("admin: actualizar usuario %s: %w", id, err)
	}
	return auth.ToUserResponse(u), nil
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.users.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("admin: listar usuarios: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

func (uc *UserUseCase) checkRole(ctx context.Context, roleID string, fe validation.FieldErrors) error {
	if roleID == "" {
		fe.Add("role_id", "es obligatorio")
		return nil
	}
	r, err := uc.roles.GetByID(ctx, roleID)
	if err != nil {
		return fmt.Errorf("admin: obtener rol: %w", err)
	}
	if r == nil {
		fe.Add("role_id", "rol inexistente")
	}
	return nil
}
