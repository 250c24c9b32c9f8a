package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para perfiles de usuario.
type UserRepository interface {
	Create(ctx context.Context, u *entity.UserProfile) error
	Update(ctx context.Context, u *entity.UserProfile) error
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error)
	List(ctx context.Context, p Page) ([]*entity.UserProfile, error)
	Count(ctx context.Context) (int, error)
}

// RoleRepository define el puerto de persistencia para roles personalizados.
type RoleRepository interface {
	Create(ctx context.Context, r *entity.CustomRole) error
	Update(ctx context.Context, r *entity.CustomRole) error
	GetByID(ctx context.Context, id string) (*entity.CustomRole, error)
	List(ctx context.Context) ([]entity.CustomRole, error)
}

// SessionRepository registro de tokens revocados (cierre de sesión).
type SessionRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
