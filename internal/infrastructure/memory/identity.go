package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.RoleRepository    = (*RoleRepo)(nil)
	_ repository.SessionRepository = (*SessionRepo)(nil)
)

// UserRepo perfiles en memoria. El email es único sin distinguir mayúsculas.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(ctx context.Context, u *entity.UserProfile) error {
	return r.s.write(func(t *tables) error {
		for _, other := range t.users {
			if sameEmail(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		if _, dup := t.users[u.ID]; dup {
			return fmt.Errorf("usuario %s: %w", u.ID, domain.ErrDuplicate)
		}
		t.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) Update(ctx context.Context, u *entity.UserProfile) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.users, u.ID, "usuario"); err != nil {
			return err
		}
		for id, other := range t.users {
			if id != u.ID && sameEmail(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		t.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	var out *entity.UserProfile
	r.s.read(func(t *tables) {
		if u, ok := t.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	var out *entity.UserProfile
	r.s.read(func(t *tables) {
		for _, u := range t.users {
			if sameEmail(u.Email, email) {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepo) List(ctx context.Context, p repository.Page) ([]*entity.UserProfile, error) {
	var out []*entity.UserProfile
	r.s.read(func(t *tables) {
		for _, u := range t.users {
			u := u
			out = append(out, &u)
		}
	})
	newestFirst(out, func(u *entity.UserProfile) time.Time { return u.CreatedAt }, func(u *entity.UserProfile) string { return u.ID })
	return paginate(out, p), nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	r.s.read(func(t *tables) { n = len(t.users) })
	return n, nil
}

// RoleRepo roles en memoria.
type RoleRepo struct{ s *Store }

func (r *RoleRepo) Create(ctx context.Context, role *entity.CustomRole) error {
	return r.s.write(func(t *tables) error {
		if _, dup := t.roles[role.ID]; dup {
			return fmt.Errorf("rol %s: %w", role.ID, domain.ErrDuplicate)
		}
		t.roles[role.ID] = cloneRole(*role)
		return nil
	})
}

func (r *RoleRepo) Update(ctx context.Context, role *entity.CustomRole) error {
	return r.s.write(func(t *tables) error {
		if err := exists(t.roles, role.ID, "rol"); err != nil {
			return err
		}
		t.roles[role.ID] = cloneRole(*role)
		return nil
	})
}

func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.CustomRole, error) {
	var out *entity.CustomRole
	r.s.read(func(t *tables) {
		if role, ok := t.roles[id]; ok {
			c := cloneRole(role)
			out = &c
		}
	})
	return out, nil
}

// List roles ordenados por nombre.
func (r *RoleRepo) List(ctx context.Context) ([]entity.CustomRole, error) {
	var out []entity.CustomRole
	r.s.read(func(t *tables) {
		for _, role := range t.roles {
			out = append(out, cloneRole(role))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SessionRepo revocaciones de tokens en memoria. Las entradas vencidas se purgan al revocar.
type SessionRepo struct{ s *Store }

func (r *SessionRepo) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return r.s.write(func(t *tables) error {
		now := time.Now()
		for id, exp := range t.revoked {
			if exp.Before(now) {
				delete(t.revoked, id)
			}
		}
		t.revoked[tokenID] = expiresAt
		return nil
	})
}

func (r *SessionRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var ok bool
	r.s.read(func(t *tables) { _, ok = t.revoked[tokenID] })
	return ok, nil
}
