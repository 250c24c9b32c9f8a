package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.RoleRepository    = (*RoleRepo)(nil)
	_ repository.SessionRepository = (*SessionRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, name, password_hash, COALESCE(role_id, ''), status, created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.UserProfile) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash, nullIfEmpty(u.RoleID), u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update actualiza un usuario.
func (r *UserRepo) Update(ctx context.Context, u *entity.UserProfile) error {
	query := `
		UPDATE users SET email = $2, name = $3, password_hash = $4, role_id = $5, status = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash, nullIfEmpty(u.RoleID), u.Status, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("usuario %s: %w", u.ID, domain.ErrUserNotFound)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query, arg string) (*entity.UserProfile, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List lista usuarios con paginación.
func (r *UserRepo) List(ctx context.Context, p repository.Page) ([]*entity.UserProfile, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`+pageClause(p))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Count total de usuarios; el primer registro se vuelve administrador.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (*entity.UserProfile, error) {
	var u entity.UserProfile
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.RoleID, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// RoleRepo implementación de RoleRepository.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

const roleColumns = `id, name, permissions, sales_role, created_at, updated_at`

// Create persiste un rol.
func (r *RoleRepo) Create(ctx context.Context, role *entity.CustomRole) error {
	query := `
		INSERT INTO roles (id, name, permissions, sales_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, role.ID, role.Name, permissionStrings(role.Permissions), role.SalesRole, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rol %s: %w", role.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// Update actualiza nombre, permisos y marca comercial del rol.
func (r *RoleRepo) Update(ctx context.Context, role *entity.CustomRole) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE roles SET name = $2, permissions = $3, sales_role = $4, updated_at = $5 WHERE id = $1`,
		role.ID, role.Name, permissionStrings(role.Permissions), role.SalesRole, role.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rol %s: %w", role.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene un rol; nil, nil si no existe.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.CustomRole, error) {
	role, err := scanRole(r.q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

// List roles ordenados por nombre.
func (r *RoleRepo) List(ctx context.Context) ([]entity.CustomRole, error) {
	rows, err := r.q.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []entity.CustomRole
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, *role)
	}
	return list, rows.Err()
}

func scanRole(row pgx.Row) (*entity.CustomRole, error) {
	var (
		role  entity.CustomRole
		perms []string
	)
	if err := row.Scan(&role.ID, &role.Name, &perms, &role.SalesRole, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	// Tokens que ya no existen se descartan; el gate nunca los concede.
	for _, p := range perms {
		if perm := entity.Permission(p); perm.Valid() {
			role.Permissions = append(role.Permissions, perm)
		}
	}
	return &role, nil
}

func permissionStrings(ps []entity.Permission) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, string(p))
	}
	return out
}

// SessionRepo tokens revocados por cierre de sesión.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// Revoke registra el jti y purga los ya vencidos.
func (r *SessionRepo) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < now()`); err != nil {
		return fmt.Errorf("purge revoked tokens: %w", err)
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO revoked_tokens (token_id, expires_at) VALUES ($1, $2) ON CONFLICT (token_id) DO NOTHING`,
		tokenID, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked informa si el jti fue revocado.
func (r *SessionRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)`, tokenID).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}
