package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/identity"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/access"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/pkg/jwt"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// AdminRoleName nombre del rol creado para el primer usuario registrado.
const AdminRoleName = "Administrador"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, cierre de sesión y perfil.
type AuthUseCase struct {
	repos  repository.Set
	tx     repository.TxRunner
	ident  *identity.Resolver
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repos repository.Set, tx repository.TxRunner, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{
		repos:  repos,
		tx:     tx,
		ident:  identity.NewResolver(repos.Roles, repos.Salespeople),
		jwtCfg: jwtCfg,
	}
}

// SignUp registro público. El primer usuario del sistema recibe un rol administrador con todos
// los permisos; los siguientes quedan sin rol hasta que un administrador les asigne uno.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fe := validation.FieldErrors{}
	fe.Required("email", email)
	fe.Email("email", email)
	if len(in.Password) < MinPasswordLength {
		fe.Add("password", fmt.Sprintf("debe tener al menos %d caracteres", MinPasswordLength))
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var user *entity.UserProfile
	err = uc.tx.Run(ctx, func(tx repository.Set) error {
		existing, err := tx.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		count, err := tx.Users.Count(ctx)
		if err != nil {
			return err
		}
		now := time.Now()
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = email
		}
		user = &entity.UserProfile{
			ID:           uuid.New().String(),
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Status:       entity.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if count == 0 {
			role := &entity.CustomRole{
				ID:          uuid.New().String(),
				Name:        AdminRoleName,
				Permissions: append([]entity.Permission(nil), entity.AllPermissions...),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Roles.Create(ctx, role); err != nil {
				return err
			}
			user.RoleID = role.ID
		}
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("auth: registro: %w", err)
	}
	return uc.issue(user)
}

// SignIn verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) SignIn(ctx context.Context, in dto.SignInRequest) (*dto.TokenResponse, error) {
	user, err := uc.repos.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	return uc.issue(user)
}

// SignOut revoca el token de la sesión hasta su expiración.
func (uc *AuthUseCase) SignOut(ctx context.Context, s *jwt.Session) error {
	if s == nil || s.TokenID == "" {
		return domain.ErrUnauthorized
	}
	if err := uc.repos.Sessions.Revoke(ctx, s.TokenID, s.ExpiresAt); err != nil {
		return fmt.Errorf("auth: revocar sesión: %w", err)
	}
	return nil
}

// Authenticate valida el token, descarta los revocados y carga el perfil vigente.
// Un perfil no activo se rechaza con ErrForbidden.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.UserProfile, *jwt.Session, error) {
	s, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}
	revoked, err := uc.repos.Sessions.IsRevoked(ctx, s.TokenID)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: consultar revocación: %w", err)
	}
	if revoked {
		return nil, nil, domain.ErrUnauthorized
	}
	user, err := uc.repos.Users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: obtener usuario: %w", err)
	}
	if user == nil {
		return nil, nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, nil, domain.ErrForbidden
	}
	return user, s, nil
}

// UpdatePassword cambia la contraseña verificando la actual.
func (uc *AuthUseCase) UpdatePassword(ctx context.Context, userID string, in dto.UpdatePasswordRequest) error {
	if len(in.NewPassword) < MinPasswordLength {
		return validation.FieldErrors{"new_password": fmt.Sprintf("debe tener al menos %d caracteres", MinPasswordLength)}
	}
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("auth: obtener usuario: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return validation.FieldErrors{"current_password": "contraseña actual incorrecta"}
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := uc.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("auth: actualizar contraseña: %w", err)
	}
	return nil
}

// Me perfil de la sesión con permisos efectivos. Un usuario comercial sin vendedor recibe
// un aviso en lugar de un error: puede consultar, pero no crear registros.
func (uc *AuthUseCase) Me(ctx context.Context, user *entity.UserProfile) (*dto.MeResponse, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	roles, err := uc.ident.Roles(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.MeResponse{User: *ToUserResponse(user), Permissions: []string{}}
	if role := access.RoleOf(user, roles); role != nil {
		out.Role = role.Name
	}
	for _, p := range access.PermissionsOf(user, roles) {
		out.Permissions = append(out.Permissions, string(p))
	}
	sp, err := uc.ident.Salesperson(ctx, user)
	switch {
	case errors.Is(err, domain.ErrIdentityMismatch):
		out.Notice = identity.MismatchNotice
	case err != nil:
		return nil, err
	case sp != nil:
		out.SalespersonID = sp.ID
	}
	return out, nil
}

func (uc *AuthUseCase) issue(user *entity.UserProfile) (*dto.TokenResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      *ToUserResponse(user),
	}, nil
}

// HashPassword hash bcrypt de una contraseña.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ToUserResponse salida de un usuario (sin password).
func ToUserResponse(u *entity.UserProfile) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		RoleID:    u.RoleID,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
