package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/identity"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Cotiza-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "cotiza-test"}

func newAuth(t *testing.T) (*auth.AuthUseCase, repository.Set) {
	t.Helper()
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Set(), store, jwtCfg), store.Set()
}

func TestSignUp_PrimerUsuarioEsAdministrador(t *testing.T) {
	ctx := context.Background()
	uc, repos := newAuth(t)

	first, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "Admin@Cotiza.co", Password: "secreto123", Name: "Admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, "admin@cotiza.co", first.User.Email)
	require.NotEmpty(t, first.User.RoleID)

	role, err := repos.Roles.GetByID(ctx, first.User.RoleID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, auth.AdminRoleName, role.Name)
	assert.ElementsMatch(t, entity.AllPermissions, role.Permissions)

	second, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "otro@cotiza.co", Password: "secreto123"})
	require.NoError(t, err)
	assert.Empty(t, second.User.RoleID, "los siguientes usuarios quedan sin rol")

	roles, err := repos.Roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestSignUp_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuth(t)

	_, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "no-es-email", Password: "corta"})
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password")

	_, err = uc.SignUp(ctx, dto.SignUpRequest{Email: "ana@cotiza.co", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.SignUp(ctx, dto.SignUpRequest{Email: "ANA@cotiza.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	uc, repos := newAuth(t)
	_, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "ana@cotiza.co", Password: "secreto123"})
	require.NoError(t, err)

	tok, err := uc.SignIn(ctx, dto.SignInRequest{Email: "ana@cotiza.co", Password: "secreto123"})
	require.NoError(t, err)
	s, err := pkgjwt.Parse(jwtCfg.Secret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, tok.User.ID, s.UserID)

	_, err = uc.SignIn(ctx, dto.SignInRequest{Email: "ana@cotiza.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.SignIn(ctx, dto.SignInRequest{Email: "nadie@cotiza.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, err := repos.Users.GetByEmail(ctx, "ana@cotiza.co")
	require.NoError(t, err)
	u.Status = entity.UserStatusSuspended
	require.NoError(t, repos.Users.Update(ctx, u))
	_, err = uc.SignIn(ctx, dto.SignInRequest{Email: "ana@cotiza.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthenticate_SignOutRevocaElToken(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuth(t)
	tok, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "ana@cotiza.co", Password: "secreto123"})
	require.NoError(t, err)

	user, s, err := uc.Authenticate(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@cotiza.co", user.Email)

	require.NoError(t, uc.SignOut(ctx, s))
	_, _, err = uc.Authenticate(ctx, tok.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = uc.Authenticate(ctx, "basura")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_UsuarioSuspendido(t *testing.T) {
	ctx := context.Background()
	uc, repos := newAuth(t)
	tok, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "ana@cotiza.co", Password: "secreto123"})
	require.NoError(t, err)

	u, err := repos.Users.GetByID(ctx, tok.User.ID)
	require.NoError(t, err)
	u.Status = entity.UserStatusDisabled
	require.NoError(t, repos.Users.Update(ctx, u))

	_, _, err = uc.Authenticate(ctx, tok.Token)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuth(t)
	tok, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "ana@cotiza.co", Password: "secreto123"})
	require.NoError(t, err)

	err = uc.UpdatePassword(ctx, tok.User.ID, dto.UpdatePasswordRequest{CurrentPassword: "mala", NewPassword: "nueva-clave"})
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "current_password")

	require.NoError(t, uc.UpdatePassword(ctx, tok.User.ID, dto.UpdatePasswordRequest{CurrentPassword: "secreto123", NewPassword: "nueva-clave"}))
	_, err = uc.SignIn(ctx, dto.SignInRequest{Email: "ana@cotiza.co", Password: "nueva-clave"})
	assert.NoError(t, err)
}

func TestMe_AvisoDeIdentidad(t *testing.T) {
	ctx := context.Background()
	uc, repos := newAuth(t)
	require.NoError(t, repos.Roles.Create(ctx, &entity.CustomRole{
		ID: "r-sales", Name: "Ventas", SalesRole: true,
		Permissions: []entity.Permission{entity.PermManageQuotes},
	}))
	user := &entity.UserProfile{ID: "u1", Email: "luis@cotiza.co", RoleID: "r-sales", Status: entity.UserStatusActive}

	me, err := uc.Me(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Ventas", me.Role)
	assert.Equal(t, []string{"manage_quotes"}, me.Permissions)
	assert.Equal(t, identity.MismatchNotice, me.Notice)
	assert.Empty(t, me.SalespersonID)

	require.NoError(t, repos.Salespeople.Create(ctx, &entity.Salesperson{ID: "sp9", Name: "Luis", Email: "LUIS@cotiza.co", Active: true}))
	me, err = uc.Me(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, me.Notice)
	assert.Equal(t, "sp9", me.SalespersonID)
}
