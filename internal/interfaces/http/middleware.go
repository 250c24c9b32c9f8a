package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/pkg/jwt"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// Locals keys para el perfil y la sesión en Fiber.
const (
	LocalUser    = "user"
	LocalSession = "session"
)

// Authenticator valida un token y devuelve el perfil vigente (lo implementa *auth.AuthUseCase).
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.UserProfile, *jwt.Session, error)
}

// PermissionChecker consulta permisos de un perfil (lo implementa *identity.Resolver).
type PermissionChecker interface {
	Can(ctx context.Context, profile *entity.UserProfile, p entity.Permission) (bool, error)
}

// AuthMiddleware valida el Bearer Token, descarta tokens revocados y carga el perfil en c.Locals.
// El perfil se lee en cada petición: una suspensión surte efecto aunque el token siga vigente.
func AuthMiddleware(a Authenticator, errs *ErrorResponder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		user, session, err := a.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return errs.Write(c, err)
		}
		c.Locals(LocalUser, user)
		c.Locals(LocalSession, session)
		return c.Next()
	}
}

// RequirePermission responde 403 si el perfil de la sesión no tiene el permiso p.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequirePermission(checker PermissionChecker, p entity.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada"})
		}
		ok, err := checker.Can(c.UserContext(), user, p)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "PERMISSION_CHECK_FAILED", Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code: "FORBIDDEN", Message: "se requiere el permiso '" + string(p) + "'",
			})
		}
		return c.Next()
	}
}

// RequestLogger registra cada petición con zerolog: método, ruta, estado y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		if id, ok := c.Locals("requestid").(string); ok {
			ev = ev.Str("request_id", id)
		}
		if u := CurrentUser(c); u != nil {
			ev = ev.Str("user_id", u.ID)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")
		return err
	}
}

// CurrentUser perfil de la sesión (después de AuthMiddleware).
func CurrentUser(c *fiber.Ctx) *entity.UserProfile {
	u, _ := c.Locals(LocalUser).(*entity.UserProfile)
	return u
}

// CurrentSession sesión del token (después de AuthMiddleware).
func CurrentSession(c *fiber.Ctx) *jwt.Session {
	s, _ := c.Locals(LocalSession).(*jwt.Session)
	return s
}
