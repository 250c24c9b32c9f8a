package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
)

// AuthHandler maneja registro, sesión y perfil.
type AuthHandler struct {
	uc   *auth.AuthUseCase
	errs *ErrorResponder
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, errs *ErrorResponder) *AuthHandler {
	return &AuthHandler{uc: uc, errs: errs}
}

// SignUp godoc
// @Summary      Registrar usuario
// @Description  El primer usuario del sistema recibe el rol Administrador.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignUpRequest  true  "email, password, name"
// @Success      201   {object}  dto.TokenResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var in dto.SignUpRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SignUp(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SignIn godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignInRequest  true  "email, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var in dto.SignInRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SignIn(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// SignOut godoc
// @Summary      Cerrar sesión (revoca el token)
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/signout [post]
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if err := h.uc.SignOut(c.UserContext(), CurrentSession(c)); err != nil {
		return h.errs.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdatePassword godoc
// @Summary      Cambiar contraseña
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Param        body  body  dto.UpdatePasswordRequest  true  "current_password, new_password"
// @Success      204
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/auth/password [put]
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.UpdatePassword(c.UserContext(), CurrentUser(c).ID, in); err != nil {
		return h.errs.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Perfil de la sesión y permisos efectivos
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200   {object}  dto.MeResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), CurrentUser(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// pageFrom lee ?limit=&offset= (valores por defecto en el caso de uso).
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
}
