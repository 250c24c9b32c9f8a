package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/validation"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Orden relevante: el primer errors.Is que coincide define la respuesta.
var errorMappings = []errorMapping{
	{domain.ErrIdentityMismatch, fiber.StatusConflict, "IDENTITY_MISMATCH"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrImmutableQuote, fiber.StatusConflict, "IMMUTABLE_QUOTE"},
	{domain.ErrNotLiveVersion, fiber.StatusConflict, "NOT_LIVE_VERSION"},
	{domain.ErrAlreadyConverted, fiber.StatusConflict, "ALREADY_CONVERTED"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
}

// ErrorResponder traduce errores de aplicación a respuestas HTTP.
type ErrorResponder struct {
	log *logger.Logger
}

// NewErrorResponder construye el traductor; los 500 se registran en log.
func NewErrorResponder(log *logger.Logger) *ErrorResponder {
	if log == nil {
		log = logger.Nop()
	}
	return &ErrorResponder{log: log}
}

// Write escribe la respuesta de error correspondiente a err.
func (r *ErrorResponder) Write(c *fiber.Ctx, err error) error {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  fe,
		})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.err.Error()})
		}
	}
	r.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// FiberErrorHandler ErrorHandler de fiber.Config: respeta los *fiber.Error (404 de ruta,
// 405, body demasiado grande) y delega el resto en Write.
func (r *ErrorResponder) FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return r.Write(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
