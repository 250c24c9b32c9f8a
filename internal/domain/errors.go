package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Cotizaciones
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrImmutableQuote    = errors.New("la cotización ya no es editable; cree una revisión")
	ErrNotLiveVersion    = errors.New("solo la versión vigente de la cotización puede convertirse")
	ErrAlreadyConverted  = errors.New("la cotización ya fue convertida en factura")

	// ErrIdentityMismatch usuario con rol comercial sin registro de vendedor asociado.
	// No es un fallo del sistema: bloquea la creación de registros hasta que un operador lo corrija.
	ErrIdentityMismatch = errors.New("el usuario comercial no tiene un vendedor asociado")
)
