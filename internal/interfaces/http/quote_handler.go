package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/quoting"
)

// QuoteHandler cotizaciones: borradores, transiciones, revisiones y conversión a factura.
type QuoteHandler struct {
	uc       *quoting.QuoteUseCase
	invoices *billing.InvoiceUseCase
	docs     *billing.DocumentUseCase
	errs     *ErrorResponder
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *quoting.QuoteUseCase, invoices *billing.InvoiceUseCase, docs *billing.DocumentUseCase, errs *ErrorResponder) *QuoteHandler {
	return &QuoteHandler{uc: uc, invoices: invoices, docs: docs, errs: errs}
}

// Create godoc
// @Summary      Crear borrador de cotización
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteDraftRequest  true  "cotización"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.QuoteDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateDraft(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Calculate godoc
// @Summary      Vista previa de totales (no guarda)
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteCalculationRequest  true  "líneas y descuento"
// @Success      200   {object}  dto.QuoteCalculationResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/quotes/calculate [post]
func (h *QuoteHandler) Calculate(c *fiber.Ctx) error {
	var in dto.QuoteCalculationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Calculate(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        status          query  string  false  "draft | sent | approved | rejected"
// @Param        client_id       query  string  false  "cliente"
// @Param        salesperson_id  query  string  false  "vendedor"
// @Param        limit           query  int     false  "límite"
// @Param        offset          query  int     false  "desplazamiento"
// @Success      200   {array}   dto.QuoteResponse
// @Router       /api/quotes [get]
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	in := dto.QuoteListRequest{
		Status:        c.Query("status"),
		ClientID:      c.Query("client_id"),
		SalespersonID: c.Query("salesperson_id"),
		PageRequest:   pageFrom(c),
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar borrador
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID"
// @Param        body  body  dto.QuoteDraftRequest  true  "cotización"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [put]
func (h *QuoteHandler) Update(c *fiber.Ctx) error {
	var in dto.QuoteDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateDraft(c.UserContext(), CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado (sent, approved, rejected)
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID"
// @Param        body  body  dto.QuoteTransitionRequest  true  "estado destino"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/transition [post]
func (h *QuoteHandler) Transition(c *fiber.Ctx) error {
	var in dto.QuoteTransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Transition(c.UserContext(), CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// Revise godoc
// @Summary      Crear nueva versión de la cotización
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de cualquier versión"
// @Param        body  body  dto.QuoteDraftRequest  true  "contenido de la revisión"
// @Success      201   {object}  dto.QuoteResponse
// @Router       /api/quotes/{id}/revisions [post]
func (h *QuoteHandler) Revise(c *fiber.Ctx) error {
	var in dto.QuoteDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Revise(c.UserContext(), CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Family godoc
// @Summary      Historial de versiones
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.QuoteFamilyResponse
// @Router       /api/quotes/{id}/family [get]
func (h *QuoteHandler) Family(c *fiber.Ctx) error {
	out, err := h.uc.GetFamily(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar PDF de la cotización
// @Tags         quotes
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID"
// @Success      200  {file}  binary
// @Router       /api/quotes/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.docs.QuotePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return sendDocument(c, mimePDF, filename, data)
}

// Convert godoc
// @Summary      Convertir la versión vigente en factura
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID"
// @Param        body  body  dto.ConvertQuoteRequest  false "vencimiento y recurrencia"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertQuoteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.invoices.ConvertQuote(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
