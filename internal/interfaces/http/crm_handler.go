package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/crm"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
)

// ClientHandler clientes.
type ClientHandler struct {
	uc   *crm.ClientUseCase
	errs *ErrorResponder
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *crm.ClientUseCase, errs *ErrorResponder) *ClientHandler {
	return &ClientHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClientRequest  true  "cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// List GET /api/clients?limit=20&offset=0
func (h *ClientHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// LeadHandler prospectos.
type LeadHandler struct {
	uc   *crm.LeadUseCase
	errs *ErrorResponder
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *crm.LeadUseCase, errs *ErrorResponder) *LeadHandler {
	return &LeadHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Crear prospecto
// @Tags         leads
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LeadRequest  true  "prospecto"
// @Success      201   {object}  dto.LeadResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.LeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/leads/:id
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	var in dto.LeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/leads/:id
func (h *LeadHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// List GET /api/leads
func (h *LeadHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}
