package http

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/jobs"
)

const (
	mimePDF = "application/pdf"
	mimeXML = "application/xml"

	// HeaderDocumentDigest huella SHA-256 (base64) del XML canónico de la factura.
	HeaderDocumentDigest = "X-Document-Digest"
)

// sendDocument entrega un archivo generado como adjunto.
func sendDocument(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	return c.Send(data)
}

// InvoiceHandler facturas, pagos y documentos exportables.
type InvoiceHandler struct {
	uc   *billing.InvoiceUseCase
	docs *billing.DocumentUseCase
	errs *ErrorResponder
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, docs *billing.DocumentUseCase, errs *ErrorResponder) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, docs: docs, errs: errs}
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "límite"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID"
// @Param        body  body  dto.PaymentRequest  true  "monto y fecha"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordPayment(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID"
// @Success      200  {file}  binary
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.docs.InvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return sendDocument(c, mimePDF, filename, data)
}

// XML godoc
// @Summary      Exportar la factura en XML UBL
// @Description  La cabecera X-Document-Digest lleva el SHA-256 del XML canónico.
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/xml
// @Param        id   path  string  true  "ID"
// @Success      200  {file}  binary
// @Router       /api/invoices/{id}/xml [get]
func (h *InvoiceHandler) XML(c *fiber.Ctx) error {
	data, filename, digest, err := h.docs.InvoiceXML(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	c.Set(HeaderDocumentDigest, digest)
	return sendDocument(c, mimeXML, filename, data)
}

// ExpenseHandler gastos operativos y sincronización de recurrentes.
type ExpenseHandler struct {
	uc   *billing.ExpenseUseCase
	sync *jobs.RecurringSyncService
	errs *ErrorResponder
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(uc *billing.ExpenseUseCase, sync *jobs.RecurringSyncService, errs *ErrorResponder) *ExpenseHandler {
	return &ExpenseHandler{uc: uc, sync: sync, errs: errs}
}

// Create godoc
// @Summary      Registrar gasto
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExpenseRequest  true  "gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var in dto.ExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar gastos
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.ExpenseResponse
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// SyncRecurring godoc
// @Summary      Generar facturas y gastos recurrentes vencidos
// @Tags         recurring
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.RecurringSyncResponse
// @Router       /api/recurring/sync [post]
func (h *ExpenseHandler) SyncRecurring(c *fiber.Ctx) error {
	out, err := h.sync.Run(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}
