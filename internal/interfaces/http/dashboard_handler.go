package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/analytics"
)

// DashboardHandler resumen financiero.
type DashboardHandler struct {
	uc   *analytics.DashboardUseCase
	errs *ErrorResponder
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, errs *ErrorResponder) *DashboardHandler {
	return &DashboardHandler{uc: uc, errs: errs}
}

// Summary godoc
// @Summary      Resumen: gráfico de 6 meses, acumulado, cartera, embudo y ranking
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        month  query  string  false  "mes final AAAA-MM (por defecto el actual)"
// @Success      200    {object}  dto.DashboardSummaryDTO
// @Failure      422    {object}  dto.ValidationErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), c.Query("month"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}
