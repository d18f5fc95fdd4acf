package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/ampliart/ampliart-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary devuelve el indicador del mes en curso, el valor del estoque y el conteo de
// productos con estoque bajo.
// GET /api/dashboard/summary
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con estoque bajo
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Umbral de estoque (default 10)"
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/dashboard/low-stock [get]
func (h *DashboardHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Indicators godoc
// @Summary      Indicadores Hoje / Semana / Mês / Ano y últimos N días
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días de la serie diaria (default 7, máx. 90)"
// @Success      200  {object}  dto.IndicatorsResponse
// @Router       /api/dashboard/indicators [get]
func (h *DashboardHandler) Indicators(c *fiber.Ctx) error {
	out, err := h.uc.Indicators(c.UserContext(), c.QueryInt("days", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
