package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/ampliart/ampliart-api/internal/application/analytics"
	"github.com/ampliart/ampliart-api/internal/application/dto"
)

// AnalyticsHandler análisis de ventas por período y sus exportaciones.
type AnalyticsHandler struct {
	uc *appanalytics.UseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Sales godoc
// @Summary      Análisis de ventas
// @Description  Receita, gasto, lucro, ticket medio, margen, serie por bucket, top productos
//               y mejores meses. start/end (ambos) definen un rango personalizado.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        period     query  string  false  "day | week | month | year (default month)"
// @Param        reference  query  string  false  "Fecha de referencia (YYYY-MM-DD). Default: hoy."
// @Param        start      query  string  false  "Inicio del rango (YYYY-MM-DD)"
// @Param        end        query  string  false  "Fin del rango, inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesAnalysisDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/sales [get]
func (h *AnalyticsHandler) Sales(c *fiber.Ctx) error {
	in, err := salesQuery(c)
	if err != nil {
		return fail(c, err)
	}
	out, err := h.uc.Analysis(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Exportar análisis en CSV
// @Tags         dashboard
// @Security     Bearer
// @Produce      text/csv
// @Param        period     query  string  false  "day | week | month | year"
// @Param        reference  query  string  false  "YYYY-MM-DD"
// @Param        start      query  string  false  "YYYY-MM-DD"
// @Param        end        query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/sales/export/csv [get]
func (h *AnalyticsHandler) ExportCSV(c *fiber.Ctx) error {
	in, err := salesQuery(c)
	if err != nil {
		return fail(c, err)
	}
	body, filename, err := h.uc.ExportCSV(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, "text/csv; charset=utf-8", filename, body)
}

// ExportPDF godoc
// @Summary      Exportar análisis en PDF
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/pdf
// @Param        period     query  string  false  "day | week | month | year"
// @Param        reference  query  string  false  "YYYY-MM-DD"
// @Param        start      query  string  false  "YYYY-MM-DD"
// @Param        end        query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/sales/export/pdf [get]
func (h *AnalyticsHandler) ExportPDF(c *fiber.Ctx) error {
	in, err := salesQuery(c)
	if err != nil {
		return fail(c, err)
	}
	body, filename, err := h.uc.ExportPDF(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, "application/pdf", filename, body)
}

func salesQuery(c *fiber.Ctx) (dto.SalesAnalysisRequest, error) {
	var in dto.SalesAnalysisRequest
	if err := c.QueryParser(&in); err != nil {
		return in, errInvalidBody
	}
	return in, nil
}
