package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ampliart/ampliart-api/internal/application/budget"
	"github.com/ampliart/ampliart-api/internal/application/dto"
)

// BudgetHandler orçamentos, sus ítems, ajuste, status y PDF.
type BudgetHandler struct {
	uc  *budget.UseCase
	pdf *budget.PDFUseCase
}

// NewBudgetHandler construye el handler.
func NewBudgetHandler(uc *budget.UseCase, pdf *budget.PDFUseCase) *BudgetHandler {
	return &BudgetHandler{uc: uc, pdf: pdf}
}

// List godoc
// @Summary      Listar orçamentos
// @Tags         budgets
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "draft | sent | awaiting_approval | sale_completed | cancelled"
// @Param        from    query  string  false  "Creado desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Creado hasta, inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.BudgetListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/budgets [get]
func (h *BudgetHandler) List(c *fiber.Ctx) error {
	var in dto.BudgetListRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, errInvalidBody)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear orçamento
// @Tags         budgets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBudgetRequest  true  "Cliente"
// @Success      201   {object}  dto.BudgetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/budgets [post]
func (h *BudgetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBudgetRequest
	if err := bindJSON(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener orçamento
// @Tags         budgets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del orçamento"
// @Success      200  {object}  dto.BudgetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/budgets/{id} [get]
func (h *BudgetHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar producto al orçamento
// @Description  Si el producto ya está en el orçamento se incrementa la cantidad.
// @Tags         budgets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del orçamento"
// @Param        body  body  dto.AddBudgetItemRequest  true  "code o product_id, quantity"
// @Success      200   {object}  dto.BudgetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/budgets/{id}/items [post]
func (h *BudgetHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddBudgetItemRequest
	if err := bindJSON(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.AddItem(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Actualizar ítem
// @Tags         budgets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                        true  "ID del orçamento"
// @Param        itemId  path  string                        true  "ID del ítem"
// @Param        body    body  dto.UpdateBudgetItemRequest  true  "quantity y/o unit_price"
// @Success      200     {object}  dto.BudgetResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/budgets/{id}/items/{itemId} [put]
func (h *BudgetHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateBudgetItemRequest
	if err := bindJSON(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.UpdateItem(c.UserContext(), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar ítem
// @Tags         budgets
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del orçamento"
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      200     {object}  dto.BudgetResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/budgets/{id}/items/{itemId} [delete]
func (h *BudgetHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.UserContext(), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ApplyAdjustment godoc
// @Summary      Aplicar desconto o acréscimo
// @Description  percentage entre 0 y 100; 0 elimina el ajuste.
// @Tags         budgets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del orçamento"
// @Param        body  body  dto.AdjustmentRequest  true  "kind, percentage"
// @Success      200   {object}  dto.BudgetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/budgets/{id}/adjustment [put]
func (h *BudgetHandler) ApplyAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := bindJSON(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.ApplyAdjustment(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ClearAdjustment godoc
// @Summary      Quitar ajuste
// @Tags         budgets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del orçamento"
// @Success      200  {object}  dto.BudgetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/budgets/{id}/adjustment [delete]
func (h *BudgetHandler) ClearAdjustment(c *fiber.Ctx) error {
	out, err := h.uc.ClearAdjustment(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar status
// @Description  sale_completed descuenta estoque de todos los ítems (todo o nada). Estados terminales no cambian.
// @Tags         budgets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del orçamento"
// @Param        body  body  dto.BudgetStatusRequest  true  "status"
// @Success      200   {object}  dto.BudgetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/budgets/{id}/status [put]
func (h *BudgetHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.BudgetStatusRequest
	if err := bindJSON(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar PDF del orçamento
// @Tags         budgets
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del orçamento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/budgets/{id}/pdf [get]
func (h *BudgetHandler) DownloadPDF(c *fiber.Ctx) error {
	body, filename, err := h.pdf.DownloadBudgetPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, "application/pdf", filename, body)
}

// sendFile responde un adjunto descargable.
func sendFile(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}
