package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBudgetRequest body para POST /api/budgets.
type CreateBudgetRequest struct {
	ClientName  string  `json:"client_name" validate:"required,min=1,max=150"`
	ClientPhone string  `json:"client_phone" validate:"required,min=1,max=15"`
	ClientEmail *string `json:"client_email" validate:"omitempty,max=150"`
}

// AddBudgetItemRequest agrega un producto por código o por ID. Quantity nil o < 1 vale 1.
type AddBudgetItemRequest struct {
	Code      string `json:"code"`
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

// UpdateBudgetItemRequest cada campo es opcional; valores inválidos se ignoran.
type UpdateBudgetItemRequest struct {
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// AdjustmentRequest body para PUT /api/budgets/:id/adjustment.
type AdjustmentRequest struct {
	Kind       string           `json:"kind" validate:"omitempty,oneof=discount surcharge"`
	Percentage *decimal.Decimal `json:"percentage"`
}

// BudgetStatusRequest body para PUT /api/budgets/:id/status.
type BudgetStatusRequest struct {
	Status string `json:"status"`
}

// BudgetListRequest filtros de GET /api/budgets. Fechas YYYY-MM-DD inclusivas.
type BudgetListRequest struct {
	Status string `query:"status"`
	From   string `query:"from"`
	To     string `query:"to"`
}

// BudgetItemResponse línea del orçamento.
type BudgetItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// BudgetResponse orçamento con ítems y totales.
type BudgetResponse struct {
	ID                   string               `json:"id"`
	ClientName           string               `json:"client_name"`
	ClientPhone          string               `json:"client_phone"`
	ClientEmail          *string              `json:"client_email,omitempty"`
	Status               string               `json:"status"`
	StatusLabel          string               `json:"status_label"`
	GrossTotal           decimal.Decimal      `json:"gross_total"`
	AdjustmentKind       string               `json:"adjustment_kind,omitempty"`
	AdjustmentPercentage *decimal.Decimal     `json:"adjustment_percentage,omitempty"`
	AdjustmentAmount     decimal.Decimal      `json:"adjustment_amount"`
	FinalTotal           decimal.Decimal      `json:"final_total"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
	CompletedAt          *time.Time           `json:"completed_at,omitempty"`
	Items                []BudgetItemResponse `json:"items"`
}

// BudgetListResponse listado de orçamentos (sin ítems).
type BudgetListResponse struct {
	Items []BudgetResponse `json:"items"`
	Total int              `json:"total"`
}
