package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	Month          IndicatorDTO    `json:"month"`
	StockValue     decimal.Decimal `json:"stock_value"` // Σ precio de venta × estoque (activos)
	LowStockCount  int             `json:"low_stock_count"`
	LowStockLimit  int             `json:"low_stock_limit"`
	TotalProducts  int             `json:"total_products"`
	ActiveProducts int             `json:"active_products"`
	OpenBudgets    int             `json:"open_budgets"`
}

// IndicatorDTO receita, gasto y lucro de una ventana (Hoje, Semana, Mês, Ano o un día).
type IndicatorDTO struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Sales   int             `json:"sales"`
}

// IndicatorsResponse indicadores fijos más los últimos N días (del más antiguo a hoy).
type IndicatorsResponse struct {
	Periods []IndicatorDTO `json:"periods"`
	Daily   []IndicatorDTO `json:"daily"`
}

// LowStockItemDTO producto con estoque bajo.
type LowStockItemDTO struct {
	ProductID     string `json:"product_id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
}

// LowStockResponse respuesta de GET /api/dashboard/low-stock.
type LowStockResponse struct {
	Limit int               `json:"limit"`
	Count int               `json:"count"`
	Items []LowStockItemDTO `json:"items"`
}
