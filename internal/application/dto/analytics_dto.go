package dto

import "github.com/shopspring/decimal"

// SalesAnalysisRequest query de GET /api/dashboard/sales. Fechas YYYY-MM-DD.
type SalesAnalysisRequest struct {
	Period    string `query:"period"`
	Reference string `query:"reference"`
	Start     string `query:"start"`
	End       string `query:"end"`
}

// PeriodDTO período resuelto.
type PeriodDTO struct {
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// SeriesPointDTO valores de un bucket.
type SeriesPointDTO struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// TopProductDTO producto más vendido del período.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// BestMonthDTO mes con mayor receita del histórico.
type BestMonthDTO struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesAnalysisDTO respuesta de GET /api/dashboard/sales.
type SalesAnalysisDTO struct {
	Period         PeriodDTO        `json:"period"`
	Revenue        decimal.Decimal  `json:"revenue"`
	Cost           decimal.Decimal  `json:"cost"`
	Profit         decimal.Decimal  `json:"profit"`
	CompletedSales int              `json:"completed_sales"`
	AverageTicket  decimal.Decimal  `json:"average_ticket"`
	ProfitMargin   decimal.Decimal  `json:"profit_margin"`
	Series         []SeriesPointDTO `json:"series"`
	TopProducts    []TopProductDTO  `json:"top_products"`
	BestMonths     []BestMonthDTO   `json:"best_months"`
}
