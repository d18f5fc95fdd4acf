package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ampliart/ampliart-api/internal/domain/sales"
)

// SalesRepository consultas read-only sobre orçamentos concluidos (ventas).
// Las ventanas son semiabiertas [from, to) sobre completed_at.
type SalesRepository interface {
	CompletedSales(ctx context.Context, from, to time.Time) ([]sales.Sale, error)
	// CompletedLines ítems de las ventas de la ventana, con el precio de compra actual del producto.
	CompletedLines(ctx context.Context, from, to time.Time) ([]sales.Line, error)
	// CompletedHistory todas las ventas concluidas, sin filtro de fecha.
	CompletedHistory(ctx context.Context) ([]sales.Sale, error)
}

// CatalogStats números del catálogo para el resumen del dashboard.
type CatalogStats struct {
	TotalProducts  int
	ActiveProducts int
	StockValue     decimal.Decimal // Σ precio de venta × estoque de productos activos
	OpenBudgets    int             // orçamentos no terminales
}

// DashboardRepository agregados de catálogo para el dashboard.
type DashboardRepository interface {
	CatalogStats(ctx context.Context) (CatalogStats, error)
	// LowStock productos activos con estoque <= limit.
	LowStock(ctx context.Context, limit int) ([]LowStockRow, error)
}

// LowStockRow producto con estoque bajo.
type LowStockRow struct {
	ProductID     string
	Code          string
	Name          string
	StockQuantity int
}
