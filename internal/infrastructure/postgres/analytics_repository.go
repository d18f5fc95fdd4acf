package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ampliart/ampliart-api/internal/domain/money"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
	"github.com/ampliart/ampliart-api/internal/domain/sales"
)

var (
	_ repository.SalesRepository     = (*AnalyticsRepo)(nil)
	_ repository.DashboardRepository = (*AnalyticsRepo)(nil)
)

// AnalyticsRepo consultas de solo lectura para el dashboard y el análisis de ventas.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// CompletedSales orçamentos concluidos con completed_at en [from, to).
func (r *AnalyticsRepo) CompletedSales(ctx context.Context, from, to time.Time) ([]sales.Sale, error) {
	const query = `
	SELECT id, final_total, completed_at
	FROM budgets
	WHERE status = 'sale_completed'
	  AND completed_at >= $1
	  AND completed_at <  $2
	ORDER BY completed_at`
	return r.querySales(ctx, "analytics.CompletedSales", query, from, to)
}

// CompletedHistory todas las ventas concluidas (ranking de mejores meses).
func (r *AnalyticsRepo) CompletedHistory(ctx context.Context) ([]sales.Sale, error) {
	const query = `
	SELECT id, final_total, completed_at
	FROM budgets
	WHERE status = 'sale_completed'
	  AND completed_at IS NOT NULL`
	return r.querySales(ctx, "analytics.CompletedHistory", query)
}

func (r *AnalyticsRepo) querySales(ctx context.Context, op, query string, args ...any) ([]sales.Sale, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []sales.Sale
	for rows.Next() {
		var s sales.Sale
		if err := rows.Scan(&s.BudgetID, &s.FinalTotal, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CompletedLines ítems de las ventas concluidas en [from, to) con el precio de compra actual.
// LEFT JOIN: un producto sin precio de compra no suma al gasto.
func (r *AnalyticsRepo) CompletedLines(ctx context.Context, from, to time.Time) ([]sales.Line, error) {
	const query = `
	SELECT
	    i.budget_id,
	    i.product_id,
	    COALESCE(p.name, '')  AS product_name,
	    i.quantity,
	    i.subtotal,
	    p.purchase_price,
	    b.completed_at
	FROM budget_items i
	JOIN budgets       b ON b.id = i.budget_id
	LEFT JOIN products p ON p.id = i.product_id
	WHERE b.status = 'sale_completed'
	  AND b.completed_at >= $1
	  AND b.completed_at <  $2`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.CompletedLines: %w", err)
	}
	defer rows.Close()

	var out []sales.Line
	for rows.Next() {
		var l sales.Line
		if err := rows.Scan(
			&l.BudgetID,
			&l.ProductID,
			&l.ProductName,
			&l.Quantity,
			&l.Subtotal,
			&l.PurchasePrice,
			&l.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("analytics.CompletedLines scan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CatalogStats totales del catálogo y orçamentos abiertos.
// Usa COALESCE para devolver cero con el catálogo vacío.
func (r *AnalyticsRepo) CatalogStats(ctx context.Context) (repository.CatalogStats, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products)                                                   AS total_products,
	    (SELECT COUNT(*) FROM products WHERE active)                                      AS active_products,
	    (SELECT COALESCE(SUM(sale_price * stock_quantity), 0) FROM products WHERE active) AS stock_value,
	    (SELECT COUNT(*) FROM budgets WHERE status NOT IN ('sale_completed', 'cancelled')) AS open_budgets`

	var st repository.CatalogStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&st.TotalProducts, &st.ActiveProducts, &st.StockValue, &st.OpenBudgets,
	); err != nil {
		return repository.CatalogStats{}, fmt.Errorf("analytics.CatalogStats: %w", err)
	}
	st.StockValue = money.Round(st.StockValue)
	return st, nil
}

// LowStock productos activos con estoque <= limit. El orden final lo decide el caso de uso.
func (r *AnalyticsRepo) LowStock(ctx context.Context, limit int) ([]repository.LowStockRow, error) {
	const query = `
	SELECT id, code, name, stock_quantity
	FROM products
	WHERE active AND stock_quantity <= $1
	ORDER BY stock_quantity, name`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.LowStock: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ProductID, &row.Code, &row.Name, &row.StockQuantity); err != nil {
			return nil, fmt.Errorf("analytics.LowStock scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
