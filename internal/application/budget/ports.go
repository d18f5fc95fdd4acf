package budget

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye repos de estoque y orçamentos.
type TxRunner interface {
	RunBudget(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		budgetRepo repository.BudgetRepository,
	) error) error
}

// SalesCache caché del análisis de ventas; se invalida al concluir una venta.
type SalesCache interface {
	Bump(ctx context.Context) error
}

// SaleRecorder métricas de ventas concluidas.
type SaleRecorder interface {
	SaleCompleted(total decimal.Decimal)
}

// PDFGenerator genera el documento impreso del orçamento.
type PDFGenerator interface {
	BudgetPDF(ctx context.Context, b *entity.Budget, issuedAt time.Time) ([]byte, error)
}
