package inventory

import (
	"context"

	"github.com/ampliart/ampliart-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de estoque.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// MovementRecorder métricas de movimentações registradas.
type MovementRecorder interface {
	MovementRegistered(kind string)
}
