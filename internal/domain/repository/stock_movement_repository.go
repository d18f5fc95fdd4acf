package repository

import (
	"context"

	"github.com/ampliart/ampliart-api/internal/domain/entity"
)

// StockMovementRepository log append-only de movimientos de estoque. No hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve los movimientos más recientes primero; productID vacío = todos.
	List(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
