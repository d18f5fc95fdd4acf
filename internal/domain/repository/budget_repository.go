package repository

import (
	"context"

	"github.com/ampliart/ampliart-api/internal/domain/entity"
)

// BudgetRepository persiste el agregado orçamento. GetByID y GetForUpdate cargan los ítems
// ordenados por fecha de inclusión.
type BudgetRepository interface {
	Create(ctx context.Context, budget *entity.Budget) error
	GetByID(ctx context.Context, id string) (*entity.Budget, error)
	// GetForUpdate bloquea la fila del orçamento. Solo dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Budget, error)
	// Update guarda cabecera y totales (no los ítems).
	Update(ctx context.Context, budget *entity.Budget) error
	CreateItem(ctx context.Context, item *entity.BudgetItem) error
	UpdateItem(ctx context.Context, item *entity.BudgetItem) error
	DeleteItem(ctx context.Context, budgetID, itemID string) error
	List(ctx context.Context, filter entity.BudgetFilter) ([]*entity.Budget, error)
}
