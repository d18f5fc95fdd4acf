package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/inventory"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
)

// RegisterMovementUseCase registra entradas y saídas de estoque de forma transaccional,
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
	metrics  MovementRecorder
}

// NewRegisterMovementUseCase construye el caso de uso. movRepo (pool) solo se usa para listar.
func NewRegisterMovementUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, movRepo: movRepo}
}

// WithMetrics activa el conteo de movimentações.
func (uc *RegisterMovementUseCase) WithMetrics(m MovementRecorder) *RegisterMovementUseCase {
	uc.metrics = m
	return uc
}

// RegisterMovement valida cantidad y motivo, bloquea el producto, calcula el nuevo saldo
// y guarda saldo y movimiento en la misma transacción. Una saída sin saldo no muta nada.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	kind, err := entity.ParseMovementKind(in.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: Tipo de movimentação inválido", domain.ErrInvalidInput)
	}
	reason, err := inventory.ValidateMovement(inventory.MovementRequest{
		ProductID: in.ProductID,
		Kind:      kind,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
	})
	if err != nil {
		return nil, err
	}

	var (
		mov     *entity.StockMovement
		balance int
	)
	err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: Produto não encontrado", domain.ErrNotFound)
		}
		mov, balance, err = ApplyInTx(ctx, movRepo, productRepo, product, kind, in.Quantity, reason, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.MovementRegistered(string(kind))
	}
	resp := toMovementResponse(mov)
	resp.StockAfter = &balance
	return resp, nil
}

// ApplyInTx aplica un movimiento sobre un producto ya bloqueado, usando los repos de la tx del caller.
// La conclusión de venta lo usa para cada saída del orçamento.
func ApplyInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	kind entity.MovementKind,
	quantity int,
	reason string,
	now time.Time,
) (*entity.StockMovement, int, error) {
	balance, err := inventory.Apply(product.StockQuantity, kind, quantity)
	if err != nil {
		return nil, product.StockQuantity, err
	}
	if err := productRepo.UpdateStock(ctx, product.ID, balance); err != nil {
		return nil, product.StockQuantity, err
	}
	product.StockQuantity = balance
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Kind:        kind,
		Quantity:    quantity,
		Reason:      reason,
		CreatedAt:   now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, balance, err
	}
	return mov, balance, nil
}

// List lista movimientos (más recientes primero). productID vacío = todos.
func (uc *RegisterMovementUseCase) List(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.movRepo.List(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Kind:        string(m.Kind),
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt,
	}
}
