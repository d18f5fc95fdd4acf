package budget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ampliart/ampliart-api/internal/application/dto"
	appinventory "github.com/ampliart/ampliart-api/internal/application/inventory"
	"github.com/ampliart/ampliart-api/internal/domain"
	dombudget "github.com/ampliart/ampliart-api/internal/domain/budget"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/inventory"
	"github.com/ampliart/ampliart-api/internal/domain/money"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
	"github.com/ampliart/ampliart-api/pkg/logger"
)

// UseCase ciclo de vida del orçamento: alta, ítems, ajuste, estado y conclusión de venta.
// Toda mutación corre en una transacción con la fila del orçamento bloqueada.
type UseCase struct {
	txRunner TxRunner
	repo     repository.BudgetRepository
	cache    SalesCache
	loc      *time.Location
	log      *logger.Logger
	metrics  SaleRecorder
}

// NewUseCase construye el caso de uso. cache y log pueden ser nil.
func NewUseCase(txRunner TxRunner, repo repository.BudgetRepository, cache SalesCache, loc *time.Location, log *logger.Logger) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{txRunner: txRunner, repo: repo, cache: cache, loc: loc, log: log.Component("budget")}
}

// WithMetrics activa el conteo de ventas concluidas.
func (uc *UseCase) WithMetrics(m SaleRecorder) *UseCase {
	uc.metrics = m
	return uc
}

var (
	errBudgetNotFound  = fmt.Errorf("%w: Orçamento não encontrado", domain.ErrNotFound)
	errProductNotFound = fmt.Errorf("%w: Produto não encontrado", domain.ErrNotFound)
	errBudgetClosed    = fmt.Errorf("%w: Orçamento finalizado não pode ser alterado", domain.ErrInvalidInput)
	errInvalidStatus   = fmt.Errorf("%w: Status inválido", domain.ErrInvalidInput)
)

// Create crea un orçamento en rascunho con totales en cero.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateBudgetRequest) (*dto.BudgetResponse, error) {
	name := strings.TrimSpace(in.ClientName)
	phone := strings.TrimSpace(in.ClientPhone)
	if name == "" {
		return nil, fmt.Errorf("%w: Nome do cliente é obrigatório", domain.ErrInvalidInput)
	}
	if phone == "" || len(phone) > 15 {
		return nil, fmt.Errorf("%w: Telefone inválido", domain.ErrInvalidInput)
	}
	now := time.Now()
	b := &entity.Budget{
		ID:               uuid.New().String(),
		ClientName:       name,
		ClientPhone:      phone,
		ClientEmail:      dombudget.NormalizeEmail(in.ClientEmail),
		Status:           entity.BudgetDraft,
		GrossTotal:       money.Zero(),
		AdjustmentAmount: money.Zero(),
		FinalTotal:       money.Zero(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return ToBudgetResponse(b), nil
}

// Get obtiene el orçamento con sus ítems.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.BudgetResponse, error) {
	b, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBudgetResponse(b), nil
}

func (uc *UseCase) load(ctx context.Context, id string) (*entity.Budget, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errBudgetNotFound
	}
	return b, nil
}

// List lista orçamentos por estado y rango de fechas de creación (inclusivo, YYYY-MM-DD).
func (uc *UseCase) List(ctx context.Context, in dto.BudgetListRequest) (*dto.BudgetListResponse, error) {
	var filter entity.BudgetFilter
	if s := strings.TrimSpace(in.Status); s != "" {
		status, err := entity.ParseBudgetStatus(s)
		if err != nil {
			return nil, errInvalidStatus
		}
		filter.Status = &status
	}
	if in.From != "" {
		from, err := time.ParseInLocation("2006-01-02", in.From, uc.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: Data inicial inválida", domain.ErrInvalidInput)
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.ParseInLocation("2006-01-02", in.To, uc.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: Data final inválida", domain.ErrInvalidInput)
		}
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BudgetResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *ToBudgetResponse(b))
	}
	return &dto.BudgetListResponse{Items: items, Total: len(items)}, nil
}

// mutate carga el orçamento bloqueado, aplica fn y guarda cabecera y totales.
func (uc *UseCase) mutate(ctx context.Context, id string, fn func(
	b *entity.Budget,
	productRepo repository.ProductRepository,
	budgetRepo repository.BudgetRepository,
) error) (*entity.Budget, error) {
	var out *entity.Budget
	err := uc.txRunner.RunBudget(ctx, func(
		_ repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		budgetRepo repository.BudgetRepository,
	) error {
		b, err := budgetRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return errBudgetNotFound
		}
		if b.Status.IsTerminal() {
			return errBudgetClosed
		}
		if err := fn(b, productRepo, budgetRepo); err != nil {
			return err
		}
		b.UpdatedAt = time.Now()
		if err := budgetRepo.Update(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

// AddItem agrega un producto por código o por ID. Si ya está en el orçamento suma la cantidad.
func (uc *UseCase) AddItem(ctx context.Context, id string, in dto.AddBudgetItemRequest) (*dto.BudgetResponse, error) {
	code := strings.TrimSpace(in.Code)
	productID := strings.TrimSpace(in.ProductID)
	if code == "" && productID == "" {
		return nil, fmt.Errorf("%w: Informe o código ou o produto", domain.ErrInvalidInput)
	}
	b, err := uc.mutate(ctx, id, func(b *entity.Budget, productRepo repository.ProductRepository, budgetRepo repository.BudgetRepository) error {
		var (
			p   *entity.Product
			err error
		)
		if productID != "" {
			p, err = productRepo.GetByID(ctx, productID)
		} else {
			p, err = productRepo.GetByCode(ctx, code)
		}
		if err != nil {
			return err
		}
		if p == nil {
			return errProductNotFound
		}
		idx, created := dombudget.AddProduct(b, p, in.Quantity)
		if created {
			b.Items[idx].ID = uuid.New().String()
			return budgetRepo.CreateItem(ctx, &b.Items[idx])
		}
		return budgetRepo.UpdateItem(ctx, &b.Items[idx])
	})
	if err != nil {
		return nil, err
	}
	return ToBudgetResponse(b), nil
}

// UpdateItem cambia cantidad y/o precio unitario del ítem.
func (uc *UseCase) UpdateItem(ctx context.Context, id, itemID string, in dto.UpdateBudgetItemRequest) (*dto.BudgetResponse, error) {
	b, err := uc.mutate(ctx, id, func(b *entity.Budget, _ repository.ProductRepository, budgetRepo repository.BudgetRepository) error {
		idx, err := dombudget.UpdateItem(b, itemID, in.Quantity, in.UnitPrice)
		if err != nil {
			return err
		}
		return budgetRepo.UpdateItem(ctx, &b.Items[idx])
	})
	if err != nil {
		return nil, err
	}
	return ToBudgetResponse(b), nil
}

// RemoveItem quita el ítem y recalcula los totales.
func (uc *UseCase) RemoveItem(ctx context.Context, id, itemID string) (*dto.BudgetResponse, error) {
	b, err := uc.mutate(ctx, id, func(b *entity.Budget, _ repository.ProductRepository, budgetRepo repository.BudgetRepository) error {
		if err := dombudget.RemoveItem(b, itemID); err != nil {
			return err
		}
		return budgetRepo.DeleteItem(ctx, id, itemID)
	})
	if err != nil {
		return nil, err
	}
	return ToBudgetResponse(b), nil
}

// ApplyAdjustment aplica desconto o acréscimo porcentual. 0% limpia el ajuste.
func (uc *UseCase) ApplyAdjustment(ctx context.Context, id string, in dto.AdjustmentRequest) (*dto.BudgetResponse, error) {
	kind, err := entity.ParseAdjustmentKind(strings.TrimSpace(in.Kind))
	if err != nil {
		return nil, fmt.Errorf("%w: Selecione se o ajuste é desconto ou acréscimo", domain.ErrInvalidInput)
	}
	b, err := uc.mutate(ctx, id, func(b *entity.Budget, _ repository.ProductRepository, _ repository.BudgetRepository) error {
		return dombudget.ApplyAdjustment(b, kind, in.Percentage)
	})
	if err != nil {
		return nil, err
	}
	return ToBudgetResponse(b), nil
}

// ClearAdjustment quita el ajuste.
func (uc *UseCase) ClearAdjustment(ctx context.Context, id string) (*dto.BudgetResponse, error) {
	b, err := uc.mutate(ctx, id, func(b *entity.Budget, _ repository.ProductRepository, _ repository.BudgetRepository) error {
		dombudget.ClearAdjustment(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToBudgetResponse(b), nil
}

// ChangeStatus cambia el estado. Un orçamento en estado terminal se devuelve sin cambios;
// pasar a sale_completed concluye la venta (baja de estoque, una vez).
func (uc *UseCase) ChangeStatus(ctx context.Context, id string, in dto.BudgetStatusRequest) (*dto.BudgetResponse, error) {
	status, err := entity.ParseBudgetStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return nil, errInvalidStatus
	}

	var (
		out       *entity.Budget
		completed bool
	)
	err = uc.txRunner.RunBudget(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		budgetRepo repository.BudgetRepository,
	) error {
		b, err := budgetRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return errBudgetNotFound
		}
		out = b
		if b.Status.IsTerminal() {
			return nil
		}
		switch status {
		case entity.BudgetSaleCompleted:
			completed, err = uc.complete(ctx, movRepo, productRepo, b)
			if err != nil {
				return err
			}
		case entity.BudgetDraft, entity.BudgetSent, entity.BudgetAwaitingApproval, entity.BudgetCancelled:
			b.Status = status
		}
		b.UpdatedAt = time.Now()
		return budgetRepo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	if completed {
		uc.log.Info().Str("budget_id", out.ID).Str("final_total", out.FinalTotal.StringFixed(2)).
			Int("items", len(out.Items)).Msg("venda concluída")
		if uc.metrics != nil {
			uc.metrics.SaleCompleted(out.FinalTotal)
		}
		if uc.cache != nil {
			if err := uc.cache.Bump(ctx); err != nil {
				uc.log.Warn().Err(err).Msg("invalidar cache de análise")
			}
		}
	}
	return ToBudgetResponse(out), nil
}

// complete verifica todo el estoque antes de mutar nada y luego aplica una saída por ítem.
// Idempotente: si ya tiene completed_at no hace nada.
func (uc *UseCase) complete(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	b *entity.Budget,
) (bool, error) {
	if b.CompletedAt != nil {
		return false, nil
	}

	// Bloqueo en orden de producto para evitar deadlocks entre conclusiones concurrentes.
	products := make(map[string]*entity.Product, len(b.Items))
	for _, pid := range inventory.ProductIDs(b.Items) {
		p, err := productRepo.GetForUpdate(ctx, pid)
		if err != nil {
			return false, err
		}
		if p == nil {
			return false, errProductNotFound
		}
		products[pid] = p
	}

	plan, err := inventory.PlanSaleCompletion(b.Items, products)
	if err != nil {
		return false, err
	}

	now := time.Now()
	reason := inventory.SaleReason(b.ID)
	for _, d := range plan {
		if _, _, err := appinventory.ApplyInTx(ctx, movRepo, productRepo, d.Product, entity.MovementOutbound, d.Quantity, reason, now); err != nil {
			return false, err
		}
	}
	b.Status = entity.BudgetSaleCompleted
	b.CompletedAt = &now
	return true, nil
}

// ToBudgetResponse mapea el agregado a la respuesta HTTP.
func ToBudgetResponse(b *entity.Budget) *dto.BudgetResponse {
	items := make([]dto.BudgetItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, dto.BudgetItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return &dto.BudgetResponse{
		ID:                   b.ID,
		ClientName:           b.ClientName,
		ClientPhone:          b.ClientPhone,
		ClientEmail:          b.ClientEmail,
		Status:               string(b.Status),
		StatusLabel:          b.Status.Label(),
		GrossTotal:           b.GrossTotal,
		AdjustmentKind:       string(b.AdjustmentKind),
		AdjustmentPercentage: b.AdjustmentPercentage,
		AdjustmentAmount:     b.AdjustmentAmount,
		FinalTotal:           b.FinalTotal,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
		CompletedAt:          b.CompletedAt,
		Items:                items,
	}
}
