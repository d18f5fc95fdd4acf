// Package inventory valida movimientos de estoque y calcula saldos resultantes.
package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
)

// SaleReasonPrefix prefijo del motivo de las saídas generadas al concluir una venta.
const SaleReasonPrefix = "Baixa por venda do orcamento "

// MovementRequest movimiento pedido por el usuario.
type MovementRequest struct {
	ProductID string
	Kind      entity.MovementKind
	Quantity  int
	Reason    string
}

// ValidateMovement valida cantidad y motivo. Devuelve el motivo normalizado.
func ValidateMovement(req MovementRequest) (string, error) {
	if req.Quantity < 1 {
		return "", fmt.Errorf("%w: Quantidade inválida", domain.ErrInvalidInput)
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return "", fmt.Errorf("%w: Motivo obrigatório", domain.ErrInvalidInput)
	}
	switch req.Kind {
	case entity.MovementInbound, entity.MovementOutbound:
	default:
		return "", fmt.Errorf("%w: Tipo de movimentação inválido", domain.ErrInvalidInput)
	}
	return reason, nil
}

// Apply calcula el saldo resultante. Una saída que deja saldo negativo devuelve ErrInsufficientStock.
func Apply(current int, kind entity.MovementKind, qty int) (int, error) {
	switch kind {
	case entity.MovementInbound:
		return current + qty, nil
	case entity.MovementOutbound:
		next := current - qty
		if next < 0 {
			return current, fmt.Errorf("%w: Estoque insuficiente (saldo %d, solicitado %d)", domain.ErrInsufficientStock, current, qty)
		}
		return next, nil
	}
	return current, fmt.Errorf("%w: Tipo de movimentação inválido", domain.ErrInvalidInput)
}

// SaleReason motivo de la saída generada por la conclusión del orçamento.
func SaleReason(budgetID string) string {
	return SaleReasonPrefix + budgetID
}

// Decrement saída planeada para un producto.
type Decrement struct {
	Product  *entity.Product
	Quantity int
	Balance  int // saldo tras aplicar todas las saídas del producto
}

// Arena mantiene saldos tentativos por producto mientras se planea la baja de una venta.
// Nada se escribe hasta que todos los ítems pasan la verificación.
type Arena struct {
	products map[string]*entity.Product
	balance  map[string]int
	order    []string
}

// NewArena crea una arena vacía.
func NewArena() *Arena {
	return &Arena{products: make(map[string]*entity.Product), balance: make(map[string]int)}
}

// Track registra el producto con su saldo actual (bloqueado por el llamador).
func (a *Arena) Track(p *entity.Product) {
	if _, ok := a.products[p.ID]; ok {
		return
	}
	a.products[p.ID] = p
	a.balance[p.ID] = p.StockQuantity
	a.order = append(a.order, p.ID)
}

// Take descuenta qty del saldo tentativo del producto.
func (a *Arena) Take(productID string, qty int) error {
	p, ok := a.products[productID]
	if !ok {
		return fmt.Errorf("%w: Produto não encontrado", domain.ErrNotFound)
	}
	next, err := Apply(a.balance[productID], entity.MovementOutbound, qty)
	if err != nil {
		return fmt.Errorf("%w: Estoque insuficiente para o produto %s", domain.ErrInsufficientStock, p.Name)
	}
	a.balance[productID] = next
	return nil
}

// Balance saldo tentativo del producto.
func (a *Arena) Balance(productID string) int {
	return a.balance[productID]
}

// PlanSaleCompletion verifica todos los ítems contra el estoque y devuelve las saídas a aplicar,
// una por ítem, en orden de producto. Si algún ítem no alcanza no se devuelve nada.
// products debe contener cada producto referenciado por los ítems.
func PlanSaleCompletion(items []entity.BudgetItem, products map[string]*entity.Product) ([]Decrement, error) {
	sorted := append([]entity.BudgetItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	arena := NewArena()
	for _, it := range sorted {
		p, ok := products[it.ProductID]
		if !ok || p == nil {
			return nil, fmt.Errorf("%w: Produto não encontrado", domain.ErrNotFound)
		}
		arena.Track(p)
		if err := arena.Take(it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
	}

	out := make([]Decrement, 0, len(sorted))
	for _, it := range sorted {
		out = append(out, Decrement{
			Product:  products[it.ProductID],
			Quantity: it.Quantity,
			Balance:  arena.Balance(it.ProductID),
		})
	}
	return out, nil
}

// ProductIDs devuelve los IDs de producto distintos de los ítems, ordenados
// (orden estable de bloqueo de filas).
func ProductIDs(items []entity.BudgetItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	sort.Strings(ids)
	return ids
}
