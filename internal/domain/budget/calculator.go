// Package budget contiene las reglas del agregado orçamento: upsert de ítems,
// ajuste porcentual y recálculo de totales. No hace I/O.
package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/money"
)

var maxPercentage = decimal.NewFromInt(100)

// Totals resultado del cálculo de totales de un orçamento.
type Totals struct {
	Gross      decimal.Decimal
	Adjustment decimal.Decimal
	Final      decimal.Decimal
}

// Compute calcula bruto, ajuste y final para los ítems y el ajuste dados.
// final = bruto + ajuste; el ajuste es negativo para desconto.
func Compute(items []entity.BudgetItem, kind entity.AdjustmentKind, pct *decimal.Decimal) Totals {
	gross := decimal.Zero
	for _, it := range items {
		gross = gross.Add(it.Subtotal)
	}
	gross = money.Round(gross)

	adj := money.Zero()
	if pct != nil {
		switch kind {
		case entity.AdjustmentDiscount:
			adj = money.Percent(gross, *pct).Neg()
		case entity.AdjustmentSurcharge:
			adj = money.Percent(gross, *pct)
		case entity.AdjustmentNone:
		}
	}
	return Totals{Gross: gross, Adjustment: adj, Final: money.Round(gross.Add(adj))}
}

// Recalculate recomputa subtotales de los ítems y los totales del orçamento.
func Recalculate(b *entity.Budget) {
	for i := range b.Items {
		b.Items[i].Subtotal = money.Times(b.Items[i].UnitPrice, b.Items[i].Quantity)
	}
	t := Compute(b.Items, b.AdjustmentKind, b.AdjustmentPercentage)
	b.GrossTotal = t.Gross
	b.AdjustmentAmount = t.Adjustment
	b.FinalTotal = t.Final
}

// ApplyAdjustment valida y aplica un ajuste porcentual. pct = 0 limpia el ajuste.
func ApplyAdjustment(b *entity.Budget, kind entity.AdjustmentKind, pct *decimal.Decimal) error {
	if pct == nil {
		return fmt.Errorf("%w: Informe o percentual do ajuste", domain.ErrInvalidInput)
	}
	if pct.IsNegative() {
		return fmt.Errorf("%w: Percentual do ajuste não pode ser negativo", domain.ErrInvalidInput)
	}
	if pct.GreaterThan(maxPercentage) {
		return fmt.Errorf("%w: Percentual do ajuste deve ser no máximo 100%%", domain.ErrInvalidInput)
	}
	if pct.IsZero() {
		ClearAdjustment(b)
		return nil
	}
	if kind == entity.AdjustmentNone {
		return fmt.Errorf("%w: Selecione se o ajuste é desconto ou acréscimo", domain.ErrInvalidInput)
	}
	p := money.Round(*pct)
	b.AdjustmentKind = kind
	b.AdjustmentPercentage = &p
	Recalculate(b)
	return nil
}

// ClearAdjustment quita tipo y porcentaje y recalcula.
func ClearAdjustment(b *entity.Budget) {
	b.AdjustmentKind = entity.AdjustmentNone
	b.AdjustmentPercentage = nil
	Recalculate(b)
}

// NormalizeQuantity cantidad nil o menor que 1 vale 1.
func NormalizeQuantity(qty *int) int {
	if qty == nil || *qty < 1 {
		return 1
	}
	return *qty
}

// AddProduct agrega el producto al orçamento. Si ya existe un ítem del producto incrementa
// su cantidad; si no, crea un ítem nuevo con el precio de venta actual.
// Devuelve el índice del ítem afectado y si fue creado.
func AddProduct(b *entity.Budget, p *entity.Product, qty *int) (int, bool) {
	n := NormalizeQuantity(qty)
	for i := range b.Items {
		if b.Items[i].ProductID == p.ID {
			b.Items[i].Quantity += n
			Recalculate(b)
			return i, false
		}
	}
	b.Items = append(b.Items, entity.BudgetItem{
		BudgetID:    b.ID,
		ProductID:   p.ID,
		ProductCode: p.Code,
		ProductName: p.Name,
		Quantity:    n,
		UnitPrice:   money.Round(p.SalePrice),
	})
	Recalculate(b)
	return len(b.Items) - 1, true
}

// UpdateItem aplica cantidad (> 0) y/o precio unitario (>= 0) y recalcula.
// Valores nil o inválidos se ignoran.
func UpdateItem(b *entity.Budget, itemID string, qty *int, price *decimal.Decimal) (int, error) {
	idx := b.FindItem(itemID)
	if idx < 0 {
		return -1, fmt.Errorf("%w: Item não pertence ao orçamento", domain.ErrInvalidInput)
	}
	if qty != nil && *qty > 0 {
		b.Items[idx].Quantity = *qty
	}
	if price != nil && !price.IsNegative() {
		b.Items[idx].UnitPrice = money.Round(*price)
	}
	Recalculate(b)
	return idx, nil
}

// RemoveItem quita el ítem y recalcula.
func RemoveItem(b *entity.Budget, itemID string) error {
	idx := b.FindItem(itemID)
	if idx < 0 {
		return fmt.Errorf("%w: Item não pertence ao orçamento", domain.ErrInvalidInput)
	}
	b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
	Recalculate(b)
	return nil
}

// NormalizeEmail devuelve nil para email vacío.
func NormalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.TrimSpace(*email)
	if e == "" {
		return nil
	}
	return &e
}
