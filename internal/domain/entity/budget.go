package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus estado del ciclo de vida de un orçamento.
type BudgetStatus string

// Estados del orçamento. SaleCompleted y Cancelled son terminales.
const (
	BudgetDraft            BudgetStatus = "draft"
	BudgetSent             BudgetStatus = "sent"
	BudgetAwaitingApproval BudgetStatus = "awaiting_approval"
	BudgetSaleCompleted    BudgetStatus = "sale_completed"
	BudgetCancelled        BudgetStatus = "cancelled"
)

// ParseBudgetStatus valida el texto recibido.
func ParseBudgetStatus(s string) (BudgetStatus, error) {
	switch BudgetStatus(s) {
	case BudgetDraft, BudgetSent, BudgetAwaitingApproval, BudgetSaleCompleted, BudgetCancelled:
		return BudgetStatus(s), nil
	}
	return "", fmt.Errorf("status de orçamento desconhecido: %q", s)
}

// IsTerminal indica si el estado ya no admite transiciones.
func (s BudgetStatus) IsTerminal() bool {
	switch s {
	case BudgetSaleCompleted, BudgetCancelled:
		return true
	case BudgetDraft, BudgetSent, BudgetAwaitingApproval:
		return false
	}
	return false
}

// Label texto para documentos impresos.
func (s BudgetStatus) Label() string {
	switch s {
	case BudgetDraft:
		return "Rascunho"
	case BudgetSent:
		return "Enviado"
	case BudgetAwaitingApproval:
		return "Aguardando aprovação"
	case BudgetSaleCompleted:
		return "Venda concluída"
	case BudgetCancelled:
		return "Cancelado"
	}
	return string(s)
}

// AdjustmentKind tipo de ajuste porcentual sobre el total bruto.
type AdjustmentKind string

// Tipos de ajuste. AdjustmentNone = sin ajuste configurado.
const (
	AdjustmentNone      AdjustmentKind = ""
	AdjustmentDiscount  AdjustmentKind = "discount"
	AdjustmentSurcharge AdjustmentKind = "surcharge"
)

// ParseAdjustmentKind acepta "", "discount" o "surcharge".
func ParseAdjustmentKind(s string) (AdjustmentKind, error) {
	switch AdjustmentKind(s) {
	case AdjustmentNone, AdjustmentDiscount, AdjustmentSurcharge:
		return AdjustmentKind(s), nil
	}
	return "", fmt.Errorf("tipo de ajuste desconhecido: %q", s)
}

// Budget orçamento con sus ítems (agregado: los ítems pertenecen solo a él).
type Budget struct {
	ID                   string
	ClientName           string
	ClientPhone          string
	ClientEmail          *string
	Status               BudgetStatus
	GrossTotal           decimal.Decimal
	AdjustmentKind       AdjustmentKind
	AdjustmentPercentage *decimal.Decimal
	AdjustmentAmount     decimal.Decimal
	FinalTotal           decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CompletedAt          *time.Time
	Items                []BudgetItem
}

// HasAdjustment indica si hay tipo y porcentaje configurados.
func (b *Budget) HasAdjustment() bool {
	return b.AdjustmentKind != AdjustmentNone && b.AdjustmentPercentage != nil
}

// FindItem devuelve el índice del ítem con el ID dado o -1.
func (b *Budget) FindItem(itemID string) int {
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// BudgetItem línea del orçamento. UnitPrice se captura al agregar el producto.
type BudgetItem struct {
	ID          string
	BudgetID    string
	ProductID   string
	ProductCode string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// BudgetFilter filtros para listar orçamentos. From/To filtran por fecha de creación (ventana semiabierta).
type BudgetFilter struct {
	Status *BudgetStatus
	From   *time.Time
	To     *time.Time
}
