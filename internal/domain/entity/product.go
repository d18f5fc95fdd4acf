package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// StockQuantity solo cambia vía movimientos de estoque o conclusión de venta.
type Product struct {
	ID            string
	Code          string // código único global
	Name          string
	Description   string
	CategoryID    string
	PurchasePrice decimal.Decimal // precio de compra (costo)
	SalePrice     decimal.Decimal // precio de venta
	StockQuantity int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductFilter filtros opcionales para listar productos.
type ProductFilter struct {
	Name       string
	Code       string
	CategoryID string
	Active     *bool
}
