package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Kind      string `json:"kind" validate:"required,oneof=inbound outbound"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason" validate:"max=255"`
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Kind        string    `json:"kind"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
	// StockAfter saldo del producto tras el movimiento; solo al registrar.
	StockAfter *int `json:"stock_after,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
