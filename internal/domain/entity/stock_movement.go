package entity

import (
	"fmt"
	"time"
)

// MovementKind tipo de movimiento de estoque.
type MovementKind string

// Tipos de movimiento de estoque.
const (
	MovementInbound  MovementKind = "inbound"  // entrada
	MovementOutbound MovementKind = "outbound" // saída
)

// ParseMovementKind convierte el texto recibido en un MovementKind válido.
func ParseMovementKind(s string) (MovementKind, error) {
	switch MovementKind(s) {
	case MovementInbound, MovementOutbound:
		return MovementKind(s), nil
	}
	return "", fmt.Errorf("tipo de movimentação desconhecido: %q", s)
}

// StockMovement registro inmutable de un movimiento de estoque (append-only).
type StockMovement struct {
	ID          string
	ProductID   string
	ProductName string // solo lectura, viene del JOIN en listados
	Kind        MovementKind
	Quantity    int
	Reason      string
	CreatedAt   time.Time
}
