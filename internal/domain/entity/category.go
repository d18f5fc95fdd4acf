package entity

import (
	"strings"
	"time"
)

// DefaultCategoryName categoría creada por defecto; no se puede asignar a productos.
const DefaultCategoryName = "Sem categoria"

// Category representa una categoría de productos.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// IsDefault indica si es la categoría por defecto (comparación sin mayúsculas ni espacios).
func (c *Category) IsDefault() bool {
	if c == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(c.Name), DefaultCategoryName)
}
