package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/domain/entity"
)

func TestProductListQuery_SinFiltros(t *testing.T) {
	query, args, err := productListQuery(entity.ProductFilter{}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY name")
	assert.Empty(t, args)
}

func TestProductListQuery_FiltrosCombinados(t *testing.T) {
	active := true
	query, args, err := productListQuery(entity.ProductFilter{
		Name:       "lona",
		CategoryID: "cat-1",
		Active:     &active,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE name ILIKE $1 AND category_id = $2 AND active = $3")
	assert.Equal(t, []any{"%lona%", "cat-1", true}, args)
}

func TestBudgetListQuery_VentanaYEstado(t *testing.T) {
	status := entity.BudgetSaleCompleted
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query, args, err := budgetListQuery(entity.BudgetFilter{Status: &status, From: &from, To: &to}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE status = $1 AND created_at >= $2 AND created_at < $3")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.Equal(t, []any{"sale_completed", from, to}, args)
}
