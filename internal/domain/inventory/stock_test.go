package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/inventory"
)

func TestValidateMovement(t *testing.T) {
	_, err := inventory.ValidateMovement(inventory.MovementRequest{Kind: entity.MovementInbound, Quantity: 0, Reason: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Quantidade inválida", domain.Message(err))

	_, err = inventory.ValidateMovement(inventory.MovementRequest{Kind: entity.MovementInbound, Quantity: 1, Reason: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Motivo obrigatório", domain.Message(err))

	reason, err := inventory.ValidateMovement(inventory.MovementRequest{Kind: entity.MovementOutbound, Quantity: 3, Reason: " Quebra "})
	require.NoError(t, err)
	assert.Equal(t, "Quebra", reason)
}

func TestApply_EntradaYSaida(t *testing.T) {
	n, err := inventory.Apply(5, entity.MovementInbound, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = inventory.Apply(5, entity.MovementOutbound, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestApply_SaidaMayorQueSaldo(t *testing.T) {
	n, err := inventory.Apply(2, entity.MovementOutbound, 3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, n, "el saldo no cambia")
}

func TestPlanSaleCompletion_TodoONada(t *testing.T) {
	products := map[string]*entity.Product{
		"a": {ID: "a", Name: "Caneca", StockQuantity: 5},
		"b": {ID: "b", Name: "Chaveiro", StockQuantity: 1},
	}
	items := []entity.BudgetItem{
		{ProductID: "b", Quantity: 2},
		{ProductID: "a", Quantity: 1},
	}

	plan, err := inventory.PlanSaleCompletion(items, products)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "Estoque insuficiente para o produto Chaveiro", domain.Message(err))
	assert.Nil(t, plan)
	assert.Equal(t, 5, products["a"].StockQuantity)
	assert.Equal(t, 1, products["b"].StockQuantity)
}

func TestPlanSaleCompletion_MismoProductoEnVariosItems(t *testing.T) {
	products := map[string]*entity.Product{"a": {ID: "a", Name: "Caneca", StockQuantity: 3}}
	items := []entity.BudgetItem{{ProductID: "a", Quantity: 2}, {ProductID: "a", Quantity: 2}}

	_, err := inventory.PlanSaleCompletion(items, products)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	products["a"].StockQuantity = 4
	plan, err := inventory.PlanSaleCompletion(items, products)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, 0, plan[1].Balance)
}

func TestPlanSaleCompletion_OrdenPorProducto(t *testing.T) {
	products := map[string]*entity.Product{
		"a": {ID: "a", StockQuantity: 10},
		"z": {ID: "z", StockQuantity: 10},
	}
	plan, err := inventory.PlanSaleCompletion([]entity.BudgetItem{{ProductID: "z", Quantity: 1}, {ProductID: "a", Quantity: 4}}, products)
	require.NoError(t, err)
	assert.Equal(t, "a", plan[0].Product.ID)
	assert.Equal(t, 6, plan[0].Balance)
	assert.Equal(t, "z", plan[1].Product.ID)
}

func TestProductIDs_DistintosYOrdenados(t *testing.T) {
	ids := inventory.ProductIDs([]entity.BudgetItem{{ProductID: "c"}, {ProductID: "a"}, {ProductID: "c"}})
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestSaleReason(t *testing.T) {
	assert.Equal(t, "Baixa por venda do orcamento 42", inventory.SaleReason("42"))
}
