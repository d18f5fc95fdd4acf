package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/application/budget"
	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/testutil"
)

type cacheSpy struct{ bumps int }

func (c *cacheSpy) Bump(context.Context) error {
	c.bumps++
	return nil
}

type fixture struct {
	store *testutil.Store
	cache *cacheSpy
	uc    *budget.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewStore()
	s.SeedCategory("cat-1", "Banners")
	s.SeedProduct(entity.Product{
		ID: "p-a", Code: "A01", Name: "Banner lona", CategoryID: "cat-1",
		PurchasePrice: decimal.RequireFromString("20"), SalePrice: decimal.RequireFromString("50"),
		StockQuantity: 5, Active: true,
	})
	s.SeedProduct(entity.Product{
		ID: "p-b", Code: "B01", Name: "Adesivo", CategoryID: "cat-1",
		PurchasePrice: decimal.RequireFromString("2.5"), SalePrice: decimal.RequireFromString("10"),
		StockQuantity: 1, Active: true,
	})
	cache := &cacheSpy{}
	uc := budget.NewUseCase(testutil.NewTxRunner(s), testutil.NewBudgetRepo(s), cache, time.UTC, nil)
	return &fixture{store: s, cache: cache, uc: uc}
}

func (f *fixture) newBudget(t *testing.T) *dto.BudgetResponse {
	t.Helper()
	b, err := f.uc.Create(context.Background(), dto.CreateBudgetRequest{ClientName: "Maria", ClientPhone: "11999990000"})
	require.NoError(t, err)
	return b
}

func qty(n int) *int { return &n }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreate_Rascunho(t *testing.T) {
	f := newFixture(t)
	email := "  "
	b, err := f.uc.Create(context.Background(), dto.CreateBudgetRequest{ClientName: " Maria ", ClientPhone: "1199", ClientEmail: &email})
	require.NoError(t, err)
	assert.Equal(t, "Maria", b.ClientName)
	assert.Nil(t, b.ClientEmail)
	assert.Equal(t, "draft", b.Status)
	assert.Equal(t, "Rascunho", b.StatusLabel)
	assert.True(t, b.FinalTotal.IsZero())
}

func TestCreate_SinNombre(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), dto.CreateBudgetRequest{ClientName: " ", ClientPhone: "1199"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddItem_PorCodigoIncrementaCantidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.newBudget(t)

	_, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "A01", Quantity: qty(2)})
	require.NoError(t, err)
	got, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{ProductID: "p-a"})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, "150.00", got.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "150.00", got.GrossTotal.StringFixed(2))

	stored, err := f.uc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Quantity)
	assert.Equal(t, "150.00", stored.FinalTotal.StringFixed(2))
}

func TestAddItem_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	b := f.newBudget(t)
	_, err := f.uc.AddItem(context.Background(), b.ID, dto.AddBudgetItemRequest{Code: "ZZZ"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Produto não encontrado", domain.Message(err))
}

func TestAddItem_OrcamentoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.AddItem(context.Background(), "nope", dto.AddBudgetItemRequest{Code: "A01"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Orçamento não encontrado", domain.Message(err))
}

func TestUpdateItem_PrecioYCantidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.newBudget(t)
	withItem, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "A01"})
	require.NoError(t, err)
	itemID := withItem.Items[0].ID

	got, err := f.uc.UpdateItem(ctx, b.ID, itemID, dto.UpdateBudgetItemRequest{Quantity: qty(4), UnitPrice: dec("45.5")})
	require.NoError(t, err)
	assert.Equal(t, "182.00", got.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "182.00", got.FinalTotal.StringFixed(2))

	_, err = f.uc.UpdateItem(ctx, b.ID, "otro", dto.UpdateBudgetItemRequest{Quantity: qty(1)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Item não pertence ao orçamento", domain.Message(err))
}

func TestRemoveItem_RecalculaTotales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.newBudget(t)
	_, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "A01"})
	require.NoError(t, err)
	withTwo, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "B01"})
	require.NoError(t, err)
	require.Len(t, withTwo.Items, 2)

	got, err := f.uc.RemoveItem(ctx, b.ID, withTwo.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "10.00", got.FinalTotal.StringFixed(2))

	stored, err := f.uc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestApplyAdjustment_DescontoYLimpieza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.newBudget(t)
	_, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "A01", Quantity: qty(4)})
	require.NoError(t, err)

	got, err := f.uc.ApplyAdjustment(ctx, b.ID, dto.AdjustmentRequest{Kind: "discount", Percentage: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, "200.00", got.GrossTotal.StringFixed(2))
	assert.Equal(t, "-20.00", got.AdjustmentAmount.StringFixed(2))
	assert.Equal(t, "180.00", got.FinalTotal.StringFixed(2))

	got, err = f.uc.ApplyAdjustment(ctx, b.ID, dto.AdjustmentRequest{Kind: "discount", Percentage: dec("0")})
	require.NoError(t, err)
	assert.Empty(t, got.AdjustmentKind)
	assert.Nil(t, got.AdjustmentPercentage)
	assert.Equal(t, "200.00", got.FinalTotal.StringFixed(2))

	_, err = f.uc.ApplyAdjustment(ctx, b.ID, dto.AdjustmentRequest{Kind: "surcharge", Percentage: dec("15")})
	require.NoError(t, err)
	got, err = f.uc.ClearAdjustment(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.AdjustmentAmount.IsZero())
}

func TestApplyAdjustment_TipoDesconocido(t *testing.T) {
	f := newFixture(t)
	b := f.newBudget(t)
	_, err := f.uc.ApplyAdjustment(context.Background(), b.ID, dto.AdjustmentRequest{Kind: "bonus", Percentage: dec("5")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeStatus_ConcluirDescuentaEstoqueUnaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.newBudget(t)
	_, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "A01", Quantity: qty(2)})
	require.NoError(t, err)
	_, err = f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "B01"})
	require.NoError(t, err)

	done, err := f.uc.ChangeStatus(ctx, b.ID, dto.BudgetStatusRequest{Status: "sale_completed"})
	require.NoError(t, err)
	assert.Equal(t, "sale_completed", done.Status)
	require.NotNil(t, done.CompletedAt)

	assert.Equal(t, 3, f.store.Product("p-a").StockQuantity)
	assert.Equal(t, 0, f.store.Product("p-b").StockQuantity)
	movs := f.store.Movements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementOutbound, m.Kind)
		assert.Equal(t, "Baixa por venda do orcamento "+b.ID, m.Reason)
	}
	assert.Equal(t, 1, f.cache.bumps)

	again, err := f.uc.ChangeStatus(ctx, b.ID, dto.BudgetStatusRequest{Status: "sale_completed"})
	require.NoError(t, err)
	assert.Equal(t, done.CompletedAt.UnixNano(), again.CompletedAt.UnixNano())
	assert.Len(t, f.store.Movements(), 2)
	assert.Equal(t, 3, f.store.Product("p-a").StockQuantity)
	assert.Equal(t, 1, f.cache.bumps)
}

func TestChangeStatus_EstoqueInsuficienteNoMuta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.newBudget(t)
	_, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "A01", Quantity: qty(2)})
	require.NoError(t, err)
	_, err = f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "B01", Quantity: qty(3)})
	require.NoError(t, err)

	_, err = f.uc.ChangeStatus(ctx, b.ID, dto.BudgetStatusRequest{Status: "sale_completed"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "Estoque insuficiente para o produto Adesivo", domain.Message(err))

	assert.Equal(t, 5, f.store.Product("p-a").StockQuantity)
	assert.Equal(t, 1, f.store.Product("p-b").StockQuantity)
	assert.Empty(t, f.store.Movements())
	assert.Zero(t, f.cache.bumps)

	stored, err := f.uc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestChangeStatus_TerminalEsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.newBudget(t)

	_, err := f.uc.ChangeStatus(ctx, b.ID, dto.BudgetStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	got, err := f.uc.ChangeStatus(ctx, b.ID, dto.BudgetStatusRequest{Status: "sent"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	_, err = f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "A01"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Orçamento finalizado não pode ser alterado", domain.Message(err))
}

func TestChangeStatus_StatusInvalido(t *testing.T) {
	f := newFixture(t)
	b := f.newBudget(t)
	_, err := f.uc.ChangeStatus(context.Background(), b.ID, dto.BudgetStatusRequest{Status: "aprovado"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Status inválido", domain.Message(err))
}

func TestList_FiltraPorStatusYFechas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.newBudget(t)
	f.newBudget(t)
	_, err := f.uc.ChangeStatus(ctx, a.ID, dto.BudgetStatusRequest{Status: "sent"})
	require.NoError(t, err)

	out, err := f.uc.List(ctx, dto.BudgetListRequest{Status: "sent"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, a.ID, out.Items[0].ID)

	today := time.Now().UTC().Format("2006-01-02")
	out, err = f.uc.List(ctx, dto.BudgetListRequest{From: today, To: today})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)

	out, err = f.uc.List(ctx, dto.BudgetListRequest{To: "2000-01-01"})
	require.NoError(t, err)
	assert.Zero(t, out.Total)

	_, err = f.uc.List(ctx, dto.BudgetListRequest{From: "01/02/2024"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
