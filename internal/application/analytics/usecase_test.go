package analytics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/application/analytics"
	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/sales"
	"github.com/ampliart/ampliart-api/internal/infrastructure/cache"
	"github.com/ampliart/ampliart-api/internal/infrastructure/report"
	"github.com/ampliart/ampliart-api/internal/testutil"
)

var fixedNow = time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(y int, m time.Month, day, hour int) *time.Time {
	t := time.Date(y, m, day, hour, 0, 0, 0, time.UTC)
	return &t
}

type pdfStub struct{ calls int }

func (p *pdfStub) AnalysisPDF(context.Context, sales.Analysis, time.Time) ([]byte, error) {
	p.calls++
	return []byte("%PDF"), nil
}

func seed(t *testing.T) (*testutil.Store, *testutil.AnalyticsRepo) {
	t.Helper()
	s := testutil.NewStore()
	s.SeedCategory("cat", "Geral")
	s.SeedProduct(entity.Product{ID: "p-a", Code: "A", Name: "Adesivo", CategoryID: "cat",
		PurchasePrice: d("20"), SalePrice: d("50"), StockQuantity: 3, Active: true})
	s.SeedProduct(entity.Product{ID: "p-b", Code: "B", Name: "banner pequeno", CategoryID: "cat",
		PurchasePrice: d("2.5"), SalePrice: d("10"), StockQuantity: 0, Active: true})
	s.SeedProduct(entity.Product{ID: "p-c", Code: "C", Name: "Árvore", CategoryID: "cat",
		PurchasePrice: d("1"), SalePrice: d("1"), StockQuantity: 0, Active: true})
	s.SeedProduct(entity.Product{ID: "p-d", Code: "D", Name: "Faixa", CategoryID: "cat",
		PurchasePrice: d("1"), SalePrice: d("5"), StockQuantity: 50, Active: true})
	s.SeedProduct(entity.Product{ID: "p-e", Code: "E", Name: "Inativo", CategoryID: "cat",
		PurchasePrice: d("1"), SalePrice: d("5"), StockQuantity: 0, Active: false})

	s.SeedCompletedSale(entity.Budget{ID: "b1", FinalTotal: d("50"), CompletedAt: at(2024, 2, 10, 10),
		Items: []entity.BudgetItem{{ID: "i1", BudgetID: "b1", ProductID: "p-a", Quantity: 1, UnitPrice: d("50"), Subtotal: d("50")}}})
	s.SeedCompletedSale(entity.Budget{ID: "b2", FinalTotal: d("30"), CompletedAt: at(2024, 2, 14, 15),
		Items: []entity.BudgetItem{{ID: "i2", BudgetID: "b2", ProductID: "p-b", Quantity: 3, UnitPrice: d("10"), Subtotal: d("30")}}})
	s.SeedCompletedSale(entity.Budget{ID: "b3", FinalTotal: d("100"), CompletedAt: at(2024, 1, 20, 9),
		Items: []entity.BudgetItem{{ID: "i3", BudgetID: "b3", ProductID: "p-a", Quantity: 2, UnitPrice: d("50"), Subtotal: d("100")}}})
	return s, testutil.NewAnalyticsRepo(s)
}

func newUseCase(repo *testutil.AnalyticsRepo, c analytics.AnalysisCache, pdf analytics.PDFRenderer) *analytics.UseCase {
	opts := analytics.Options{
		CSV:      report.NewCSVRenderer(report.DefaultFormat()),
		PDF:      pdf,
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
		Cache:    c,
	}
	return analytics.NewUseCase(repo, repo, opts)
}

func TestAnalysis_MesPorDefecto(t *testing.T) {
	_, repo := seed(t)
	uc := newUseCase(repo, nil, nil)

	got, err := uc.Analysis(context.Background(), dto.SalesAnalysisRequest{Period: "qualquer"})
	require.NoError(t, err)

	assert.Equal(t, "month", got.Period.Kind)
	assert.Equal(t, "2024-02-01", got.Period.Start)
	assert.Equal(t, "2024-02-29", got.Period.End)
	assert.Equal(t, "80.00", got.Revenue.StringFixed(2))
	assert.Equal(t, "27.50", got.Cost.StringFixed(2))
	assert.Equal(t, "52.50", got.Profit.StringFixed(2))
	assert.Equal(t, 2, got.CompletedSales)
	assert.Equal(t, "40.00", got.AverageTicket.StringFixed(2))
	assert.Equal(t, "65.63", got.ProfitMargin.StringFixed(2))

	require.Len(t, got.Series, 29)
	assert.Equal(t, "10", got.Series[9].Label)
	assert.Equal(t, "50.00", got.Series[9].Revenue.StringFixed(2))
	assert.Equal(t, "30.00", got.Series[13].Revenue.StringFixed(2))

	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, "p-b", got.TopProducts[0].ProductID)
	assert.Equal(t, int64(3), got.TopProducts[0].Quantity)

	require.Len(t, got.BestMonths, 2)
	assert.Equal(t, "Jan/2024", got.BestMonths[0].Label)
	assert.Equal(t, "Fev/2024", got.BestMonths[1].Label)
}

func TestAnalysis_RangoPersonalizadoInvertido(t *testing.T) {
	_, repo := seed(t)
	uc := newUseCase(repo, nil, nil)

	got, err := uc.Analysis(context.Background(), dto.SalesAnalysisRequest{Start: "2024-02-14", End: "2024-02-10"})
	require.NoError(t, err)
	assert.Equal(t, "custom", got.Period.Kind)
	assert.Equal(t, "2024-02-10", got.Period.Start)
	require.Len(t, got.Series, 5)
	assert.Equal(t, "10/02", got.Series[0].Label)
	assert.Equal(t, "80.00", got.Revenue.StringFixed(2))
}

func TestAnalysis_FechaInvalida(t *testing.T) {
	_, repo := seed(t)
	uc := newUseCase(repo, nil, nil)
	_, err := uc.Analysis(context.Background(), dto.SalesAnalysisRequest{Reference: "15/02/2024"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalysis_CacheRedisHastaBump(t *testing.T) {
	_, repo := seed(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.New(client, time.Minute)
	uc := newUseCase(repo, c, nil)
	ctx := context.Background()

	first, err := uc.Analysis(ctx, dto.SalesAnalysisRequest{Period: "month"})
	require.NoError(t, err)
	second, err := uc.Analysis(ctx, dto.SalesAnalysisRequest{Period: "month"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.SalesCalls)
	assert.True(t, first.Revenue.Equal(second.Revenue))
	assert.Equal(t, first.Period, second.Period)
	require.Len(t, second.Series, 29)
	assert.Equal(t, "Fev/2024", second.BestMonths[1].Label)

	require.NoError(t, c.Bump(ctx))
	_, err = uc.Analysis(ctx, dto.SalesAnalysisRequest{Period: "month"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.SalesCalls)
}

type cacheRecorder struct{ results []string }

func (r *cacheRecorder) CacheLookup(result string) { r.results = append(r.results, result) }

func TestAnalysis_MetricasDeCache(t *testing.T) {
	_, repo := seed(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	rec := &cacheRecorder{}
	uc := analytics.NewUseCase(repo, repo, analytics.Options{
		Cache:    cache.New(client, time.Minute),
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
		Metrics:  rec,
	})
	ctx := context.Background()

	_, err := uc.Analysis(ctx, dto.SalesAnalysisRequest{})
	require.NoError(t, err)
	_, err = uc.Analysis(ctx, dto.SalesAnalysisRequest{})
	require.NoError(t, err)

	// Redis caído: responde igual desde el banco.
	mr.Close()
	got, err := uc.Analysis(ctx, dto.SalesAnalysisRequest{})
	require.NoError(t, err)
	assert.Equal(t, "80.00", got.Revenue.StringFixed(2))
	assert.Equal(t, []string{"miss", "hit", "error"}, rec.results)
}

func TestExportCSV(t *testing.T) {
	_, repo := seed(t)
	uc := newUseCase(repo, nil, nil)

	data, name, err := uc.ExportCSV(context.Background(), dto.SalesAnalysisRequest{})
	require.NoError(t, err)
	assert.Equal(t, "analise-vendas-2024-02-15.csv", name)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "\uFEFF"))
	assert.Contains(t, out, "Receita total;R$ 80,00\n")
	assert.Contains(t, out, "banner pequeno;3;R$ 30,00\n")
	assert.Contains(t, out, "Jan/2024;R$ 100,00\n")
}

func TestExportPDF(t *testing.T) {
	_, repo := seed(t)
	stub := &pdfStub{}
	uc := newUseCase(repo, nil, stub)

	data, name, err := uc.ExportPDF(context.Background(), dto.SalesAnalysisRequest{Period: "year"})
	require.NoError(t, err)
	assert.Equal(t, "analise-vendas-2024-02-15.pdf", name)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Equal(t, 1, stub.calls)
}

func TestSummary(t *testing.T) {
	_, repo := seed(t)
	uc := newUseCase(repo, nil, nil)

	got, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mês", got.Month.Label)
	assert.Equal(t, "80.00", got.Month.Revenue.StringFixed(2))
	assert.Equal(t, 2, got.Month.Sales)
	assert.Equal(t, "400.00", got.StockValue.StringFixed(2))
	assert.Equal(t, 3, got.LowStockCount)
	assert.Equal(t, 10, got.LowStockLimit)
	assert.Equal(t, 5, got.TotalProducts)
	assert.Equal(t, 4, got.ActiveProducts)
	assert.Zero(t, got.OpenBudgets)
}

func TestLowStock_OrdenPorEstoqueYNombre(t *testing.T) {
	_, repo := seed(t)
	uc := newUseCase(repo, nil, nil)

	got, err := uc.LowStock(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Limit)
	require.Equal(t, 3, got.Count)
	names := []string{got.Items[0].Name, got.Items[1].Name, got.Items[2].Name}
	assert.Equal(t, []string{"Árvore", "banner pequeno", "Adesivo"}, names)

	got, err = uc.LowStock(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Count)
}

func TestIndicators(t *testing.T) {
	_, repo := seed(t)
	uc := newUseCase(repo, nil, nil)

	got, err := uc.Indicators(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got.Periods, 4)
	labels := make([]string, 0, 4)
	revenue := make([]string, 0, 4)
	for _, p := range got.Periods {
		labels = append(labels, p.Label)
		revenue = append(revenue, p.Revenue.StringFixed(2))
	}
	assert.Equal(t, []string{"Hoje", "Semana", "Mês", "Ano"}, labels)
	assert.Equal(t, []string{"0.00", "30.00", "80.00", "180.00"}, revenue)

	require.Len(t, got.Daily, 7)
	assert.Equal(t, "09/02", got.Daily[0].Label)
	assert.Equal(t, "15/02", got.Daily[6].Label)
	assert.Equal(t, "50.00", got.Daily[1].Revenue.StringFixed(2))
	assert.Equal(t, 1, got.Daily[1].Sales)
	assert.Equal(t, "7.50", got.Daily[5].Cost.StringFixed(2))
}
