// Package analytics contiene los casos de uso del dashboard: resumen, indicadores,
// estoque bajo y el análisis de ventas con su exportación.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain/period"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
	"github.com/ampliart/ampliart-api/internal/domain/sales"
	"github.com/ampliart/ampliart-api/pkg/logger"
)

const (
	defaultLowStockLimit = 10
	defaultIndicatorDays = 7
	maxIndicatorDays     = 90
)

// Options dependencias opcionales del caso de uso.
type Options struct {
	Cache         AnalysisCache // nil = sin caché
	CSV           CSVRenderer
	PDF           PDFRenderer
	Location      *time.Location
	LowStockLimit int
	Now           func() time.Time
	Logger        *logger.Logger
	Metrics       CacheRecorder // nil = sin métricas
}

// UseCase casos de uso del dashboard.
//
// Fuente de datos: SalesRepository y DashboardRepository (consultas read-only).
type UseCase struct {
	salesRepo repository.SalesRepository
	dashRepo  repository.DashboardRepository
	cache     AnalysisCache
	csv       CSVRenderer
	pdf       PDFRenderer
	loc       *time.Location
	lowStock  int
	now       func() time.Time
	log       *logger.Logger
	metrics   CacheRecorder
	flight    singleflight.Group
}

// NewUseCase construye el caso de uso.
func NewUseCase(salesRepo repository.SalesRepository, dashRepo repository.DashboardRepository, opts Options) *UseCase {
	uc := &UseCase{
		salesRepo: salesRepo,
		dashRepo:  dashRepo,
		cache:     opts.Cache,
		csv:       opts.CSV,
		pdf:       opts.PDF,
		loc:       opts.Location,
		lowStock:  opts.LowStockLimit,
		now:       opts.Now,
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
	if uc.loc == nil {
		uc.loc = time.Local
	}
	if uc.lowStock <= 0 {
		uc.lowStock = defaultLowStockLimit
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	uc.log = uc.log.Component("analytics")
	return uc
}

func (uc *UseCase) today() time.Time {
	return uc.now().In(uc.loc)
}

// Summary resumen del dashboard. Las tres consultas corren en paralelo:
//  1. ventas del mes en curso  → Month
//  2. CatalogStats             → valor de estoque, productos, orçamentos abiertos
//  3. LowStock(límite)         → LowStockCount
func (uc *UseCase) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	month := period.Resolve(period.Request{Kind: string(period.Month)}, uc.today())

	var (
		monthInd dto.IndicatorDTO
		stats    repository.CatalogStats
		low      []repository.LowStockRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ind, err := uc.indicator(gctx, "Mês", month.From, month.To)
		if err != nil {
			return fmt.Errorf("dashboard: ventas del mes: %w", err)
		}
		monthInd = ind
		return nil
	})
	g.Go(func() error {
		s, err := uc.dashRepo.CatalogStats(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: catálogo: %w", err)
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		rows, err := uc.dashRepo.LowStock(gctx, uc.lowStock)
		if err != nil {
			return fmt.Errorf("dashboard: estoque baixo: %w", err)
		}
		low = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryDTO{
		Month:          monthInd,
		StockValue:     stats.StockValue,
		LowStockCount:  len(low),
		LowStockLimit:  uc.lowStock,
		TotalProducts:  stats.TotalProducts,
		ActiveProducts: stats.ActiveProducts,
		OpenBudgets:    stats.OpenBudgets,
	}, nil
}

// LowStock productos activos con estoque <= limit, ordenados por estoque y nombre.
// limit <= 0 usa el límite configurado.
func (uc *UseCase) LowStock(ctx context.Context, limit int) (*dto.LowStockResponse, error) {
	if limit <= 0 {
		limit = uc.lowStock
	}
	rows, err := uc.dashRepo.LowStock(ctx, limit)
	if err != nil {
		return nil, err
	}

	// El collator no es seguro para uso concurrente: uno por llamada.
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StockQuantity != rows[j].StockQuantity {
			return rows[i].StockQuantity < rows[j].StockQuantity
		}
		return col.CompareString(rows[i].Name, rows[j].Name) < 0
	})

	items := make([]dto.LowStockItemDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.LowStockItemDTO{
			ProductID:     r.ProductID,
			Code:          r.Code,
			Name:          r.Name,
			StockQuantity: r.StockQuantity,
		})
	}
	return &dto.LowStockResponse{Limit: limit, Count: len(items), Items: items}, nil
}

// Indicators receita, gasto y lucro de hoy, la semana, el mes y el año en curso,
// más los últimos days días (por defecto 7) del más antiguo a hoy.
func (uc *UseCase) Indicators(ctx context.Context, days int) (*dto.IndicatorsResponse, error) {
	if days <= 0 {
		days = defaultIndicatorDays
	}
	if days > maxIndicatorDays {
		days = maxIndicatorDays
	}
	today := uc.today()

	fixed := []struct {
		label string
		kind  period.Kind
	}{
		{"Hoje", period.Day},
		{"Semana", period.Week},
		{"Mês", period.Month},
		{"Ano", period.Year},
	}
	periods := make([]dto.IndicatorDTO, len(fixed))
	var daily []dto.IndicatorDTO

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fixed {
		i, f := i, f
		g.Go(func() error {
			r := period.Resolve(period.Request{Kind: string(f.kind)}, today)
			ind, err := uc.indicator(gctx, f.label, r.From, r.To)
			if err != nil {
				return fmt.Errorf("dashboard: indicador %s: %w", f.label, err)
			}
			periods[i] = ind
			return nil
		})
	}
	g.Go(func() error {
		start := today.AddDate(0, 0, -(days - 1))
		r := period.Resolve(period.Request{Start: &start, End: &today}, today)
		list, err := uc.dailySeries(gctx, r)
		if err != nil {
			return fmt.Errorf("dashboard: últimos %d dias: %w", days, err)
		}
		daily = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.IndicatorsResponse{Periods: periods, Daily: daily}, nil
}

// indicator totales de las ventas concluidas en [from, to).
func (uc *UseCase) indicator(ctx context.Context, label string, from, to time.Time) (dto.IndicatorDTO, error) {
	list, lines, err := uc.window(ctx, from, to)
	if err != nil {
		return dto.IndicatorDTO{}, err
	}
	t := sales.Summarize(list, lines)
	return dto.IndicatorDTO{Label: label, Revenue: t.Revenue, Cost: t.Cost, Profit: t.Profit, Sales: len(list)}, nil
}

// dailySeries un indicador por día del rango personalizado.
func (uc *UseCase) dailySeries(ctx context.Context, r period.Range) ([]dto.IndicatorDTO, error) {
	list, lines, err := uc.window(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}
	series := sales.BuildSeries(r, list, lines)
	counts := make([]int, len(r.Labels))
	for _, s := range list {
		if s.CompletedAt == nil {
			continue
		}
		if idx := r.BucketIndex(*s.CompletedAt); idx >= 0 {
			counts[idx]++
		}
	}
	out := make([]dto.IndicatorDTO, len(series.Labels))
	for i, label := range series.Labels {
		out[i] = dto.IndicatorDTO{
			Label:   label,
			Revenue: series.Revenue[i],
			Cost:    series.Cost[i],
			Profit:  series.Profit[i],
			Sales:   counts[i],
		}
	}
	return out, nil
}

// window ventas y líneas de [from, to).
func (uc *UseCase) window(ctx context.Context, from, to time.Time) ([]sales.Sale, []sales.Line, error) {
	list, err := uc.salesRepo.CompletedSales(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	lines, err := uc.salesRepo.CompletedLines(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	return list, lines, nil
}
