package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/period"
	"github.com/ampliart/ampliart-api/internal/domain/sales"
)

const isoDate = "2006-01-02"

// Analysis análisis de ventas del período pedido.
func (uc *UseCase) Analysis(ctx context.Context, in dto.SalesAnalysisRequest) (*dto.SalesAnalysisDTO, error) {
	a, err := uc.analyze(ctx, in)
	if err != nil {
		return nil, err
	}
	return ToSalesAnalysisDTO(a), nil
}

// ExportCSV análisis en CSV; filename analise-vendas-YYYY-MM-DD.csv.
func (uc *UseCase) ExportCSV(ctx context.Context, in dto.SalesAnalysisRequest) ([]byte, string, error) {
	a, err := uc.analyze(ctx, in)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.csv.AnalysisCSV(a)
	if err != nil {
		return nil, "", fmt.Errorf("analytics: csv: %w", err)
	}
	return data, exportFilename(uc.today(), "csv"), nil
}

// ExportPDF análisis en PDF; filename analise-vendas-YYYY-MM-DD.pdf.
func (uc *UseCase) ExportPDF(ctx context.Context, in dto.SalesAnalysisRequest) ([]byte, string, error) {
	a, err := uc.analyze(ctx, in)
	if err != nil {
		return nil, "", err
	}
	now := uc.today()
	data, err := uc.pdf.AnalysisPDF(ctx, a, now)
	if err != nil {
		return nil, "", fmt.Errorf("analytics: pdf: %w", err)
	}
	return data, exportFilename(now, "pdf"), nil
}

func exportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("analise-vendas-%s.%s", now.Format(isoDate), ext)
}

// analyze resuelve el período y obtiene el análisis del caché; pedidos iguales y
// simultáneos comparten una sola carga.
func (uc *UseCase) analyze(ctx context.Context, in dto.SalesAnalysisRequest) (sales.Analysis, error) {
	req, err := uc.periodRequest(in)
	if err != nil {
		return sales.Analysis{}, err
	}
	r := period.Resolve(req, uc.today())

	key := strings.Join([]string{"sales", string(r.Kind), r.StartDate.Format(isoDate), r.EndDate.Format(isoDate)}, ":")
	if uc.cache != nil {
		if k, err := uc.cache.BuildKey(ctx, "ampliart", key); err == nil {
			key = k
		} else {
			uc.log.Warn().Err(err).Msg("versão do cache indisponível")
		}
	}

	ch := uc.flight.DoChan(key, func() (any, error) {
		return uc.fetch(ctx, key, r)
	})
	select {
	case <-ctx.Done():
		return sales.Analysis{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return sales.Analysis{}, res.Err
		}
		return res.Val.(sales.Analysis), nil
	}
}

func (uc *UseCase) fetch(ctx context.Context, key string, r period.Range) (sales.Analysis, error) {
	if uc.cache == nil {
		return uc.load(ctx, r)
	}
	var (
		a       sales.Analysis
		fresh   sales.Analysis
		loaded  bool
		loadErr error
	)
	err := uc.cache.FetchJSON(ctx, key, &a, func(ctx context.Context) (any, error) {
		loaded = true
		fresh, loadErr = uc.load(ctx, r)
		return fresh, loadErr
	})
	switch {
	case loadErr != nil:
		return sales.Analysis{}, loadErr
	case err == nil && loaded:
		uc.recordCache(cacheMiss)
		return a, nil
	case err == nil:
		uc.recordCache(cacheHit)
		return a, nil
	}
	uc.recordCache(cacheError)
	// Redis caído no debe tumbar el dashboard.
	uc.log.Warn().Err(err).Str("key", key).Msg("cache de análise falhou, consultando o banco")
	if loaded {
		return fresh, nil
	}
	return uc.load(ctx, r)
}

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

func (uc *UseCase) recordCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookup(result)
	}
}

// load consulta ventas, líneas e histórico en paralelo y agrega.
func (uc *UseCase) load(ctx context.Context, r period.Range) (sales.Analysis, error) {
	var (
		list    []sales.Sale
		lines   []sales.Line
		history []sales.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = uc.salesRepo.CompletedSales(gctx, r.From, r.To)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = uc.salesRepo.CompletedLines(gctx, r.From, r.To)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = uc.salesRepo.CompletedHistory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return sales.Analysis{}, fmt.Errorf("analytics: consultar vendas: %w", err)
	}
	return sales.Analyze(r, list, lines, history), nil
}

// periodRequest interpreta las fechas YYYY-MM-DD del query string en la zona de trabajo.
func (uc *UseCase) periodRequest(in dto.SalesAnalysisRequest) (period.Request, error) {
	req := period.Request{Kind: in.Period}
	var err error
	if req.Reference, err = uc.parseDate(in.Reference); err != nil {
		return req, err
	}
	if req.Start, err = uc.parseDate(in.Start); err != nil {
		return req, err
	}
	if req.End, err = uc.parseDate(in.End); err != nil {
		return req, err
	}
	return req, nil
}

func (uc *UseCase) parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(isoDate, s, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: Data inválida: %s", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

// ToSalesAnalysisDTO mapea el análisis a la respuesta HTTP.
func ToSalesAnalysisDTO(a sales.Analysis) *dto.SalesAnalysisDTO {
	out := &dto.SalesAnalysisDTO{
		Period: dto.PeriodDTO{
			Kind:      string(a.Period.Kind),
			Reference: a.Period.Reference.Format(isoDate),
			Start:     a.Period.StartDate.Format(isoDate),
			End:       a.Period.EndDate.Format(isoDate),
		},
		Revenue:        a.Revenue,
		Cost:           a.Cost,
		Profit:         a.Profit,
		CompletedSales: a.CompletedSales,
		AverageTicket:  a.AverageTicket,
		ProfitMargin:   a.ProfitMargin,
		Series:         make([]dto.SeriesPointDTO, 0, len(a.Series.Labels)),
		TopProducts:    make([]dto.TopProductDTO, 0, len(a.TopProducts)),
		BestMonths:     make([]dto.BestMonthDTO, 0, len(a.BestMonths)),
	}
	for i, label := range a.Series.Labels {
		out.Series = append(out.Series, dto.SeriesPointDTO{
			Label:   label,
			Revenue: a.Series.Revenue[i],
			Cost:    a.Series.Cost[i],
			Profit:  a.Series.Profit[i],
		})
	}
	for _, p := range a.TopProducts {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID: p.ProductID, Name: p.Name, Quantity: p.Quantity, Revenue: p.Revenue,
		})
	}
	for _, m := range a.BestMonths {
		out.BestMonths = append(out.BestMonths, dto.BestMonthDTO{Label: m.Label, Revenue: m.Revenue})
	}
	return out
}
