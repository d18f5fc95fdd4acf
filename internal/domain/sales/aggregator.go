// Package sales agrega ventas concluidas en indicadores, series por bucket y rankings.
//
// Funciones puras: reciben colecciones ya consultadas y no hacen I/O.
package sales

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ampliart/ampliart-api/internal/domain/money"
	"github.com/ampliart/ampliart-api/internal/domain/period"
)

// Límites de los rankings.
const (
	TopProductsLimit = 10
	BestMonthsLimit  = 8
)

// Sale orçamento concluido (venta).
type Sale struct {
	BudgetID    string
	FinalTotal  decimal.Decimal
	CompletedAt *time.Time
}

// Line ítem vendido, con el precio de compra actual del producto (nil si se desconoce).
type Line struct {
	BudgetID      string
	ProductID     string
	ProductName   string
	Quantity      int
	Subtotal      decimal.Decimal
	PurchasePrice *decimal.Decimal
	CompletedAt   *time.Time
}

// Cost costo de la línea; ok=false si no hay precio de compra.
func (l Line) Cost() (decimal.Decimal, bool) {
	if l.PurchasePrice == nil {
		return decimal.Zero, false
	}
	return l.PurchasePrice.Mul(decimal.NewFromInt(int64(l.Quantity))), true
}

// Totals receita, gasto y lucro de un conjunto de ventas.
type Totals struct {
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Profit  decimal.Decimal
}

// Series valores por etiqueta, alineados por índice con Labels.
type Series struct {
	Labels  []string
	Revenue []decimal.Decimal
	Cost    []decimal.Decimal
	Profit  []decimal.Decimal
}

// TopProduct producto más vendido en el período.
type TopProduct struct {
	ProductID string
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}

// MonthRevenue receita de un mes de calendario (histórico completo).
type MonthRevenue struct {
	Year    int
	Month   time.Month
	Label   string
	Revenue decimal.Decimal
}

// Analysis resultado del análisis de ventas de un período.
type Analysis struct {
	Period         period.Range
	Revenue        decimal.Decimal
	Cost           decimal.Decimal
	Profit         decimal.Decimal
	CompletedSales int
	AverageTicket  decimal.Decimal
	ProfitMargin   decimal.Decimal
	Series         Series
	TopProducts    []TopProduct
	BestMonths     []MonthRevenue
}

// Analyze construye el análisis. sales y lines deben ser las ventas concluidas dentro de
// la ventana del período; history es el histórico completo de ventas concluidas.
func Analyze(r period.Range, sales []Sale, lines []Line, history []Sale) Analysis {
	totals := Summarize(sales, lines)
	return Analysis{
		Period:         r,
		Revenue:        totals.Revenue,
		Cost:           totals.Cost,
		Profit:         totals.Profit,
		CompletedSales: len(sales),
		AverageTicket:  money.Average(totals.Revenue, len(sales)),
		ProfitMargin:   money.Ratio(totals.Profit, totals.Revenue, money.Scale),
		Series:         BuildSeries(r, sales, lines),
		TopProducts:    RankProducts(lines, TopProductsLimit),
		BestMonths:     RankMonths(history, r.From.Location(), BestMonthsLimit),
	}
}

// Summarize calcula receita (suma de totales finales), gasto (precio de compra × cantidad
// de las líneas con precio conocido) y lucro.
func Summarize(sales []Sale, lines []Line) Totals {
	revenue := decimal.Zero
	for _, s := range sales {
		revenue = revenue.Add(s.FinalTotal)
	}
	cost := decimal.Zero
	for _, l := range lines {
		if c, ok := l.Cost(); ok {
			cost = cost.Add(c)
		}
	}
	revenue = money.Round(revenue)
	cost = money.Round(cost)
	return Totals{Revenue: revenue, Cost: cost, Profit: money.Round(revenue.Sub(cost))}
}

// BuildSeries acumula receita y gasto por bucket del período. Ventas sin fecha de conclusión
// o fuera de las etiquetas se ignoran.
func BuildSeries(r period.Range, sales []Sale, lines []Line) Series {
	n := len(r.Labels)
	revenue := make([]decimal.Decimal, n)
	cost := make([]decimal.Decimal, n)

	for _, s := range sales {
		idx := bucketOf(r, s.CompletedAt)
		if idx < 0 {
			continue
		}
		revenue[idx] = revenue[idx].Add(s.FinalTotal)
	}
	for _, l := range lines {
		c, ok := l.Cost()
		if !ok {
			continue
		}
		idx := bucketOf(r, l.CompletedAt)
		if idx < 0 {
			continue
		}
		cost[idx] = cost[idx].Add(c)
	}

	out := Series{
		Labels:  append([]string(nil), r.Labels...),
		Revenue: make([]decimal.Decimal, n),
		Cost:    make([]decimal.Decimal, n),
		Profit:  make([]decimal.Decimal, n),
	}
	for i := 0; i < n; i++ {
		out.Revenue[i] = money.Round(revenue[i])
		out.Cost[i] = money.Round(cost[i])
		out.Profit[i] = money.Round(out.Revenue[i].Sub(out.Cost[i]))
	}
	return out
}

func bucketOf(r period.Range, at *time.Time) int {
	if at == nil {
		return -1
	}
	return r.BucketIndex(*at)
}

// RankProducts agrupa líneas por producto sumando cantidad y subtotal.
// Orden: cantidad desc, receita desc, nombre asc.
func RankProducts(lines []Line, limit int) []TopProduct {
	byID := make(map[string]*TopProduct)
	for _, l := range lines {
		if l.ProductID == "" {
			continue
		}
		acc, ok := byID[l.ProductID]
		if !ok {
			acc = &TopProduct{ProductID: l.ProductID, Name: l.ProductName, Revenue: decimal.Zero}
			byID[l.ProductID] = acc
		}
		acc.Quantity += int64(l.Quantity)
		acc.Revenue = acc.Revenue.Add(l.Subtotal)
	}

	ranked := make([]TopProduct, 0, len(byID))
	for _, acc := range byID {
		acc.Revenue = money.Round(acc.Revenue)
		ranked = append(ranked, *acc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		return a.ProductID < b.ProductID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// RankMonths suma los totales finales por mes de calendario (en loc) y devuelve los
// mejores meses. Empates: el mes más reciente primero.
func RankMonths(history []Sale, loc *time.Location, limit int) []MonthRevenue {
	if loc == nil {
		loc = time.Local
	}
	type ym struct {
		year  int
		month time.Month
	}
	byMonth := make(map[ym]decimal.Decimal)
	for _, s := range history {
		if s.CompletedAt == nil {
			continue
		}
		local := s.CompletedAt.In(loc)
		key := ym{local.Year(), local.Month()}
		byMonth[key] = byMonth[key].Add(s.FinalTotal)
	}

	ranked := make([]MonthRevenue, 0, len(byMonth))
	for k, total := range byMonth {
		ranked = append(ranked, MonthRevenue{
			Year:    k.year,
			Month:   k.month,
			Label:   MonthLabel(k.year, k.month),
			Revenue: money.Round(total),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// MonthLabel formato "Mon/YYYY", ej. "Fev/2024".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s/%d", period.MonthLabels[month-1], year)
}
