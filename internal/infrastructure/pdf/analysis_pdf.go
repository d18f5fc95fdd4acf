package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ampliart/ampliart-api/internal/domain/sales"
	"github.com/ampliart/ampliart-api/internal/infrastructure/report"
)

// AnalysisPDF genera el reporte de análisis de ventas (A4 horizontal): indicadores,
// productos más vendidos y mejores meses.
func (g *MarotoPDFGenerator) AnalysisPDF(_ context.Context, a sales.Analysis, issuedAt time.Time) ([]byte, error) {
	m := g.newDocument("Analytics de Vendas", orientation.Horizontal)

	m.AddRows(row.New(16).Add(col.New(12).Add(
		text.New("Analytics de Vendas", props.Text{
			Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1,
		}),
		text.New(fmt.Sprintf("Periodo: %s   |   Gerado em: %s", g.format.Interval(a.Period), g.format.Date(issuedAt)),
			props.Text{Size: 9, Top: 10, Color: colorGray}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow([]header{{"Indicador", 6, align.Left}, {"Valor", 6, align.Right}}))
	for _, kv := range [][2]string{
		{"Receita total", g.format.Money(a.Revenue)},
		{"Gasto total", g.format.Money(a.Cost)},
		{"Lucro total", g.format.Money(a.Profit)},
		{"Vendas concluidas", strconv.Itoa(a.CompletedSales)},
		{"Ticket medio", g.format.Money(a.AverageTicket)},
		{"Margem", g.format.Percent(a.ProfitMargin)},
	} {
		m.AddRows(row.New(6).Add(
			col.New(6).Add(text.New(kv[0], cell(align.Left))),
			col.New(6).Add(text.New(kv[1], cell(align.Right))),
		))
	}

	m.AddRows(sectionRow("Produtos Mais Vendidos"))
	m.AddRows(tableHeaderRow([]header{{"Produto", 7, align.Left}, {"Qtd", 2, align.Center}, {"Receita", 3, align.Right}}))
	m.AddRows(g.topProductRows(a.TopProducts)...)

	m.AddRows(sectionRow("Melhores Meses de Venda"))
	m.AddRows(tableHeaderRow([]header{{"Mes", 6, align.Left}, {"Receita", 6, align.Right}}))
	m.AddRows(g.bestMonthRows(a.BestMonths)...)

	return generate(m)
}

func sectionRow(title string) core.Row {
	return row.New(12).Add(col.New(12).Add(text.New(title, props.Text{
		Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 5,
	})))
}

func (g *MarotoPDFGenerator) topProductRows(list []sales.TopProduct) []core.Row {
	if len(list) == 0 {
		return []core.Row{emptyRow(report.EmptyTopProducts)}
	}
	rows := make([]core.Row, 0, len(list))
	for _, p := range list {
		rows = append(rows, row.New(6).Add(
			col.New(7).Add(text.New(p.Name, cell(align.Left))),
			col.New(2).Add(text.New(strconv.FormatInt(p.Quantity, 10), cell(align.Center))),
			col.New(3).Add(text.New(g.format.Money(p.Revenue), cell(align.Right))),
		))
	}
	return rows
}

func (g *MarotoPDFGenerator) bestMonthRows(list []sales.MonthRevenue) []core.Row {
	if len(list) == 0 {
		return []core.Row{emptyRow(report.EmptyBestMonths)}
	}
	rows := make([]core.Row, 0, len(list))
	for _, mth := range list {
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(mth.Label, cell(align.Left))),
			col.New(6).Add(text.New(g.format.Money(mth.Revenue), cell(align.Right))),
		))
	}
	return rows
}
