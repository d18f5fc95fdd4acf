// Package pdf genera los documentos impresos con Maroto v2: el orçamento para el cliente
// y el reporte de análisis de ventas.
//
// Layout del orçamento (A4 vertical):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa              │  N° Orçamento + Fecha         │
//	│  CLIENTE: Nombre + Tel / Email │  Status                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Produto | Qtd | Preço unit. | Subtotal                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total bruto / Ajuste / Total final                  │
//	│  Concluído em (solo ventas concluidas)                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/infrastructure/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa budget.PDFGenerator y analytics.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
	format  report.Format
}

// NewMarotoPDFGenerator construye el generador. company aparece en el encabezado.
func NewMarotoPDFGenerator(company string, format report.Format) *MarotoPDFGenerator {
	if company == "" {
		company = "Ampliart"
	}
	return &MarotoPDFGenerator{company: company, format: format}
}

func (g *MarotoPDFGenerator) newDocument(title string, o orientation.Type) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(o).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.company, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// BudgetPDF genera el PDF del orçamento y devuelve sus bytes.
func (g *MarotoPDFGenerator) BudgetPDF(_ context.Context, b *entity.Budget, issuedAt time.Time) ([]byte, error) {
	m := g.newDocument("Orçamento "+b.ID, orientation.Vertical)

	m.AddRows(g.budgetHeaderRow(b, issuedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(b))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow([]header{
		{"Produto", 6, align.Left},
		{"Qtd", 1, align.Center},
		{"Preço unit.", 2, align.Right},
		{"Subtotal", 3, align.Right},
	}))
	for _, it := range b.Items {
		m.AddRows(row.New(7).Add(
			col.New(6).Add(text.New(it.ProductName, cell(align.Left))),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), cell(align.Center))),
			col.New(2).Add(text.New(g.format.Money(it.UnitPrice), cell(align.Right))),
			col.New(3).Add(text.New(g.format.Money(it.Subtotal), cell(align.Right))),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.budgetTotalsRows(b)...)

	if b.CompletedAt != nil {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Concluído em: "+g.format.DateTime(*b.CompletedAt), props.Text{
				Size: 8, Top: 3, Color: colorGray,
			}),
		)))
	}
	return generate(m)
}

// ── Secciones del orçamento ───────────────────────────────────────────────────

// budgetHeaderRow: empresa (izq) y número + fecha (der).
func (g *MarotoPDFGenerator) budgetHeaderRow(b *entity.Budget, issuedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.company, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido em: "+g.format.Date(issuedAt), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORÇAMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(b.ID, props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+g.format.Date(b.CreatedAt), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// clientRow: datos del cliente y status.
func clientRow(b *entity.Budget) core.Row {
	contact := "Tel: " + b.ClientPhone
	if b.ClientEmail != nil {
		contact += "   |   Email: " + *b.ClientEmail
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(b.ClientName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(contact, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Status: "+b.Status.Label(), props.Text{
				Size: 9, Align: align.Right, Top: 6,
			}),
		),
	)
}

// budgetTotalsRows: total bruto, ajuste (si hay) y total final alineados a la derecha.
func (g *MarotoPDFGenerator) budgetTotalsRows(b *entity.Budget) []core.Row {
	rows := []core.Row{totalRow("Total bruto:", g.format.Money(b.GrossTotal), false)}
	if b.HasAdjustment() {
		label := "Desconto"
		if b.AdjustmentKind == entity.AdjustmentSurcharge {
			label = "Acréscimo"
		}
		rows = append(rows, totalRow(
			fmt.Sprintf("%s (%s):", label, g.format.Percent(*b.AdjustmentPercentage)),
			g.format.Money(b.AdjustmentAmount),
			false,
		))
	}
	return append(rows, totalRow("TOTAL FINAL:", g.format.Money(b.FinalTotal), true))
}

func totalRow(label, value string, grand bool) core.Row {
	style := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1}
	valueStyle := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
	if grand {
		style.Size, style.Color = 10, colorPrimary
		valueStyle.Size, valueStyle.Color, valueStyle.Style = 10, colorPrimary, fontstyle.Bold
	}
	return row.New(7).Add(
		col.New(6),
		col.New(3).Add(text.New(label, style)),
		col.New(3).Add(text.New(value, valueStyle)),
	)
}

// ── helpers de tabla ──────────────────────────────────────────────────────────

type header struct {
	label string
	size  int
	align align.Type
}

func tableHeaderRow(cols []header) core.Row {
	r := row.New(8)
	for _, h := range cols {
		r.Add(col.New(h.size).Add(text.New(h.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: h.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

func cell(a align.Type) props.Text {
	return props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
}

// emptyRow fila de una sola celda con el texto de sección vacía.
func emptyRow(msg string) core.Row {
	return row.New(7).Add(col.New(12).Add(text.New(msg, props.Text{
		Size: 8, Top: 1, Left: 1, Color: colorGray,
	})))
}
