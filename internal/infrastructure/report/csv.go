package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ampliart/ampliart-api/internal/domain/sales"
)

const utf8BOM = "\uFEFF"

// CSVRenderer adapta WriteAnalysisCSV a un buffer en memoria.
type CSVRenderer struct {
	Format Format
}

// NewCSVRenderer construye el renderer.
func NewCSVRenderer(f Format) *CSVRenderer {
	return &CSVRenderer{Format: f}
}

// AnalysisCSV devuelve el CSV completo.
func (r *CSVRenderer) AnalysisCSV(a sales.Analysis) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteAnalysisCSV(&buf, a, r.Format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteAnalysisCSV escribe el análisis en CSV separado por ';' con BOM UTF-8 (Excel pt-BR).
// Secciones: indicadores, serie del período, productos más vendidos y mejores meses,
// separadas por una línea vacía.
func WriteAnalysisCSV(w io.Writer, a sales.Analysis, f Format) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	records := [][]string{
		{"Analytics de Vendas"},
		{"Periodo", KindLabel(a.Period.Kind)},
		{"Data inicio", f.Date(a.Period.StartDate)},
		{"Data fim", f.Date(a.Period.EndDate)},
		{"Receita total", f.Money(a.Revenue)},
		{"Gasto total", f.Money(a.Cost)},
		{"Lucro total", f.Money(a.Profit)},
		{"Vendas concluidas", strconv.Itoa(a.CompletedSales)},
		{"Ticket medio", f.Money(a.AverageTicket)},
		{"Margem", f.Percent(a.ProfitMargin)},
		{""},
		{"Serie do periodo"},
		{"Rotulo", "Receita", "Gasto", "Lucro"},
	}
	for i, label := range a.Series.Labels {
		records = append(records, []string{
			label,
			f.Money(a.Series.Revenue[i]),
			f.Money(a.Series.Cost[i]),
			f.Money(a.Series.Profit[i]),
		})
	}

	records = append(records, []string{""}, []string{"Produtos mais vendidos"}, []string{"Produto", "Quantidade", "Receita"})
	if len(a.TopProducts) == 0 {
		records = append(records, []string{EmptyTopProducts})
	}
	for _, p := range a.TopProducts {
		records = append(records, []string{p.Name, strconv.FormatInt(p.Quantity, 10), f.Money(p.Revenue)})
	}

	records = append(records, []string{""}, []string{"Melhores meses"}, []string{"Mes", "Receita"})
	if len(a.BestMonths) == 0 {
		records = append(records, []string{EmptyBestMonths})
	}
	for _, m := range a.BestMonths {
		records = append(records, []string{m.Label, f.Money(m.Revenue)})
	}

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("report: csv: %w", err)
	}
	return nil
}
