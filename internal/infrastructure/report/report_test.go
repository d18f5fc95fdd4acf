package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/domain/period"
	"github.com/ampliart/ampliart-api/internal/domain/sales"
	"github.com/ampliart/ampliart-api/internal/infrastructure/report"
	"github.com/ampliart/ampliart-api/pkg/config"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormat_Money(t *testing.T) {
	f := report.DefaultFormat()
	assert.Equal(t, "R$ 1234,56", f.Money(d("1234.555")))
	assert.Equal(t, "R$ 0,00", f.Money(decimal.Zero))
	assert.Equal(t, "R$ -20,00", f.Money(d("-20")))
	assert.Equal(t, "37,50%", f.Percent(d("37.5")))
}

func TestNewFormat_CamposVaciosUsanDefault(t *testing.T) {
	f := report.NewFormat(config.ReportConfig{CurrencySymbol: "US$", DecimalSeparator: "."})
	assert.Equal(t, "US$ 10.50", f.Money(d("10.5")))
	assert.Equal(t, "02/01/2006", f.DatePattern)
	assert.Equal(t, "-", f.Date(time.Time{}))
}

func TestCSVRenderer_IncluyeBOM(t *testing.T) {
	data, err := report.NewCSVRenderer(report.DefaultFormat()).AnalysisCSV(sampleAnalysis())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func sampleAnalysis() sales.Analysis {
	ref := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	r := period.Resolve(period.Request{Kind: "month", Reference: &ref}, ref)
	return sales.Analyze(r, nil, nil, nil)
}

func TestWriteAnalysisCSV_Vacio(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteAnalysisCSV(&buf, sampleAnalysis(), report.DefaultFormat()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\uFEFF"))
	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\n")
	assert.Equal(t, "Analytics de Vendas", lines[0])
	assert.Equal(t, "Periodo;mes", lines[1])
	assert.Equal(t, "Data inicio;01/02/2024", lines[2])
	assert.Equal(t, "Data fim;29/02/2024", lines[3])
	assert.Equal(t, "Margem;0,00%", lines[9])
	assert.Contains(t, out, "Rotulo;Receita;Gasto;Lucro\n01;R$ 0,00;R$ 0,00;R$ 0,00\n")
	assert.Contains(t, out, "Produto;Quantidade;Receita\n"+report.EmptyTopProducts+"\n")
	assert.Contains(t, out, "Mes;Receita\n"+report.EmptyBestMonths+"\n")
}

func TestWriteAnalysisCSV_ConDatos(t *testing.T) {
	a := sampleAnalysis()
	a.Revenue = d("80")
	a.TopProducts = []sales.TopProduct{{ProductID: "p1", Name: "Banner; lona", Quantity: 5, Revenue: d("100")}}
	a.BestMonths = []sales.MonthRevenue{{Year: 2024, Month: time.February, Label: "Fev/2024", Revenue: d("80")}}

	var buf bytes.Buffer
	require.NoError(t, report.WriteAnalysisCSV(&buf, a, report.DefaultFormat()))
	out := buf.String()
	assert.Contains(t, out, "Receita total;R$ 80,00\n")
	assert.Contains(t, out, "\"Banner; lona\";5;R$ 100,00\n")
	assert.Contains(t, out, "Fev/2024;R$ 80,00\n")
	assert.NotContains(t, out, report.EmptyTopProducts)
}
