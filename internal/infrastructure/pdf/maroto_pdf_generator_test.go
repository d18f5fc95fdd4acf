package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/period"
	"github.com/ampliart/ampliart-api/internal/domain/sales"
	"github.com/ampliart/ampliart-api/internal/infrastructure/pdf"
	"github.com/ampliart/ampliart-api/internal/infrastructure/report"
)

func TestBudgetPDF_GeneraDocumento(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("Ampliart", report.DefaultFormat())
	pct := decimal.NewFromInt(10)
	email := "maria@example.com"
	done := time.Date(2024, 2, 10, 14, 30, 0, 0, time.UTC)
	b := &entity.Budget{
		ID: "b-1", ClientName: "Maria", ClientPhone: "11999990000", ClientEmail: &email,
		Status:     entity.BudgetSaleCompleted,
		GrossTotal: decimal.NewFromInt(200), AdjustmentKind: entity.AdjustmentDiscount,
		AdjustmentPercentage: &pct, AdjustmentAmount: decimal.NewFromInt(-20), FinalTotal: decimal.NewFromInt(180),
		CreatedAt: done.AddDate(0, 0, -2), CompletedAt: &done,
		Items: []entity.BudgetItem{{ID: "i", ProductName: "Banner lona", Quantity: 4,
			UnitPrice: decimal.NewFromInt(50), Subtotal: decimal.NewFromInt(200)}},
	}

	data, err := g.BudgetPDF(context.Background(), b, done)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestAnalysisPDF_SinVentas(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("", report.DefaultFormat())
	ref := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	a := sales.Analyze(period.Resolve(period.Request{Reference: &ref}, ref), nil, nil, nil)

	data, err := g.AnalysisPDF(context.Background(), a, ref)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
