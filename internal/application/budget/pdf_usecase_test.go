package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/application/budget"
	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/testutil"
)

type pdfStub struct{ got *entity.Budget }

func (p *pdfStub) BudgetPDF(_ context.Context, b *entity.Budget, _ time.Time) ([]byte, error) {
	p.got = b
	return []byte("%PDF-1.4"), nil
}

func TestDownloadBudgetPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.newBudget(t)
	_, err := f.uc.AddItem(ctx, b.ID, dto.AddBudgetItemRequest{Code: "A01"})
	require.NoError(t, err)

	stub := &pdfStub{}
	uc := budget.NewPDFUseCase(testutil.NewBudgetRepo(f.store), stub)
	data, name, err := uc.DownloadBudgetPDF(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "orcamento-"+b.ID+".pdf", name)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	require.NotNil(t, stub.got)
	assert.Len(t, stub.got.Items, 1)

	_, _, err = uc.DownloadBudgetPDF(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
