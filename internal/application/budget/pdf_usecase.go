package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/ampliart/ampliart-api/internal/domain/repository"
)

// PDFUseCase genera el PDF imprimible de un orçamento.
type PDFUseCase struct {
	repo      repository.BudgetRepository
	generator PDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repo repository.BudgetRepository, generator PDFGenerator) *PDFUseCase {
	return &PDFUseCase{repo: repo, generator: generator}
}

// DownloadBudgetPDF carga el orçamento con sus ítems y genera el PDF.
// Devuelve domain.ErrNotFound si el orçamento no existe.
func (uc *PDFUseCase) DownloadBudgetPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener orçamento: %w", err)
	}
	if b == nil {
		return nil, "", errBudgetNotFound
	}
	pdfBytes, err = uc.generator.BudgetPDF(ctx, b, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("orcamento-%s.pdf", b.ID), nil
}
