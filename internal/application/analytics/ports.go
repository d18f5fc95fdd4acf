package analytics

import (
	"context"
	"time"

	"github.com/ampliart/ampliart-api/internal/domain/sales"
)

// AnalysisCache caché versionado del análisis (ver infrastructure/cache).
type AnalysisCache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
}

// CacheRecorder métricas del caché de análisis; result es hit, miss o error.
type CacheRecorder interface {
	CacheLookup(result string)
}

// CSVRenderer serializa el análisis en CSV.
type CSVRenderer interface {
	AnalysisCSV(a sales.Analysis) ([]byte, error)
}

// PDFRenderer genera el PDF del análisis.
type PDFRenderer interface {
	AnalysisPDF(ctx context.Context, a sales.Analysis, issuedAt time.Time) ([]byte, error)
}
