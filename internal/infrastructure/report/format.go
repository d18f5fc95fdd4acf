// Package report formatea el análisis de ventas para exportación (CSV) y expone las
// constantes de formato compartidas con el generador de PDF.
package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ampliart/ampliart-api/internal/domain/money"
	"github.com/ampliart/ampliart-api/internal/domain/period"
	"github.com/ampliart/ampliart-api/pkg/config"
)

// Format constantes de formato de los reportes. Se construye desde config; no hay estado global.
type Format struct {
	CurrencySymbol   string
	DecimalSeparator string
	DatePattern      string
}

// DefaultFormat formato brasileño (R$, coma decimal, dd/mm/aaaa).
func DefaultFormat() Format {
	return Format{CurrencySymbol: "R$", DecimalSeparator: ",", DatePattern: "02/01/2006"}
}

// NewFormat arma el formato desde la sección Report; campos vacíos toman el valor por defecto.
func NewFormat(cfg config.ReportConfig) Format {
	f := DefaultFormat()
	if cfg.CurrencySymbol != "" {
		f.CurrencySymbol = cfg.CurrencySymbol
	}
	if cfg.DecimalSeparator != "" {
		f.DecimalSeparator = cfg.DecimalSeparator
	}
	if cfg.DatePattern != "" {
		f.DatePattern = cfg.DatePattern
	}
	return f
}

// Money "R$ 1234,56".
func (f Format) Money(d decimal.Decimal) string {
	return f.CurrencySymbol + " " + f.Number(d)
}

// Number número con 2 decimales y el separador configurado.
func (f Format) Number(d decimal.Decimal) string {
	s := money.Round(d).StringFixed(money.Scale)
	if f.DecimalSeparator != "." {
		s = strings.Replace(s, ".", f.DecimalSeparator, 1)
	}
	return s
}

// Percent "37,50%".
func (f Format) Percent(d decimal.Decimal) string {
	return f.Number(d) + "%"
}

// Date fecha con el patrón configurado; "-" si es cero.
func (f Format) Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(f.DatePattern)
}

// DateTime fecha y hora (HH:MM).
func (f Format) DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(f.DatePattern + " 15:04")
}

// Interval "01/02/2024 ate 29/02/2024".
func (f Format) Interval(r period.Range) string {
	return f.Date(r.StartDate) + " ate " + f.Date(r.EndDate)
}

// KindLabel nombre del período para el encabezado del reporte.
func KindLabel(k period.Kind) string {
	switch k {
	case period.Day:
		return "dia"
	case period.Week:
		return "semana"
	case period.Month:
		return "mes"
	case period.Year:
		return "ano"
	case period.Custom:
		return "personalizado"
	}
	return string(k)
}

// Textos para secciones vacías.
const (
	EmptyTopProducts = "Sem vendas concluidas neste periodo"
	EmptyBestMonths  = "Sem historico suficiente"
)
