// Package metrics expone métricas Prometheus del servicio en /metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Resultados de una consulta al caché de análisis.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics registry propio con las métricas HTTP y de negocio. Un *Metrics nil no registra nada.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	movementsTotal  *prometheus.CounterVec
	salesTotal      prometheus.Counter
	salesRevenue    prometheus.Counter
	cacheLookups    *prometheus.CounterVec
}

// New inicializa el registry y las métricas.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ampliart_http_requests_total",
			Help: "Requisições HTTP por método, rota e status.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ampliart_http_request_duration_seconds",
			Help:    "Duração das requisições HTTP por rota.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		movementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ampliart_stock_movements_total",
			Help: "Movimentações de estoque registradas manualmente, por tipo.",
		}, []string{"kind"}),
		salesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ampliart_sales_completed_total",
			Help: "Orçamentos concluídos como venda.",
		}),
		salesRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ampliart_sales_revenue_total",
			Help: "Soma do total final das vendas concluídas.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ampliart_analysis_cache_lookups_total",
			Help: "Consultas ao cache de análise por resultado (hit, miss, error).",
		}, []string{"result"}),
	}
	registry.MustRegister(
		m.requestsTotal, m.requestDuration, m.movementsTotal,
		m.salesTotal, m.salesRevenue, m.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware cuenta requisições y duración por rota registrada (ej. /api/budgets/:id).
// Un error devuelto por el handler se cuenta con el status que le dará el ErrorHandler.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		code := c.Response().StatusCode()
		if err != nil {
			code = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
		}
		route := c.Route().Path
		m.requestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(code)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// MovementRegistered cuenta una movimentação (inbound | outbound).
func (m *Metrics) MovementRegistered(kind string) {
	if m == nil {
		return
	}
	m.movementsTotal.WithLabelValues(kind).Inc()
}

// SaleCompleted cuenta una venta concluida y suma su total final.
func (m *Metrics) SaleCompleted(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.salesTotal.Inc()
	m.salesRevenue.Add(total.InexactFloat64())
}

// CacheLookup registra el resultado de una consulta al caché de análisis.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
