// Package metrics expone contadores Prometheus del libro de lotes y del servidor HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ inventory.Metrics = (*Metrics)(nil)

// Metrics registro propio (no el global) con las métricas de la aplicación.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	UnitsAllocated      *prometheus.CounterVec
	AllocationConflicts prometheus.Counter
	UnitsReceived       prometheus.Counter
	UnitsReturned       prometheus.Counter
	LotsExpiredTotal    prometheus.Counter
}

// New crea el registro con métricas de runtime y de negocio bajo el namespace indicado.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "farmacia"
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)
	m.UnitsAllocated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lot_units_allocated_total",
			Help:      "Unidades descontadas de lotes por asignaciones confirmadas",
		},
		[]string{"movement_type"},
	)
	m.AllocationConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocation_conflicts_total",
		Help:      "Confirmaciones rechazadas por modificación concurrente",
	})
	m.UnitsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lot_units_received_total",
		Help:      "Unidades ingresadas en lotes nuevos",
	})
	m.UnitsReturned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lot_units_returned_total",
		Help:      "Unidades devueltas a lotes",
	})
	m.LotsExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lots_expired_total",
		Help:      "Lotes marcados como vencidos por el barrido",
	})

	registry.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.UnitsAllocated, m.AllocationConflicts, m.UnitsReceived, m.UnitsReturned, m.LotsExpiredTotal,
	)
	return m
}

// Handler devuelve el handler HTTP de exposición.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registro (pruebas).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest registra una petición terminada.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) AllocationCommitted(movementType entity.MovementType, units int) {
	m.UnitsAllocated.WithLabelValues(string(movementType)).Add(float64(units))
}

func (m *Metrics) AllocationConflict() { m.AllocationConflicts.Inc() }

func (m *Metrics) StockReceived(units int) { m.UnitsReceived.Add(float64(units)) }

func (m *Metrics) StockReturned(units int) { m.UnitsReturned.Add(float64(units)) }

func (m *Metrics) LotsExpired(count int) { m.LotsExpiredTotal.Add(float64(count)) }
