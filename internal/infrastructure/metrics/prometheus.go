// Package metrics implementa ports.MetricsRecorder con Prometheus y expone el registro por HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/tenis-ops/internal/application/ports"
)

var _ ports.MetricsRecorder = (*Metrics)(nil)

const namespace = "tenis_ops"

// Metrics contadores del núcleo más métricas HTTP, en un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	TransferTransitions *prometheus.CounterVec
	TransferRejections  *prometheus.CounterVec
	StockAdjustments    *prometheus.CounterVec
	StockUnits          *prometheus.CounterVec
	PairsFormedTotal    prometheus.Counter
	SalesCreated        *prometheus.CounterVec
	ReceiptFailures     *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New crea el registro con los colectores de Go y de proceso.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.TransferTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_transitions_total",
			Help:      "Transiciones de transferencias aplicadas, por evento y estado resultante",
		},
		[]string{"event", "status"},
	)
	m.TransferRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_rejections_total",
			Help:      "Operaciones de transferencia rechazadas, por evento y motivo",
		},
		[]string{"event", "reason"},
	)
	m.StockAdjustments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Ajustes de stock registrados en el log, por tipo de cambio",
		},
		[]string{"change_type"},
	)
	m.StockUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_total",
			Help:      "Unidades movidas, por tipo de cambio y dirección (in/out)",
		},
		[]string{"change_type", "direction"},
	)
	m.PairsFormedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_formed_total",
			Help:      "Pares formados a partir de pies sueltos",
		},
	)
	m.SalesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_created_total",
			Help:      "Ventas registradas, por estado inicial",
		},
		[]string{"status"},
	)
	m.ReceiptFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_failures_total",
			Help:      "Fallos al generar o guardar comprobantes, por etapa",
		},
		[]string{"stage"},
	)
	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas",
		},
		[]string{"method", "route", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registry.MustRegister(
		m.TransferTransitions, m.TransferRejections, m.StockAdjustments, m.StockUnits,
		m.PairsFormedTotal, m.SalesCreated, m.ReceiptFailures,
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
	)
	return m
}

func (m *Metrics) TransferTransition(event, status string) {
	m.TransferTransitions.WithLabelValues(event, status).Inc()
}

func (m *Metrics) TransferRejected(event, reason string) {
	m.TransferRejections.WithLabelValues(event, reason).Inc()
}

func (m *Metrics) StockAdjusted(changeType string, delta int) {
	m.StockAdjustments.WithLabelValues(changeType).Inc()
	switch {
	case delta > 0:
		m.StockUnits.WithLabelValues(changeType, "in").Add(float64(delta))
	case delta < 0:
		m.StockUnits.WithLabelValues(changeType, "out").Add(float64(-delta))
	}
}

func (m *Metrics) PairsFormed(quantity int) {
	if quantity > 0 {
		m.PairsFormedTotal.Add(float64(quantity))
	}
}

func (m *Metrics) SaleCreated(status string) {
	m.SalesCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) ReceiptFailed(stage string) {
	m.ReceiptFailures.WithLabelValues(stage).Inc()
}

// ObserveHTTP registra una petición atendida.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
