// Package metrics implementa ports.Metrics con Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stocksync/internal/application/ports"
)

// Prometheus registra contadores de movimientos y de sincronización en un registry propio.
type Prometheus struct {
	registry     *prometheus.Registry
	handler      http.Handler
	posted       *prometheus.CounterVec
	units        *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	syncAttempts *prometheus.CounterVec
	syncDuration *prometheus.HistogramVec
}

var _ ports.Metrics = (*Prometheus)(nil)

// NewPrometheus inicializa el registry y las métricas.
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	posted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_stock_transactions_total",
		Help: "Movimientos de stock confirmados por tipo.",
	}, []string{"type"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_stock_units_total",
		Help: "Unidades movidas por tipo de movimiento.",
	}, []string{"type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_stock_rejected_total",
		Help: "Movimientos rechazados por motivo.",
	}, []string{"reason"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_sync_attempts_total",
		Help: "Intentos de sincronización por dirección y resultado.",
	}, []string{"direction", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stocksync_sync_duration_seconds",
		Help:    "Duración de las sincronizaciones por dirección.",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction"})
	registry.MustRegister(posted, units, rejected, attempts, duration)
	return &Prometheus{
		registry:     registry,
		handler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		posted:       posted,
		units:        units,
		rejected:     rejected,
		syncAttempts: attempts,
		syncDuration: duration,
	}
}

// Handler http.Handler para /metrics.
func (m *Prometheus) Handler() http.Handler { return m.handler }

// Registry expone el registry para métricas adicionales.
func (m *Prometheus) Registry() *prometheus.Registry { return m.registry }

func (m *Prometheus) StockPosted(txType string, quantity int) {
	m.posted.WithLabelValues(txType).Inc()
	m.units.WithLabelValues(txType).Add(float64(quantity))
}

func (m *Prometheus) StockRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Prometheus) SyncAttempt(direction, result string) {
	m.syncAttempts.WithLabelValues(direction, result).Inc()
}

func (m *Prometheus) SyncDuration(direction string, d time.Duration) {
	m.syncDuration.WithLabelValues(direction).Observe(d.Seconds())
}
