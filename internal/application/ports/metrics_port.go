package ports

import "time"

// Metrics define el puerto de métricas del motor de inventario y la sincronización.
// La implementación Prometheus vive en infrastructure/metrics.
type Metrics interface {
	StockPosted(txType string, quantity int)
	StockRejected(reason string)
	SyncAttempt(direction, result string)
	SyncDuration(direction string, d time.Duration)
}

// NopMetrics implementación vacía para tests y para cuando no hay métricas configuradas.
type NopMetrics struct{}

func (NopMetrics) StockPosted(string, int)            {}
func (NopMetrics) StockRejected(string)               {}
func (NopMetrics) SyncAttempt(string, string)         {}
func (NopMetrics) SyncDuration(string, time.Duration) {}

var _ Metrics = NopMetrics{}
