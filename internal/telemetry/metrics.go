// Package telemetry provides Prometheus metrics for chat queries and page
// updates, plus an in-memory latency window for the stats endpoint.
package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeAbsent      = "absent"
	OutcomeUnavailable = "unavailable"
)

var (
	once sync.Once

	QueriesTotal   *prometheus.CounterVec
	QueryDuration  *prometheus.HistogramVec
	PageLoadsTotal *prometheus.CounterVec
	FramesAttached prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatframe_queries_total",
			Help: "Chat queries by query name and outcome",
		}, []string{"query", "outcome"})
		QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatframe_query_duration_seconds",
			Help:    "Chat query duration seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"query"})
		PageLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatframe_page_loads_total",
			Help: "Host page and frame updates by kind",
		}, []string{"kind"})
		FramesAttached = promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chatframe_frames_attached",
			Help: "Iframes that currently have a content document",
		})
	})
}

// ObserveQuery records one query. It is a no-op before Init.
func ObserveQuery(query, outcome string, d time.Duration) {
	if QueriesTotal == nil {
		return
	}
	QueriesTotal.WithLabelValues(query, outcome).Inc()
	QueryDuration.WithLabelValues(query).Observe(d.Seconds())
}

// ObservePageLoad records a host or frame update and the resulting number
// of attached frames.
func ObservePageLoad(kind string, frames int) {
	if PageLoadsTotal == nil {
		return
	}
	PageLoadsTotal.WithLabelValues(kind).Inc()
	FramesAttached.Set(float64(frames))
}
